package validator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		userName string
		password string
		wantErrs []string
	}{
		{"valid", "a@example.com", "Alice", "Passw0rd", nil},
		{"missing everything", "", "", "", []string{"email", "name", "password"}},
		{"bad email", "not-an-email", "Alice", "Passw0rd", []string{"email"}},
		{"short name", "a@example.com", "A", "Passw0rd", []string{"name"}},
		{"short password", "a@example.com", "Alice", "Pw0", []string{"password"}},
		{"password without digit", "a@example.com", "Alice", "Password", []string{"password"}},
		{"password without upper", "a@example.com", "Alice", "passw0rd", []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegister(tt.email, tt.userName, tt.password)
			assert.Equal(t, len(tt.wantErrs) > 0, errs.HasErrors())
			for _, field := range tt.wantErrs {
				assert.Contains(t, errs, field)
			}
			assert.Len(t, errs, len(tt.wantErrs))
		})
	}
}

func TestValidateLogin(t *testing.T) {
	assert.False(t, ValidateLogin("a@example.com", "anything").HasErrors())
	assert.Contains(t, ValidateLogin("", "pw"), "email")
	assert.Contains(t, ValidateLogin("a@example.com", ""), "password")
}

func TestValidateChannel(t *testing.T) {
	assert.False(t, ValidateChannel("general").HasErrors())
	assert.Contains(t, ValidateChannel(""), "name")
	assert.Contains(t, ValidateChannel("   "), "name")
	assert.Contains(t, ValidateChannel("x"), "name")
	assert.Contains(t, ValidateChannel(strings.Repeat("x", 101)), "name")
}

func TestValidateMessage(t *testing.T) {
	assert.False(t, ValidateMessage("hi").HasErrors())
	assert.Contains(t, ValidateMessage("   "), "content")
	assert.Contains(t, ValidateMessage(strings.Repeat("x", 4001)), "content")
}

func TestValidateInvite(t *testing.T) {
	assert.False(t, ValidateInvite("new@example.com").HasErrors())
	assert.Contains(t, ValidateInvite("nope"), "email")
}

func TestValidateLeave(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	assert.False(t, ValidateLeave(start, start.AddDate(0, 0, 2), "vacation").HasErrors())
	assert.Contains(t, ValidateLeave(time.Time{}, start, "r"), "start_date")
	assert.Contains(t, ValidateLeave(start, time.Time{}, "r"), "end_date")
	assert.Contains(t, ValidateLeave(start, start.AddDate(0, 0, -1), "r"), "end_date")
	assert.Contains(t, ValidateLeave(start, start, ""), "reason")
}

func TestValidatePasswordMessageNamesMissingClasses(t *testing.T) {
	errs := ValidateRegister("a@example.com", "Alice", "alllower")
	msg := errs["password"]
	assert.Contains(t, msg, "one uppercase letter")
	assert.Contains(t, msg, "one number")
	assert.NotContains(t, msg, "one lowercase letter")
}
