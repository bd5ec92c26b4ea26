package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleapp/huddle/internal/domain"
	memoryrepo "github.com/huddleapp/huddle/internal/repository/memory"
)

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	svc := NewAuthService(memoryrepo.NewUserRepo(), "test-secret")
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterInput{Email: "founder@example.com", Name: "Founder", Password: "pw-123456"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, first.User.Role)
	assert.NotEmpty(t, first.AccessToken)

	second, err := svc.Register(ctx, RegisterInput{Email: "hire@example.com", Name: "Hire", Password: "pw-123456"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, second.User.Role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := NewAuthService(memoryrepo.NewUserRepo(), "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "dup@example.com", Name: "One", Password: "pw-123456"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "dup@example.com", Name: "Two", Password: "pw-123456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc := NewAuthService(memoryrepo.NewUserRepo(), "test-secret")
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: "user@example.com", Name: "User", Password: "correct-horse"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginInput{Email: "user@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(ctx, LoginInput{Email: "user@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPassword("hunter2-hunter2")
	require.NoError(t, err)

	assert.True(t, verifyPassword("hunter2-hunter2", hash))
	assert.False(t, verifyPassword("hunter3-hunter3", hash))
	assert.False(t, verifyPassword("hunter2-hunter2", "not-a-valid-hash"))

	// Salted: the same password hashes differently each time.
	other, err := hashPassword("hunter2-hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}
