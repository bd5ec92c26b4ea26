package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/clock"
	"github.com/huddleapp/huddle/internal/domain"
	"github.com/huddleapp/huddle/internal/mail"
	"github.com/huddleapp/huddle/internal/repository"
)

var (
	ErrEmailTaken     = errors.New("email already belongs to a user")
	ErrInvitePending  = errors.New("email already has a pending invitation")
	ErrInviteNotFound = errors.New("invitation not found or expired")
)

// InviteService issues, verifies and consumes workspace invitations. A
// token lives through exactly one of two terminal transitions: accepted or
// expired.
type InviteService struct {
	inviteRepo repository.InviteRepository
	userRepo   repository.UserRepository
	mailer     mail.Sender
	clk        clock.Clock
	ttl        time.Duration
	baseURL    string
}

func NewInviteService(
	inviteRepo repository.InviteRepository,
	userRepo repository.UserRepository,
	mailer mail.Sender,
	clk clock.Clock,
	ttl time.Duration,
	baseURL string,
) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
		mailer:     mailer,
		clk:        clk,
		ttl:        ttl,
		baseURL:    baseURL,
	}
}

type AcceptInviteInput struct {
	Name        string `json:"name"`
	Password    string `json:"password"`
	Designation string `json:"designation"`
	Phone       string `json:"phone"`
}

// Issue stores a new invitation and attempts to mail the join link. The
// invite is persisted before the send; a mail failure is logged and the
// invite (with its link) is still returned so the caller can deliver it
// out-of-band.
func (s *InviteService) Issue(ctx context.Context, inviterID uuid.UUID, email string) (*domain.Invite, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	pending, err := s.inviteRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if pending != nil && !pending.Expired(s.clk.Now()) {
		return nil, ErrInvitePending
	}
	if pending != nil {
		// Stale invite for the same email; replace it.
		if err := s.inviteRepo.Delete(ctx, pending.ID); err != nil {
			return nil, err
		}
	}

	token, err := generateInviteToken()
	if err != nil {
		return nil, fmt.Errorf("generating invite token: %w", err)
	}

	now := s.clk.Now()
	inv := &domain.Invite{
		ID:        uuid.New(),
		Email:     email,
		Token:     token,
		InvitedBy: inviterID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("creating invite: %w", err)
	}

	link := s.JoinLink(inv)
	body := fmt.Sprintf(
		`<p>You have been invited to join the team on Huddle.</p><p><a href="%s">Accept your invitation</a> before %s.</p>`,
		link, inv.ExpiresAt.Format("Jan 2, 2006"),
	)
	if _, err := s.mailer.Send(ctx, email, "You're invited to Huddle", body); err != nil {
		log.Printf("invite mail to %s failed, link must be shared manually: %v", email, err)
	}

	return inv, nil
}

// Verify is a pure lookup; it never consumes the token. An expired token is
// indistinguishable from an unknown one.
func (s *InviteService) Verify(ctx context.Context, token string) (*domain.Invite, error) {
	inv, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.Expired(s.clk.Now()) {
		return nil, ErrInviteNotFound
	}
	return inv, nil
}

// Accept consumes the token: the new user is created from the invitation
// email plus the supplied profile, and the invite is removed in the same
// step. A token accepts at most once.
func (s *InviteService) Accept(ctx context.Context, token string, input AcceptInviteInput) (*domain.User, error) {
	inv, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := s.clk.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        inv.Email,
		Name:         input.Name,
		Role:         domain.RoleMember,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Designation != "" {
		user.Designation = &input.Designation
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}

	if err := s.inviteRepo.Consume(ctx, inv.ID, user); err != nil {
		return nil, fmt.Errorf("consuming invite: %w", err)
	}

	// Consume is a no-op when another accept won the race; report the
	// token as gone rather than returning a user that was never stored.
	created, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, ErrInviteNotFound
	}
	return created, nil
}

func (s *InviteService) List(ctx context.Context) ([]domain.Invite, error) {
	invites, err := s.inviteRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clk.Now()
	active := invites[:0]
	for _, inv := range invites {
		if !inv.Expired(now) {
			active = append(active, inv)
		}
	}
	return active, nil
}

func (s *InviteService) Revoke(ctx context.Context, id uuid.UUID) error {
	return s.inviteRepo.Delete(ctx, id)
}

// SweepExpired deletes invites past their TTL. Run periodically.
func (s *InviteService) SweepExpired(ctx context.Context) {
	n, err := s.inviteRepo.DeleteExpired(ctx, s.clk.Now())
	if err != nil {
		log.Printf("invite sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("invite sweep removed %d expired invitation(s)", n)
	}
}

func (s *InviteService) JoinLink(inv *domain.Invite) string {
	return fmt.Sprintf("%s/join?token=%s", s.baseURL, inv.Token)
}

// generateInviteToken returns 32 bytes of crypto/rand entropy, base64url
// encoded. The token carries no information about the invitee; the email
// association lives only server-side.
func generateInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
