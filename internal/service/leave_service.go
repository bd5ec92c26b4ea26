package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
	"github.com/huddleapp/huddle/internal/repository"
)

var (
	ErrLeaveNotFound    = errors.New("leave request not found")
	ErrAlreadyDecided   = errors.New("leave request already decided")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
)

// LeaveService manages leave requests: created pending, decided exactly
// once by an admin.
type LeaveService struct {
	leaveRepo repository.LeaveRepository
	userRepo  repository.UserRepository
}

func NewLeaveService(leaveRepo repository.LeaveRepository, userRepo repository.UserRepository) *LeaveService {
	return &LeaveService{
		leaveRepo: leaveRepo,
		userRepo:  userRepo,
	}
}

type SubmitLeaveInput struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}

func (s *LeaveService) Submit(ctx context.Context, userID uuid.UUID, input SubmitLeaveInput) (*domain.LeaveRequest, error) {
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	req := &domain.LeaveRequest{
		ID:          uuid.New(),
		UserID:      userID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Reason:      input.Reason,
		Status:      domain.LeavePending,
		RequestedAt: time.Now(),
	}

	if err := s.leaveRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("creating leave request: %w", err)
	}
	return req, nil
}

// Decide transitions a pending request to approved or rejected. The
// transition is terminal: a decided request never changes again.
func (s *LeaveService) Decide(ctx context.Context, approverID, requestID uuid.UUID, approve bool, note string) (*domain.LeaveRequest, error) {
	approver, err := s.userRepo.GetByID(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if approver == nil || approver.Role != domain.RoleAdmin {
		return nil, ErrNotAdmin
	}

	req, err := s.leaveRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrLeaveNotFound
	}
	if req.Decided() {
		return nil, ErrAlreadyDecided
	}

	now := time.Now()
	if approve {
		req.Status = domain.LeaveApproved
	} else {
		req.Status = domain.LeaveRejected
	}
	req.DecidedBy = &approverID
	req.DecidedAt = &now
	if note != "" {
		req.DecisionNote = &note
	}

	if err := s.leaveRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("updating leave request: %w", err)
	}
	return req, nil
}

func (s *LeaveService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.LeaveRequest, error) {
	requests, err := s.leaveRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []domain.LeaveRequest{}
	}
	return requests, nil
}

// ListPending is the admin approval queue.
func (s *LeaveService) ListPending(ctx context.Context, requesterID uuid.UUID) ([]domain.LeaveRequest, error) {
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil || requester.Role != domain.RoleAdmin {
		return nil, ErrNotAdmin
	}

	requests, err := s.leaveRepo.ListByStatus(ctx, domain.LeavePending)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []domain.LeaveRequest{}
	}
	return requests, nil
}
