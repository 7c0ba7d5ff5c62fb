package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estate-leads-api/internal/domain"
)

const (
	fieldIsAgent    = "is_agent"
	fieldIsApproved = "is_approved"
	fieldUpdatedAt  = "updated_at"
)

type Service interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListPendingAgents(ctx context.Context) ([]domain.User, error)
	ApproveAgent(ctx context.Context, userID string) (*domain.User, error)
	SetAgentRole(ctx context.Context, userID string, isAgent bool) (*domain.User, error)
}

type userStore interface {
	ListAll(ctx context.Context) ([]domain.User, error)
	ListPendingAgents(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*domain.User, error)
}

type service struct {
	users userStore
	now   func() time.Time
}

type ServiceDeps struct {
	UserRepo userStore
	Now      func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{users: deps.UserRepo, now: now}
}

func (s *service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListAll(ctx)
}

func (s *service) ListPendingAgents(ctx context.Context) ([]domain.User, error) {
	return s.users.ListPendingAgents(ctx)
}

func (s *service) ApproveAgent(ctx context.Context, userID string) (*domain.User, error) {
	return s.setFlags(ctx, userID, true, true)
}

// SetAgentRole grants agent status already approved, or revokes both flags.
func (s *service) SetAgentRole(ctx context.Context, userID string, isAgent bool) (*domain.User, error) {
	return s.setFlags(ctx, userID, isAgent, isAgent)
}

func (s *service) setFlags(ctx context.Context, userID string, isAgent, isApproved bool) (*domain.User, error) {
	u, err := s.users.Update(ctx, userID, map[string]interface{}{
		fieldIsAgent:    isAgent,
		fieldIsApproved: isApproved,
		fieldUpdatedAt:  s.now().UTC(),
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return u, err
}
