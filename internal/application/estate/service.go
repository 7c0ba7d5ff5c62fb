package estate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/estate-leads-api/internal/domain"
	"github.com/estate-leads-api/internal/pkg/id"
	"github.com/estate-leads-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req domain.CreateEstateRequest) (*domain.EstateRequest, error)
	List(ctx context.Context) ([]domain.EstateRequest, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.EstateRequest, error)
	Get(ctx context.Context, requestID string) (*domain.EstateRequest, error)
	UpdateStatus(ctx context.Context, requestID, status string) (*domain.EstateRequest, error)
	Delete(ctx context.Context, requestID string) error
	ListWithSubmitters(ctx context.Context) ([]domain.RequestWithSubmitter, error)
	GetForAgent(ctx context.Context, requestID, agentID string) (*domain.RequestWithSubmitter, error)
}

// ViewListener receives AgentViewedRequest events.
type ViewListener interface {
	OnAgentViewedRequest(ctx context.Context, ev domain.AgentViewedRequest) error
}

type requestStore interface {
	Put(ctx context.Context, req *domain.EstateRequest) error
	Get(ctx context.Context, requestID string) (*domain.EstateRequest, error)
	ListAll(ctx context.Context) ([]domain.EstateRequest, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.EstateRequest, error)
	UpdateStatus(ctx context.Context, requestID string, status domain.RequestStatus) (*domain.EstateRequest, error)
	Delete(ctx context.Context, requestID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	repo     requestStore
	users    userStore
	listener ViewListener
	now      func() time.Time
}

type ServiceDeps struct {
	RequestRepo  requestStore
	UserRepo     userStore
	ViewListener ViewListener // optional
	Now          func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     deps.RequestRepo,
		users:    deps.UserRepo,
		listener: deps.ViewListener,
		now:      now,
	}
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreateEstateRequest) (*domain.EstateRequest, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	er := &domain.EstateRequest{
		ID:                     id.New(),
		OwnerID:                ownerID,
		PropertyType:           req.PropertyType,
		Location:               req.Location,
		Budget:                 req.Budget,
		Bedrooms:               req.Bedrooms,
		Bathrooms:              req.Bathrooms,
		Surface:                req.Surface,
		District:               req.District,
		AdditionalRequirements: req.AdditionalRequirements,
		Status:                 domain.StatusPending,
		CreatedAt:              s.now().UTC(),
	}
	if err := s.repo.Put(ctx, er); err != nil {
		return nil, err
	}
	return er, nil
}

func (s *service) List(ctx context.Context) ([]domain.EstateRequest, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]domain.EstateRequest, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) Get(ctx context.Context, requestID string) (*domain.EstateRequest, error) {
	er, err := s.repo.Get(ctx, requestID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("request not found: %w", domain.ErrNotFound)
	}
	return er, err
}

func (s *service) UpdateStatus(ctx context.Context, requestID, status string) (*domain.EstateRequest, error) {
	st, err := domain.ParseRequestStatus(status)
	if err != nil {
		return nil, err
	}
	er, err := s.repo.UpdateStatus(ctx, requestID, st)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("request not found: %w", domain.ErrNotFound)
	}
	return er, err
}

func (s *service) Delete(ctx context.Context, requestID string) error {
	err := s.repo.Delete(ctx, requestID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("request not found: %w", domain.ErrNotFound)
	}
	return err
}

func (s *service) ListWithSubmitters(ctx context.Context) ([]domain.RequestWithSubmitter, error) {
	reqs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	owners := make(map[string]*domain.User)
	out := make([]domain.RequestWithSubmitter, 0, len(reqs))
	for _, er := range reqs {
		u, seen := owners[er.OwnerID]
		if !seen {
			if u, err = s.owner(ctx, er.OwnerID); err != nil {
				return nil, err
			}
			owners[er.OwnerID] = u
		}
		out = append(out, withSubmitter(er, u))
	}
	return out, nil
}

// GetForAgent returns one request with its submitter and notifies the
// listener. Listener failures are logged and never fail the read.
func (s *service) GetForAgent(ctx context.Context, requestID, agentID string) (*domain.RequestWithSubmitter, error) {
	er, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	u, err := s.owner(ctx, er.OwnerID)
	if err != nil {
		return nil, err
	}
	out := withSubmitter(*er, u)

	if s.listener != nil {
		ev := domain.AgentViewedRequest{RequestID: er.ID, AgentID: agentID, ViewedAt: s.now().UTC()}
		if err := s.listener.OnAgentViewedRequest(ctx, ev); err != nil {
			slog.Error("agent view notification failed", "request_id", er.ID, "agent_id", agentID, "err", err)
		}
	}
	return &out, nil
}

// owner returns nil for a submitter that no longer exists.
func (s *service) owner(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func withSubmitter(er domain.EstateRequest, u *domain.User) domain.RequestWithSubmitter {
	out := domain.RequestWithSubmitter{EstateRequest: er}
	if u != nil {
		out.UserPhoneNumber = u.PhoneNumber
		out.UserName = u.Name
	}
	return out
}
