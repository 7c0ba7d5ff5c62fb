package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/estate-leads-api/internal/domain"
	"github.com/estate-leads-api/internal/pkg/id"
)

type Service interface {
	OnAgentViewedRequest(ctx context.Context, ev domain.AgentViewedRequest) error
	ListAll(ctx context.Context) ([]domain.Notification, error)
	ListUnread(ctx context.Context) ([]domain.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context) (int, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	ListAll(ctx context.Context) ([]domain.Notification, error)
	ListUnread(ctx context.Context) ([]domain.Notification, error)
	CountUnread(ctx context.Context) (int, error)
	MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context) (int, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	repo  notificationStore
	users userStore
}

type ServiceDeps struct {
	NotificationRepo notificationStore
	UserRepo         userStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.NotificationRepo, users: deps.UserRepo}
}

// OnAgentViewedRequest records that an agent opened a request. An agent that
// no longer resolves produces no notification.
func (s *service) OnAgentViewedRequest(ctx context.Context, ev domain.AgentViewedRequest) error {
	agent, err := s.users.Get(ctx, ev.AgentID)
	if errors.Is(err, domain.ErrNotFound) {
		slog.Warn("skipping view notification for unknown agent", "agent_id", ev.AgentID, "request_id", ev.RequestID)
		return nil
	}
	if err != nil {
		return err
	}
	n := &domain.Notification{
		ID:               id.New(),
		Type:             domain.NotificationAgentViewedRequest,
		RequestID:        ev.RequestID,
		AgentID:          agent.ID,
		AgentName:        agent.Name,
		AgentPhoneNumber: agent.PhoneNumber,
		Message:          viewMessage(agent, ev.RequestID),
		CreatedAt:        ev.ViewedAt,
	}
	return s.repo.Put(ctx, n)
}

func viewMessage(agent *domain.User, requestID string) string {
	who := agent.Name
	if who == "" {
		who = agent.PhoneNumber
	}
	short := requestID
	if len(short) > 8 {
		short = short[len(short)-8:]
	}
	return fmt.Sprintf("Agent %s viewed request %s", who, short)
}

func (s *service) ListAll(ctx context.Context) ([]domain.Notification, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListUnread(ctx context.Context) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx)
}

func (s *service) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.CountUnread(ctx)
}

func (s *service) MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error) {
	n, err := s.repo.MarkAsRead(ctx, notificationID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	return n, err
}

func (s *service) MarkAllAsRead(ctx context.Context) (int, error) {
	return s.repo.MarkAllAsRead(ctx)
}
