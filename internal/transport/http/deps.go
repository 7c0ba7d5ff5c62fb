package http

import (
	"context"

	"github.com/estate-leads-api/internal/domain"
	jwtinfra "github.com/estate-leads-api/internal/infrastructure/jwt"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	// ListPendingAgents returns agents awaiting approval, newest first.
	ListPendingAgents(ctx context.Context) ([]domain.User, error)
}

// RequestRepository is the minimal interface the router requires from an estate request store.
type RequestRepository interface {
	Put(ctx context.Context, req *domain.EstateRequest) error
	Get(ctx context.Context, requestID string) (*domain.EstateRequest, error)
	ListAll(ctx context.Context) ([]domain.EstateRequest, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.EstateRequest, error)
	UpdateStatus(ctx context.Context, requestID string, status domain.RequestStatus) (*domain.EstateRequest, error)
	Delete(ctx context.Context, requestID string) error
}

// NotificationRepository is the minimal interface the router requires from a notification store.
type NotificationRepository interface {
	Put(ctx context.Context, n *domain.Notification) error
	ListAll(ctx context.Context) ([]domain.Notification, error)
	ListUnread(ctx context.Context) ([]domain.Notification, error)
	CountUnread(ctx context.Context) (int, error)
	MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context) (int, error)
}

// VerificationStore holds pending codes keyed by phone number. Implemented by
// the memory, dynamo and redis backends.
type VerificationStore interface {
	Put(ctx context.Context, v *domain.VerificationCode) error
	Get(ctx context.Context, phone string) (*domain.VerificationCode, error)
	Consume(ctx context.Context, phone, codeHash string) (bool, error)
}

// CodeSender delivers verification codes. Channel names the delivery channel
// shown to clients ("whatsapp", "sms" or "log").
type CodeSender interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
	Channel() string
}

// TokenProvider signs and verifies bearer tokens.
type TokenProvider interface {
	Sign(userID, phoneNumber string, isAgent, isAdmin bool) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo          UserRepository
	RequestRepo       RequestRepository
	NotificationRepo  NotificationRepository
	VerificationStore VerificationStore
	Sender            CodeSender
	JWTProvider       TokenProvider

	// Optional code generator; tests pin it to get deterministic codes.
	GenerateCode func() (string, error)
}
