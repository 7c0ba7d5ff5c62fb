package handler

import (
	"context"

	"github.com/estate-leads-api/internal/application/auth"
	"github.com/estate-leads-api/internal/domain"
	jwtinfra "github.com/estate-leads-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/mock"
)

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) SendVerificationCode(ctx context.Context, phone string) (string, error) {
	args := m.Called(ctx, phone)
	return args.String(0), args.Error(1)
}
func (m *mockAuthSvc) VerifyCode(ctx context.Context, phone, code string, asAgent bool) (*auth.VerifyResult, error) {
	args := m.Called(ctx, phone, code, asAgent)
	if r, _ := args.Get(0).(*auth.VerifyResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthSvc) CompleteRegistration(ctx context.Context, userID, name string, isAgent *bool) (*domain.User, error) {
	args := m.Called(ctx, userID, name, isAgent)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthSvc) GenerateToken(u *domain.User) (string, error) {
	args := m.Called(u)
	return args.String(0), args.Error(1)
}
func (m *mockAuthSvc) VerifyToken(token string) (*jwtinfra.Claims, bool) {
	args := m.Called(token)
	c, _ := args.Get(0).(*jwtinfra.Claims)
	return c, args.Bool(1)
}
func (m *mockAuthSvc) IsAdmin(phone string) bool {
	return m.Called(phone).Bool(0)
}
func (m *mockAuthSvc) SendAdminVerification(ctx context.Context, phone string) (string, error) {
	args := m.Called(ctx, phone)
	return args.String(0), args.Error(1)
}
func (m *mockAuthSvc) AdminLogin(ctx context.Context, phone, code string) (*domain.User, string, error) {
	args := m.Called(ctx, phone, code)
	u, _ := args.Get(0).(*domain.User)
	return u, args.String(1), args.Error(2)
}

type mockEstateSvc struct{ mock.Mock }

func (m *mockEstateSvc) Create(ctx context.Context, ownerID string, req domain.CreateEstateRequest) (*domain.EstateRequest, error) {
	args := m.Called(ctx, ownerID, req)
	if r, _ := args.Get(0).(*domain.EstateRequest); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEstateSvc) List(ctx context.Context) ([]domain.EstateRequest, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]domain.EstateRequest)
	return r, args.Error(1)
}
func (m *mockEstateSvc) ListByOwner(ctx context.Context, ownerID string) ([]domain.EstateRequest, error) {
	args := m.Called(ctx, ownerID)
	r, _ := args.Get(0).([]domain.EstateRequest)
	return r, args.Error(1)
}
func (m *mockEstateSvc) Get(ctx context.Context, requestID string) (*domain.EstateRequest, error) {
	args := m.Called(ctx, requestID)
	if r, _ := args.Get(0).(*domain.EstateRequest); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEstateSvc) UpdateStatus(ctx context.Context, requestID, status string) (*domain.EstateRequest, error) {
	args := m.Called(ctx, requestID, status)
	if r, _ := args.Get(0).(*domain.EstateRequest); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEstateSvc) Delete(ctx context.Context, requestID string) error {
	return m.Called(ctx, requestID).Error(0)
}
func (m *mockEstateSvc) ListWithSubmitters(ctx context.Context) ([]domain.RequestWithSubmitter, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]domain.RequestWithSubmitter)
	return r, args.Error(1)
}
func (m *mockEstateSvc) GetForAgent(ctx context.Context, requestID, agentID string) (*domain.RequestWithSubmitter, error) {
	args := m.Called(ctx, requestID, agentID)
	if r, _ := args.Get(0).(*domain.RequestWithSubmitter); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAdminSvc struct{ mock.Mock }

func (m *mockAdminSvc) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]domain.User)
	return u, args.Error(1)
}
func (m *mockAdminSvc) ListPendingAgents(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]domain.User)
	return u, args.Error(1)
}
func (m *mockAdminSvc) ApproveAgent(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}
func (m *mockAdminSvc) SetAgentRole(ctx context.Context, userID string, isAgent bool) (*domain.User, error) {
	args := m.Called(ctx, userID, isAgent)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) OnAgentViewedRequest(ctx context.Context, ev domain.AgentViewedRequest) error {
	return m.Called(ctx, ev).Error(0)
}
func (m *mockNotificationSvc) ListAll(ctx context.Context) ([]domain.Notification, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).([]domain.Notification)
	return n, args.Error(1)
}
func (m *mockNotificationSvc) ListUnread(ctx context.Context) ([]domain.Notification, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).([]domain.Notification)
	return n, args.Error(1)
}
func (m *mockNotificationSvc) UnreadCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *mockNotificationSvc) MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	n, _ := args.Get(0).(*domain.Notification)
	return n, args.Error(1)
}
func (m *mockNotificationSvc) MarkAllAsRead(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
