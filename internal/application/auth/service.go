package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"slices"
	"time"

	"github.com/estate-leads-api/internal/config"
	"github.com/estate-leads-api/internal/domain"
	jwtinfra "github.com/estate-leads-api/internal/infrastructure/jwt"
	"github.com/estate-leads-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// CodeTTL is how long an issued verification code stays valid.
const CodeTTL = 10 * time.Minute

// User attribute names used in partial update maps.
const (
	fieldName       = "name"
	fieldIsNewUser  = "is_new_user"
	fieldIsAgent    = "is_agent"
	fieldIsApproved = "is_approved"
	fieldUpdatedAt  = "updated_at"
)

// VerifyResult is the outcome of a code check. User is set only when Valid.
type VerifyResult struct {
	Valid bool
	User  *domain.User
}

type Service interface {
	SendVerificationCode(ctx context.Context, phone string) (string, error)
	VerifyCode(ctx context.Context, phone, code string, asAgent bool) (*VerifyResult, error)
	CompleteRegistration(ctx context.Context, userID, name string, isAgent *bool) (*domain.User, error)
	GenerateToken(u *domain.User) (string, error)
	VerifyToken(token string) (*jwtinfra.Claims, bool)
	IsAdmin(phone string) bool
	SendAdminVerification(ctx context.Context, phone string) (string, error)
	AdminLogin(ctx context.Context, phone, code string) (*domain.User, string, error)
}

type codeStore interface {
	Put(ctx context.Context, v *domain.VerificationCode) error
	Get(ctx context.Context, phone string) (*domain.VerificationCode, error)
	// Consume removes the entry only if it still holds codeHash and reports
	// whether this call removed it.
	Consume(ctx context.Context, phone, codeHash string) (bool, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*domain.User, error)
}

type codeSender interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
}

type tokenProvider interface {
	Sign(userID, phoneNumber string, isAgent, isAdmin bool) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type ServiceDeps struct {
	CodeStore   codeStore
	UserRepo    userStore
	Sender      codeSender
	JWTProvider tokenProvider

	// Optional; defaults are config.AdminPhones, a crypto/rand six-digit
	// generator, time.Now and bcrypt.DefaultCost.
	AdminPhones  func() []string
	GenerateCode func() (string, error)
	Now          func() time.Time
	HashCost     int
}

type service struct {
	codes       codeStore
	users       userStore
	sender      codeSender
	tokens      tokenProvider
	adminPhones func() []string
	genCode     func() (string, error)
	now         func() time.Time
	hashCost    int
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		codes:       deps.CodeStore,
		users:       deps.UserRepo,
		sender:      deps.Sender,
		tokens:      deps.JWTProvider,
		adminPhones: deps.AdminPhones,
		genCode:     deps.GenerateCode,
		now:         deps.Now,
		hashCost:    deps.HashCost,
	}
	if s.adminPhones == nil {
		s.adminPhones = config.AdminPhones
	}
	if s.genCode == nil {
		s.genCode = randomCode
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.hashCost == 0 {
		s.hashCost = bcrypt.DefaultCost
	}
	return s
}

// randomCode returns a uniformly random code in 100000–999999.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s *service) SendVerificationCode(ctx context.Context, phone string) (string, error) {
	code, err := s.genCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return "", err
	}
	v := domain.NewVerificationCode(phone, string(hash), s.now().Add(CodeTTL))
	if err := s.codes.Put(ctx, v); err != nil {
		return "", err
	}
	if err := s.sender.SendVerificationCode(ctx, phone, code); err != nil {
		slog.Error("failed to deliver verification code", "phone", phone, "err", err)
	}
	return code, nil
}

func (s *service) VerifyCode(ctx context.Context, phone, code string, asAgent bool) (*VerifyResult, error) {
	v, err := s.codes.Get(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		return &VerifyResult{}, nil
	}
	if err != nil {
		return nil, err
	}
	if v.Expired(s.now()) {
		if _, err := s.codes.Consume(ctx, phone, v.CodeHash); err != nil {
			slog.Warn("failed to delete expired verification code", "phone", phone, "err", err)
		}
		return &VerifyResult{}, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(code)) != nil {
		return &VerifyResult{}, nil
	}
	// Only the caller that removes the entry may use the code.
	consumed, err := s.codes.Consume(ctx, phone, v.CodeHash)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return &VerifyResult{}, nil
	}

	u, err := s.resolveUser(ctx, phone, asAgent)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Valid: true, User: u}, nil
}

func (s *service) resolveUser(ctx context.Context, phone string, asAgent bool) (*domain.User, error) {
	u, err := s.users.GetByPhone(ctx, phone)
	if err == nil {
		return s.existingUser(ctx, u, asAgent)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	u = &domain.User{
		ID:          id.New(),
		PhoneNumber: phone,
		IsNewUser:   true,
		IsAgent:     asAgent,
		IsApproved:  false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	putErr := s.users.Put(ctx, u)
	if putErr == nil {
		return u, nil
	}
	if !errors.Is(putErr, domain.ErrConflict) {
		return nil, putErr
	}
	// Another request registered this phone first; continue with that record.
	u, err = s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, putErr
	}
	return s.existingUser(ctx, u, asAgent)
}

// existingUser applies an agent request to a known user: the account becomes
// an agent again and must be re-approved.
func (s *service) existingUser(ctx context.Context, u *domain.User, asAgent bool) (*domain.User, error) {
	if !asAgent {
		return u, nil
	}
	return s.users.Update(ctx, u.ID, map[string]interface{}{
		fieldIsAgent:    true,
		fieldIsApproved: false,
		fieldUpdatedAt:  s.now().UTC(),
	})
}

func (s *service) CompleteRegistration(ctx context.Context, userID, name string, isAgent *bool) (*domain.User, error) {
	updates := map[string]interface{}{
		fieldName:      name,
		fieldIsNewUser: false,
		fieldUpdatedAt: s.now().UTC(),
	}
	if isAgent != nil {
		updates[fieldIsAgent] = *isAgent
		if *isAgent {
			updates[fieldIsApproved] = false
		}
	}
	u, err := s.users.Update(ctx, userID, updates)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return u, err
}

func (s *service) GenerateToken(u *domain.User) (string, error) {
	return s.tokens.Sign(u.ID, u.PhoneNumber, u.IsAgent, s.IsAdmin(u.PhoneNumber))
}

func (s *service) VerifyToken(token string) (*jwtinfra.Claims, bool) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (s *service) IsAdmin(phone string) bool {
	return phone != "" && slices.Contains(s.adminPhones(), phone)
}

func (s *service) SendAdminVerification(ctx context.Context, phone string) (string, error) {
	if !s.IsAdmin(phone) {
		return "", fmt.Errorf("not authorized as admin: %w", domain.ErrForbidden)
	}
	return s.SendVerificationCode(ctx, phone)
}

func (s *service) AdminLogin(ctx context.Context, phone, code string) (*domain.User, string, error) {
	if !s.IsAdmin(phone) {
		return nil, "", fmt.Errorf("not authorized as admin: %w", domain.ErrForbidden)
	}
	res, err := s.VerifyCode(ctx, phone, code, false)
	if err != nil {
		return nil, "", err
	}
	if !res.Valid {
		return nil, "", fmt.Errorf("invalid verification code: %w", domain.ErrUnauthorized)
	}
	if res.User == nil {
		return nil, "", errors.New("verified code resolved no user")
	}
	token, err := s.GenerateToken(res.User)
	if err != nil {
		return nil, "", err
	}
	return res.User, token, nil
}
