package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/estate-leads-api/internal/domain"
	jwtinfra "github.com/estate-leads-api/internal/infrastructure/jwt"
	"github.com/estate-leads-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) (*domain.User, error) {
	args := m.Called(ctx, userID, updates)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSender struct{ mock.Mock }

func (m *mockSender) SendVerificationCode(ctx context.Context, phone, code string) error {
	return m.Called(ctx, phone, code).Error(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Sign(userID, phoneNumber string, isAgent, isAdmin bool) (string, error) {
	args := m.Called(userID, phoneNumber, isAgent, isAdmin)
	return args.String(0), args.Error(1)
}
func (m *mockTokens) Verify(token string) (*jwtinfra.Claims, error) {
	args := m.Called(token)
	if c, _ := args.Get(0).(*jwtinfra.Claims); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- builder ---

const (
	testPhone  = "+971500000001"
	adminPhone = "+971500000099"
	fixedCode  = "482913"
)

type fixture struct {
	svc    Service
	codes  *memory.VerificationStore
	users  *mockUserStore
	sender *mockSender
	tokens *mockTokens
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		codes:  memory.NewVerificationStore(),
		users:  &mockUserStore{},
		sender: &mockSender{},
		tokens: &mockTokens{},
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(ServiceDeps{
		CodeStore:    f.codes,
		UserRepo:     f.users,
		Sender:       f.sender,
		JWTProvider:  f.tokens,
		AdminPhones:  func() []string { return []string{adminPhone} },
		GenerateCode: func() (string, error) { return fixedCode, nil },
		Now:          func() time.Time { return f.now },
		HashCost:     bcrypt.MinCost,
	})
	return f
}

func (f *fixture) issue(t *testing.T, phone string) {
	t.Helper()
	f.sender.On("SendVerificationCode", mock.Anything, phone, fixedCode).Return(nil).Maybe()
	code, err := f.svc.SendVerificationCode(context.Background(), phone)
	require.NoError(t, err)
	require.Equal(t, fixedCode, code)
}

// --- SendVerificationCode ---

func TestSendVerificationCode_StoresHashWithExpiry(t *testing.T) {
	f := newFixture(t)
	f.issue(t, testPhone)

	v, err := f.codes.Get(context.Background(), testPhone)
	require.NoError(t, err)
	assert.NotEqual(t, fixedCode, v.CodeHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(fixedCode)))
	assert.Equal(t, f.now.Add(10*time.Minute).UnixMilli(), v.ExpiresAtMillis)
	assert.Equal(t, f.now.Add(10*time.Minute).Unix(), v.ExpiresAt)
	f.sender.AssertExpectations(t)
}

func TestSendVerificationCode_DeliveryFailureSwallowed(t *testing.T) {
	f := newFixture(t)
	f.sender.On("SendVerificationCode", mock.Anything, testPhone, fixedCode).Return(errors.New("twilio down"))

	code, err := f.svc.SendVerificationCode(context.Background(), testPhone)
	require.NoError(t, err)
	assert.Equal(t, fixedCode, code)
}

func TestRandomCode_InRange(t *testing.T) {
	for range 200 {
		c, err := randomCode()
		require.NoError(t, err)
		require.Len(t, c, 6)
		assert.GreaterOrEqual(t, c, "100000")
		assert.LessOrEqual(t, c, "999999")
	}
}

// --- VerifyCode ---

func TestVerifyCode_NewUser_SingleUse(t *testing.T) {
	f := newFixture(t)
	f.issue(t, testPhone)
	f.users.On("GetByPhone", mock.Anything, testPhone).Return(nil, domain.ErrNotFound)
	f.users.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	res, err := f.svc.VerifyCode(context.Background(), testPhone, fixedCode, false)
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.NotNil(t, res.User)
	assert.Equal(t, testPhone, res.User.PhoneNumber)
	assert.True(t, res.User.IsNewUser)
	assert.False(t, res.User.IsAgent)
	assert.NotEmpty(t, res.User.ID)

	again, err := f.svc.VerifyCode(context.Background(), testPhone, fixedCode, false)
	require.NoError(t, err)
	assert.False(t, again.Valid)
	assert.Nil(t, again.User)
}

func TestVerifyCode_NoPendingCode(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.VerifyCode(context.Background(), testPhone, fixedCode, false)
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestVerifyCode_Expired_RemovesEntry(t *testing.T) {
	f := newFixture(t)
	f.issue(t, testPhone)
	f.now = f.now.Add(10*time.Minute + time.Second)

	res, err := f.svc.VerifyCode(context.Background(), testPhone, fixedCode, false)
	require.NoError(t, err)
	assert.False(t, res.Valid)

	_, err = f.codes.Get(context.Background(), testPhone)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyCode_AtExpiryBoundary_StillValid(t *testing.T) {
	f := newFixture(t)
	f.issue(t, testPhone)
	f.now = f.now.Add(10 * time.Minute)
	f.users.On("GetByPhone", mock.Anything, testPhone).Return(&domain.User{ID: "u1", PhoneNumber: testPhone}, nil)

	res, err := f.svc.VerifyCode(context.Background(), testPhone, fixedCode, false)
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestVerifyCode_OneMillisecondPastExpiry_Invalid(t *testing.T) {
	f := newFixture(t)
	f.issue(t, testPhone)
	f.now = f.now.Add(10*time.Minute + time.Millisecond)

	res, err := f.svc.VerifyCode(context.Background(), testPhone, fixedCode, false)
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestVerifyCode_WrongCode_NotConsumed(t *testing.T) {
	f := newFixture(t)
	f.issue(t, testPhone)
	f.users.On("GetByPhone", mock.Anything, testPhone).Return(&domain.User{ID: "u1", PhoneNumber: testPhone}, nil)

	res, err := f.svc.VerifyCode(context.Background(), testPhone, "000000", false)
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = f.svc.VerifyCode(context.Background(), testPhone, fixedCode, false)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "u1", res.User.ID)
}

func TestVerifyCode_ReissueOverwritesPending(t *testing.T) {
	f := newFixture(t)
	f.issue(t, testPhone)

	f.svc = NewService(ServiceDeps{
		CodeStore:    f.codes,
		UserRepo:     f.users,
		Sender:       f.sender,
		JWTProvider:  f.tokens,
		GenerateCode: func() (string, error) { return "111111", nil },
		Now:          func() time.Time { return f.now },
		HashCost:     bcrypt.MinCost,
	})
	f.sender.On("SendVerificationCode", mock.Anything, testPhone, "111111").Return(nil)
	_, err := f.svc.SendVerificationCode(context.Background(), testPhone)
	require.NoError(t, err)

	res, err := f.svc.VerifyCode(context.Background(), testPhone, fixedCode, false)
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestVerifyCode_AgentRequest_NewUserUnapproved(t *testing.T) {
	f := newFixture(t)
	f.issue(t, testPhone)
	f.users.On("GetByPhone", mock.Anything, testPhone).Return(nil, domain.ErrNotFound)
	f.users.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.IsAgent && !u.IsApproved && u.IsNewUser
	})).Return(nil)

	res, err := f.svc.VerifyCode(context.Background(), testPhone, fixedCode, true)
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.True(t, res.User.IsAgent)
	assert.False(t, res.User.IsApproved)
	f.users.AssertExpectations(t)
}

func TestVerifyCode_AgentRequest_ExistingUserResetsApproval(t *testing.T) {
	f := newFixture(t)
	f.issue(t, testPhone)
	existing := &domain.User{ID: "u1", PhoneNumber: testPhone, IsAgent: true, IsApproved: true}
	updated := &domain.User{ID: "u1", PhoneNumber: testPhone, IsAgent: true, IsApproved: false}
	f.users.On("GetByPhone", mock.Anything, testPhone).Return(existing, nil)
	f.users.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m[fieldIsAgent] == true && m[fieldIsApproved] == false
	})).Return(updated, nil)

	res, err := f.svc.VerifyCode(context.Background(), testPhone, fixedCode, true)
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.False(t, res.User.IsApproved)
	f.users.AssertExpectations(t)
}

func TestVerifyCode_StoreFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.issue(t, testPhone)
	f.users.On("GetByPhone", mock.Anything, testPhone).Return(nil, errors.New("dynamo unavailable"))

	_, err := f.svc.VerifyCode(context.Background(), testPhone, fixedCode, false)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

// phoneUsers is a goroutine-safe user store that rejects a second user for
// the same phone number, like the dynamo repo.
type phoneUsers struct {
	mu   sync.Mutex
	byID map[string]domain.User
	puts int
}

func (p *phoneUsers) Get(_ context.Context, userID string) (*domain.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.byID[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (p *phoneUsers) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range p.byID {
		if u.PhoneNumber == phone {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (p *phoneUsers) Put(_ context.Context, u *domain.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.puts++
	for _, existing := range p.byID {
		if existing.PhoneNumber == u.PhoneNumber {
			return domain.ErrConflict
		}
	}
	p.byID[u.ID] = *u
	return nil
}

func (p *phoneUsers) Update(_ context.Context, userID string, updates map[string]interface{}) (*domain.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.byID[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if v, ok := updates[fieldIsAgent].(bool); ok {
		u.IsAgent = v
	}
	if v, ok := updates[fieldIsApproved].(bool); ok {
		u.IsApproved = v
	}
	p.byID[userID] = u
	return &u, nil
}

func TestVerifyCode_ParallelSameCode_SucceedsOnce(t *testing.T) {
	users := &phoneUsers{byID: map[string]domain.User{}}
	sender := &mockSender{}
	sender.On("SendVerificationCode", mock.Anything, testPhone, fixedCode).Return(nil)
	svc := NewService(ServiceDeps{
		CodeStore:    memory.NewVerificationStore(),
		UserRepo:     users,
		Sender:       sender,
		JWTProvider:  &mockTokens{},
		GenerateCode: func() (string, error) { return fixedCode, nil },
		HashCost:     bcrypt.DefaultCost,
	})
	_, err := svc.SendVerificationCode(context.Background(), testPhone)
	require.NoError(t, err)

	const workers = 8
	var (
		wg    sync.WaitGroup
		valid atomic.Int32
		start = make(chan struct{})
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, err := svc.VerifyCode(context.Background(), testPhone, fixedCode, false)
			if err == nil && res.Valid {
				valid.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), valid.Load())
	assert.Equal(t, 1, users.puts)
	assert.Len(t, users.byID, 1)
}

func TestVerifyCode_RegistrationConflict_UsesExistingUser(t *testing.T) {
	f := newFixture(t)
	f.issue(t, testPhone)
	winner := &domain.User{ID: "u-first", PhoneNumber: testPhone, IsNewUser: true}
	f.users.On("GetByPhone", mock.Anything, testPhone).Return(nil, domain.ErrNotFound).Once()
	f.users.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(domain.ErrConflict)
	f.users.On("GetByPhone", mock.Anything, testPhone).Return(winner, nil).Once()

	res, err := f.svc.VerifyCode(context.Background(), testPhone, fixedCode, false)
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.Equal(t, "u-first", res.User.ID)
	f.users.AssertExpectations(t)
}

// --- CompleteRegistration ---

func TestCompleteRegistration_SetsNameAndClearsNewUser(t *testing.T) {
	f := newFixture(t)
	want := &domain.User{ID: "u1", Name: "Layla"}
	f.users.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		_, agentSet := m[fieldIsAgent]
		return m[fieldName] == "Layla" && m[fieldIsNewUser] == false && !agentSet
	})).Return(want, nil)

	u, err := f.svc.CompleteRegistration(context.Background(), "u1", "Layla", nil)
	require.NoError(t, err)
	assert.Equal(t, want, u)
	f.users.AssertExpectations(t)
}

func TestCompleteRegistration_AgentTrueForcesUnapproved(t *testing.T) {
	f := newFixture(t)
	yes := true
	f.users.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m[fieldIsAgent] == true && m[fieldIsApproved] == false
	})).Return(&domain.User{ID: "u1", IsAgent: true}, nil)

	_, err := f.svc.CompleteRegistration(context.Background(), "u1", "Omar", &yes)
	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestCompleteRegistration_AgentFalseLeavesApproval(t *testing.T) {
	f := newFixture(t)
	no := false
	f.users.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		_, approvalSet := m[fieldIsApproved]
		return m[fieldIsAgent] == false && !approvalSet
	})).Return(&domain.User{ID: "u1"}, nil)

	_, err := f.svc.CompleteRegistration(context.Background(), "u1", "Omar", &no)
	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestCompleteRegistration_UnknownUser(t *testing.T) {
	f := newFixture(t)
	f.users.On("Update", mock.Anything, "missing", mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := f.svc.CompleteRegistration(context.Background(), "missing", "X", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- tokens ---

func TestGenerateToken_AdminFlagFromAllowList(t *testing.T) {
	f := newFixture(t)
	f.tokens.On("Sign", "a1", adminPhone, false, true).Return("admin-token", nil)
	f.tokens.On("Sign", "u1", testPhone, true, false).Return("user-token", nil)

	tok, err := f.svc.GenerateToken(&domain.User{ID: "a1", PhoneNumber: adminPhone})
	require.NoError(t, err)
	assert.Equal(t, "admin-token", tok)

	tok, err = f.svc.GenerateToken(&domain.User{ID: "u1", PhoneNumber: testPhone, IsAgent: true})
	require.NoError(t, err)
	assert.Equal(t, "user-token", tok)
	f.tokens.AssertExpectations(t)
}

func TestIsAdmin_ReadsListOnEveryCall(t *testing.T) {
	list := []string{adminPhone}
	svc := NewService(ServiceDeps{AdminPhones: func() []string { return list }})

	assert.True(t, svc.IsAdmin(adminPhone))
	list = nil
	assert.False(t, svc.IsAdmin(adminPhone))
	assert.False(t, svc.IsAdmin(""))
}

func TestVerifyToken_InvalidReturnsFalse(t *testing.T) {
	f := newFixture(t)
	f.tokens.On("Verify", "bad").Return(nil, errors.New("signature is invalid"))
	f.tokens.On("Verify", "good").Return(&jwtinfra.Claims{UserID: "u1"}, nil)

	c, ok := f.svc.VerifyToken("bad")
	assert.False(t, ok)
	assert.Nil(t, c)

	c, ok = f.svc.VerifyToken("good")
	require.True(t, ok)
	assert.Equal(t, "u1", c.UserID)
}

// --- admin ---

func TestSendAdminVerification_NotListed(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SendAdminVerification(context.Background(), testPhone)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	f.sender.AssertNotCalled(t, "SendVerificationCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminLogin_NotListed(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.AdminLogin(context.Background(), testPhone, fixedCode)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAdminLogin_WrongCode(t *testing.T) {
	f := newFixture(t)
	f.sender.On("SendVerificationCode", mock.Anything, adminPhone, fixedCode).Return(nil)
	_, err := f.svc.SendAdminVerification(context.Background(), adminPhone)
	require.NoError(t, err)

	_, _, err = f.svc.AdminLogin(context.Background(), adminPhone, "999999")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAdminLogin_HappyPath(t *testing.T) {
	f := newFixture(t)
	admin := &domain.User{ID: "a1", PhoneNumber: adminPhone}
	f.sender.On("SendVerificationCode", mock.Anything, adminPhone, fixedCode).Return(nil)
	f.users.On("GetByPhone", mock.Anything, adminPhone).Return(admin, nil)
	f.tokens.On("Sign", "a1", adminPhone, false, true).Return("admin-token", nil)

	_, err := f.svc.SendAdminVerification(context.Background(), adminPhone)
	require.NoError(t, err)

	u, tok, err := f.svc.AdminLogin(context.Background(), adminPhone, fixedCode)
	require.NoError(t, err)
	assert.Equal(t, admin, u)
	assert.Equal(t, "admin-token", tok)
	f.tokens.AssertExpectations(t)
}
