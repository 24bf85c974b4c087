package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tailorshop/internal/domain"
	"tailorshop/internal/service/token"
	"tailorshop/tests/mocks"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T, userRepo *mocks.UserRepository, notifSvc *mocks.NotificationService) Service {
	t.Helper()
	tokens, err := token.NewService(testSecret, time.Hour)
	require.NoError(t, err)
	return NewService(userRepo, tokens, notifSvc)
}

func TestCanonicalEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", CanonicalEmail("  User@Example.COM "))
}

func TestRegister_Success(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	notifSvc := new(mocks.NotificationService)
	svc := newTestService(t, userRepo, notifSvc)
	ctx := context.Background()

	userRepo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil).Once()
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@example.com" && u.Role == domain.RoleCustomer && u.IsActive
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 7
	}).Return(nil).Once()
	userRepo.On("CountByRole", ctx, domain.RoleCustomer).Return(int64(5), nil).Once()
	notifSvc.On("NotifyRole", ctx, domain.RoleAdmin, (*int64)(nil),
		"New Customer Registered", mock.AnythingOfType("string"), domain.NotifCustomerRegistered).Return(nil).Once()

	user, tokenString, err := svc.Register(ctx, domain.RegisterInput{
		Email:       "New@Example.com",
		Password:    "password123",
		FullName:    "New Customer",
		PhoneNumber: "555-0100",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEmpty(t, tokenString)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

	userRepo.AssertExpectations(t)
	notifSvc.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	notifSvc := new(mocks.NotificationService)
	svc := newTestService(t, userRepo, notifSvc)
	ctx := context.Background()

	userRepo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil).Once()

	user, tokenString, err := svc.Register(ctx, domain.RegisterInput{
		Email:    "taken@example.com",
		Password: "password123",
		FullName: "Somebody",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Nil(t, user)
	assert.Empty(t, tokenString)
	userRepo.AssertExpectations(t)
}

func TestRegister_MilestoneNotification(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	notifSvc := new(mocks.NotificationService)
	svc := newTestService(t, userRepo, notifSvc)
	ctx := context.Background()

	userRepo.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil).Once()
	userRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	userRepo.On("CountByRole", ctx, domain.RoleCustomer).Return(int64(100), nil).Once()
	notifSvc.On("NotifyRole", ctx, domain.RoleAdmin, (*int64)(nil),
		"New Customer Registered", mock.AnythingOfType("string"), domain.NotifCustomerRegistered).Return(nil).Once()
	notifSvc.On("NotifyRole", ctx, domain.RoleAdmin, (*int64)(nil),
		"Customer Milestone Reached!", "Congratulations! You have reached 100 customers!", domain.NotifCustomerMilestone).Return(nil).Once()

	_, _, err := svc.Register(ctx, domain.RegisterInput{
		Email:    "hundredth@example.com",
		Password: "password123",
		FullName: "Hundredth Customer",
	})

	require.NoError(t, err)
	notifSvc.AssertExpectations(t)
}

func TestRegister_NoMilestoneOffMultiple(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	notifSvc := new(mocks.NotificationService)
	svc := newTestService(t, userRepo, notifSvc)
	ctx := context.Background()

	userRepo.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil).Once()
	userRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	userRepo.On("CountByRole", ctx, domain.RoleCustomer).Return(int64(101), nil).Once()
	notifSvc.On("NotifyRole", ctx, domain.RoleAdmin, (*int64)(nil),
		"New Customer Registered", mock.AnythingOfType("string"), domain.NotifCustomerRegistered).Return(nil).Once()

	_, _, err := svc.Register(ctx, domain.RegisterInput{
		Email:    "next@example.com",
		Password: "password123",
		FullName: "Next Customer",
	})

	require.NoError(t, err)
	notifSvc.AssertNotCalled(t, "NotifyRole", ctx, domain.RoleAdmin, (*int64)(nil),
		"Customer Milestone Reached!", mock.Anything, domain.NotifCustomerMilestone)
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	notifSvc := new(mocks.NotificationService)
	svc := newTestService(t, userRepo, notifSvc)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	stored := &domain.User{ID: 3, Email: "customer@example.com", PasswordHash: string(hash)}

	userRepo.On("GetByEmail", ctx, "customer@example.com").Return(stored, nil).Once()

	user, tokenString, err := svc.Login(ctx, domain.LoginInput{
		Email:    "Customer@Example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, stored, user)
	assert.NotEmpty(t, tokenString)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	notifSvc := new(mocks.NotificationService)
	svc := newTestService(t, userRepo, notifSvc)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil).Once()

	_, _, err := svc.Login(ctx, domain.LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	notifSvc := new(mocks.NotificationService)
	svc := newTestService(t, userRepo, notifSvc)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	stored := &domain.User{ID: 3, Email: "customer@example.com", PasswordHash: string(hash)}

	userRepo.On("GetByEmail", ctx, "customer@example.com").Return(stored, nil).Once()

	_, _, err = svc.Login(ctx, domain.LoginInput{Email: "customer@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolvePrincipal(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	notifSvc := new(mocks.NotificationService)
	tokens, err := token.NewService(testSecret, time.Hour)
	require.NoError(t, err)
	svc := NewService(userRepo, tokens, notifSvc)
	ctx := context.Background()

	stored := &domain.User{ID: 3, Email: "customer@example.com"}
	tokenString, err := tokens.Issue(stored)
	require.NoError(t, err)

	t.Run("valid token resolves user", func(t *testing.T) {
		userRepo.On("GetByEmail", ctx, "customer@example.com").Return(stored, nil).Once()

		user, err := svc.ResolvePrincipal(ctx, tokenString)
		require.NoError(t, err)
		assert.Equal(t, stored, user)
	})

	t.Run("subject without account resolves nil", func(t *testing.T) {
		ghost := &domain.User{ID: 9, Email: "ghost@example.com"}
		ghostToken, err := tokens.Issue(ghost)
		require.NoError(t, err)

		userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil).Once()

		user, err := svc.ResolvePrincipal(ctx, ghostToken)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("malformed token surfaces error", func(t *testing.T) {
		user, err := svc.ResolvePrincipal(ctx, "garbage")
		assert.ErrorIs(t, err, token.ErrMalformedToken)
		assert.Nil(t, user)
	})
}
