package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tailorshop/internal/domain"
	"tailorshop/internal/repository"
	"tailorshop/internal/service/notification"
	"tailorshop/internal/service/token"
)

// customerMilestone triggers an admin notification every time the customer
// count crosses another multiple of it.
const customerMilestone = 100

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service interface {
	Register(ctx context.Context, input domain.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, input domain.LoginInput) (*domain.User, string, error)
	// ResolvePrincipal turns a bearer token into the user it names, or nil
	// when the token does not verify. Shared by the request middleware and
	// the WebSocket handshake.
	ResolvePrincipal(ctx context.Context, tokenString string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type service struct {
	userRepo repository.UserRepository
	tokens   *token.Service
	notifSvc notification.Service
}

func NewService(userRepo repository.UserRepository, tokens *token.Service, notifSvc notification.Service) Service {
	return &service{
		userRepo: userRepo,
		tokens:   tokens,
		notifSvc: notifSvc,
	}
}

// CanonicalEmail is the single email comparison policy: lowercase, trimmed.
// Every store and lookup goes through it, so repository equality is enough.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, string, error) {
	emailAddr := CanonicalEmail(input.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Email:        emailAddr,
		PasswordHash: string(hashedPassword),
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
		Role:         domain.RoleCustomer,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	s.notifyAdminsAboutNewCustomer(ctx, user)
	s.checkCustomerMilestone(ctx)

	tokenString, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, tokenString, nil
}

func (s *service) Login(ctx context.Context, input domain.LoginInput) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, CanonicalEmail(input.Email))
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, tokenString, nil
}

func (s *service) ResolvePrincipal(ctx context.Context, tokenString string) (*domain.User, error) {
	subject, err := s.tokens.ExtractSubject(tokenString)
	if err != nil || subject == "" {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, subject)
	if err != nil || user == nil {
		return nil, err
	}

	if !s.tokens.IsValid(tokenString, user) {
		return nil, nil
	}

	return user, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.GetByEmail(ctx, CanonicalEmail(email))
}

func (s *service) notifyAdminsAboutNewCustomer(ctx context.Context, customer *domain.User) {
	_ = s.notifSvc.NotifyRole(ctx, domain.RoleAdmin, nil,
		"New Customer Registered",
		fmt.Sprintf("New customer %s has registered with email: %s", customer.FullName, customer.Email),
		domain.NotifCustomerRegistered,
	)
}

func (s *service) checkCustomerMilestone(ctx context.Context) {
	count, err := s.userRepo.CountByRole(ctx, domain.RoleCustomer)
	if err != nil {
		return
	}

	if count > 0 && count%customerMilestone == 0 {
		_ = s.notifSvc.NotifyRole(ctx, domain.RoleAdmin, nil,
			"Customer Milestone Reached!",
			fmt.Sprintf("Congratulations! You have reached %d customers!", count),
			domain.NotifCustomerMilestone,
		)
	}
}
