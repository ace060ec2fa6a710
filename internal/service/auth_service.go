package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/clinicdesk/internal/domain"
	"github.com/diagnosis/clinicdesk/internal/platform/password"
	"github.com/diagnosis/clinicdesk/internal/repo"
	"github.com/diagnosis/clinicdesk/pkg/auth"
	"github.com/diagnosis/clinicdesk/pkg/config"
	"github.com/diagnosis/clinicdesk/pkg/events"
	"github.com/diagnosis/clinicdesk/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.SignupRequest) error
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

type authService struct {
	staff      repo.StaffRepo
	hasher     password.Hasher
	eventBus   events.Publisher
	jwtSecret  string
	sessionTTL time.Duration
	now        func() time.Time

	// dummyHash is compared against when the email is unknown.
	dummyHash string
}

func NewAuthService(
	staff repo.StaffRepo,
	hasher password.Hasher,
	eventBus events.Publisher,
	cfg config.AuthConfig,
) AuthService {
	return newAuthService(staff, hasher, eventBus, cfg)
}

func newAuthService(staff repo.StaffRepo, hasher password.Hasher, eventBus events.Publisher, cfg config.AuthConfig) *authService {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		logger.Error("Failed to build dummy hash", "error", err)
	}
	return &authService{
		staff:      staff,
		hasher:     hasher,
		eventBus:   eventBus,
		jwtSecret:  cfg.JWTSecret,
		sessionTTL: cfg.SessionTTL,
		now:        time.Now,
		dummyHash:  dummy,
	}
}

func (s *authService) Register(ctx context.Context, req *domain.SignupRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	_, err := s.staff.FindByEmail(ctx, req.Email)
	if err == nil {
		return domain.ErrDuplicateEmail
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := s.hasher.Hash(req.Secret)
	if errors.Is(err, password.ErrSecretTooLong) {
		return &domain.ValidationError{Fields: []string{"secret"}, Reason: "longer than 72 bytes"}
	}
	if err != nil {
		return fmt.Errorf("failed to hash secret: %w", err)
	}

	account := domain.StaffAccount{
		ID:         uuid.NewString(),
		GivenName:  req.GivenName,
		FamilyName: req.FamilyName,
		Email:      req.Email,
		SecretHash: hash,
		CreatedAt:  s.now().UTC(),
	}
	// Create re-checks the email under the collection lock; a concurrent signup
	// for the same address loses here.
	if err := s.staff.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return err
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	logger.InfoContext(ctx, "Staff account registered", "account_id", account.ID)
	if err := s.eventBus.Publish(ctx, events.StaffRegistered, events.StaffRegisteredEvent{
		AccountID: account.ID,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "subject", events.StaffRegistered, "error", err)
	}
	return nil
}

// Login answers ErrInvalidCredentials for both an unknown email and a wrong
// secret, and spends comparable time on each.
func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, err := s.staff.FindByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		s.compareDummy(req.Secret)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	ok, err := s.hasher.Compare(req.Secret, account.SecretHash)
	if err != nil {
		logger.ErrorContext(ctx, "Stored secret hash unreadable", "account_id", account.ID, "error", err)
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := auth.NewSessionToken(account.ID, account.Email, account.GivenName, s.jwtSecret, s.now(), s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session token: %w", err)
	}
	return &domain.LoginResponse{Token: token}, nil
}

// Verify accepts a token only while its account still exists.
func (s *authService) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.Parse(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	if _, err := s.staff.FindByID(ctx, claims.AccountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return claims, nil
}

func (s *authService) compareDummy(secret string) {
	if s.dummyHash != "" {
		_, _ = s.hasher.Compare(secret, s.dummyHash)
	}
}
