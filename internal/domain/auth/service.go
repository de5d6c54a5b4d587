package auth

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bherp/internal/core/apperror"
	"bherp/internal/core/id"
	"bherp/internal/core/tenant"
	"bherp/internal/core/tx"
	"bherp/internal/domain/tenants"
	"bherp/pkg/logger"
)

var jibRE = regexp.MustCompile(`^\d{13}$`)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 8,
	}
}

// Service provides login and tenant registration.
type Service struct {
	userRepo   UserRepository
	tenantRepo tenants.Repository
	txManager  tx.Manager
	jwtService *JWTService
	config     ServiceConfig
	logger     *logger.Logger
}

// NewService creates a new auth service.
func NewService(
	userRepo UserRepository,
	tenantRepo tenants.Repository,
	txManager tx.Manager,
	jwtService *JWTService,
	config ServiceConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		txManager:  txManager,
		jwtService: jwtService,
		config:     config,
		logger:     log.WithComponent("auth"),
	}
}

// Register creates a new tenant together with its first user. The
// tenant starts PENDING; login is refused until an administrator
// approves it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.CompanyName == "" {
		return nil, apperror.NewValidation("company name is required").WithDetail("field", "companyName")
	}
	if !jibRE.MatchString(req.JIB) {
		return nil, apperror.NewValidation("JIB must be 13 digits").WithDetail("field", "jib")
	}
	if req.Username == "" {
		return nil, apperror.NewValidation("username is required").WithDetail("field", "username")
	}
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, apperror.NewDuplicate("user", "username", req.Username)
	}

	if existing, err := s.tenantRepo.GetByJIB(ctx, req.JIB); err == nil && existing != nil {
		return nil, apperror.NewDuplicate("tenant", "jib", req.JIB)
	} else if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newTenant := &tenant.Tenant{
		ID:        id.New(),
		Name:      req.CompanyName,
		Address:   req.Address,
		City:      req.City,
		JIB:       req.JIB,
		PDVNumber: req.PDVNumber,
		Email:     req.Email,
		Status:    tenant.StatusPending,
	}
	user := NewUser(req.Username, req.Email, string(passwordHash), RoleUser, &newTenant.ID)

	// Tenant and first user are one unit: neither exists without the other.
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.tenantRepo.Create(ctx, newTenant); err != nil {
			return fmt.Errorf("create tenant: %w", err)
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Infow("tenant registered",
		"tenant", newTenant.ID,
		"company", newTenant.Name,
	)

	return user, nil
}

// Login verifies credentials and issues an access token. Users of
// unapproved tenants are refused even with correct credentials.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	user, err := s.userRepo.GetByUsername(ctx, creds.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Same answer as a wrong password, so usernames cannot be probed.
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		if updateErr := s.userRepo.Update(ctx, user); updateErr != nil {
			s.logger.WithContext(ctx).Warnw("record failed login", "error", updateErr)
		}
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	if user.TenantID != nil {
		t, err := s.tenantRepo.GetByID(ctx, *user.TenantID)
		if err != nil {
			return nil, err
		}
		if !t.IsApproved() {
			return nil, apperror.NewBusinessRule(
				apperror.CodeTenantNotApproved,
				"account is awaiting approval",
			)
		}
	}

	user.RecordSuccessfulLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.WithContext(ctx).Warnw("record successful login", "error", err)
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	s.logger.WithContext(ctx).Infow("user logged in", "user", user.ID, "username", user.Username)

	return &Session{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
		User:        user,
	}, nil
}

// ChangePassword replaces the user's password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, userID id.ID, oldPassword, newPassword string) error {
	if len(newPassword) < s.config.PasswordMinLength {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "newPassword")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperror.NewUnauthorized("invalid credentials")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	return s.userRepo.Update(ctx, user)
}

// GetUser retrieves a user by id.
func (s *Service) GetUser(ctx context.Context, userID id.ID) (*User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
