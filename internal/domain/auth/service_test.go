package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bherp/internal/core/apperror"
	"bherp/internal/core/id"
	"bherp/internal/core/tenant"
	"bherp/pkg/logger"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *User) error {
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", userID.String())
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *fakeUserRepo) Update(_ context.Context, user *User) error {
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *fakeUserRepo) ListByTenant(_ context.Context, tenantID id.ID) ([]User, error) {
	var out []User
	for _, u := range r.users {
		if u.TenantID != nil && *u.TenantID == tenantID {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeTenantRepo struct {
	tenants map[id.ID]*tenant.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[id.ID]*tenant.Tenant)}
}

func (r *fakeTenantRepo) Create(_ context.Context, t *tenant.Tenant) error {
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) GetByID(_ context.Context, tenantID id.ID) (*tenant.Tenant, error) {
	if t, ok := r.tenants[tenantID]; ok {
		return t, nil
	}
	return nil, apperror.NewNotFound("tenant", tenantID.String())
}

func (r *fakeTenantRepo) GetByJIB(_ context.Context, jib string) (*tenant.Tenant, error) {
	for _, t := range r.tenants {
		if t.JIB == jib {
			return t, nil
		}
	}
	return nil, apperror.NewNotFound("tenant", jib)
}

func (r *fakeTenantRepo) Update(_ context.Context, t *tenant.Tenant) error {
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) UpdateStatus(_ context.Context, tenantID id.ID, status string) error {
	if t, ok := r.tenants[tenantID]; ok {
		t.Status = status
	}
	return nil
}

func (r *fakeTenantRepo) List(_ context.Context, status string) ([]tenant.Tenant, error) {
	var out []tenant.Tenant
	for _, t := range r.tenants {
		if status == "" || t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeTenantRepo) {
	users := newFakeUserRepo()
	tenantsRepo := newFakeTenantRepo()
	svc := NewService(
		users,
		tenantsRepo,
		fakeTxManager{},
		NewJWTService(DefaultJWTConfig("test-secret")),
		DefaultServiceConfig(),
		logger.Default(),
	)
	return svc, users, tenantsRepo
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		CompanyName: "Gradnja d.o.o.",
		Address:     "Zmaja od Bosne 1",
		City:        "Sarajevo",
		JIB:         "4200000000001",
		Username:    "gradnja",
		Email:       "info@gradnja.ba",
		Password:    "lozinka123",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending tenant with first user", func(t *testing.T) {
		svc, users, tenantsRepo := newTestService()

		user, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)
		require.NotNil(t, user.TenantID)

		created, err := tenantsRepo.GetByID(ctx, *user.TenantID)
		require.NoError(t, err)
		assert.Equal(t, tenant.StatusPending, created.Status)
		assert.Equal(t, RoleUser, user.Role)

		stored, err := users.GetByUsername(ctx, "gradnja")
		require.NoError(t, err)
		assert.NotEqual(t, "lozinka123", stored.PasswordHash)
	})

	t.Run("rejects malformed JIB", func(t *testing.T) {
		svc, _, _ := newTestService()
		req := validRegister()
		req.JIB = "123"
		_, err := svc.Register(ctx, req)
		require.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc, _, _ := newTestService()
		req := validRegister()
		req.Password = "kratka"
		_, err := svc.Register(ctx, req)
		require.Error(t, err)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)

		req := validRegister()
		req.JIB = "4200000000002"
		_, err = svc.Register(ctx, req)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	})

	t.Run("rejects duplicate JIB", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)

		req := validRegister()
		req.Username = "drugafirma"
		_, err = svc.Register(ctx, req)
		require.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, svc *Service, tenantsRepo *fakeTenantRepo, approve bool) *User {
		t.Helper()
		user, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)
		if approve {
			require.NoError(t, tenantsRepo.UpdateStatus(ctx, *user.TenantID, tenant.StatusApproved))
		}
		return user
	}

	t.Run("approved tenant user gets a session", func(t *testing.T) {
		svc, _, tenantsRepo := newTestService()
		register(t, svc, tenantsRepo, true)

		session, err := svc.Login(ctx, Credentials{Username: "gradnja", Password: "lozinka123"})
		require.NoError(t, err)
		assert.NotEmpty(t, session.AccessToken)
		assert.Equal(t, "Bearer", session.TokenType)
		assert.True(t, session.ExpiresAt.After(time.Now()))
	})

	t.Run("pending tenant refused", func(t *testing.T) {
		svc, _, tenantsRepo := newTestService()
		register(t, svc, tenantsRepo, false)

		_, err := svc.Login(ctx, Credentials{Username: "gradnja", Password: "lozinka123"})
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeTenantNotApproved, appErr.Code)
	})

	t.Run("wrong password refused and counted", func(t *testing.T) {
		svc, users, tenantsRepo := newTestService()
		register(t, svc, tenantsRepo, true)

		_, err := svc.Login(ctx, Credentials{Username: "gradnja", Password: "pogresna"})
		require.Error(t, err)

		stored, err := users.GetByUsername(ctx, "gradnja")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.FailedLoginAttempts)
	})

	t.Run("unknown user gets the same error as wrong password", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Login(ctx, Credentials{Username: "niko", Password: "nista123"})
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	})

	t.Run("account locks after repeated failures", func(t *testing.T) {
		svc, _, tenantsRepo := newTestService()
		register(t, svc, tenantsRepo, true)

		for i := 0; i < DefaultServiceConfig().MaxLoginAttempts; i++ {
			_, _ = svc.Login(ctx, Credentials{Username: "gradnja", Password: "pogresna"})
		}

		_, err := svc.Login(ctx, Credentials{Username: "gradnja", Password: "lozinka123"})
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeForbidden, appErr.Code)
	})
}

func TestJWTRoundTrip(t *testing.T) {
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	tenantID := id.New()
	user := NewUser("gradnja", "info@gradnja.ba", "hash", RoleUser, &tenantID)

	token, expiresAt, err := jwtSvc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	uc, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, tenantID.String(), uc.TenantID)
	assert.Equal(t, "gradnja", uc.Username)
	assert.Equal(t, RoleUser, uc.Role)

	t.Run("tampered token rejected", func(t *testing.T) {
		other := NewJWTService(DefaultJWTConfig("another-secret"))
		_, err := other.ValidateToken(token)
		require.Error(t, err)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestService()

	user, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	t.Run("wrong old password refused", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, "pogresna", "novalozinka1")
		require.Error(t, err)
	})

	t.Run("changes with correct old password", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, user.ID, "lozinka123", "novalozinka1"))

		stored, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("novalozinka1")))
	})
}
