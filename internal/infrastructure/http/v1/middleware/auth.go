package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"bherp/internal/core/apperror"
	appctx "bherp/internal/core/context"
	"bherp/internal/core/id"
	"bherp/internal/core/tenant"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// TenantGetter loads tenant state for the approval guard.
type TenantGetter interface {
	GetByID(ctx context.Context, tenantID id.ID) (*tenant.Tenant, error)
}

// Auth middleware validates JWT tokens and populates user and tenant
// context. The tenant scope comes from the token, never from a header,
// so a client cannot point requests at another firm's data.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)

		if user.TenantID != "" {
			tenantID, err := id.Parse(user.TenantID)
			if err != nil {
				abortUnauthorized(c, "invalid token")
				return
			}
			ctx = tenant.WithTenantID(ctx, tenantID)
		}

		c.Request = c.Request.WithContext(ctx)

		// Store in gin context for easy access
		c.Set("user_id", user.UserID)

		c.Next()
	}
}

// RequireSuperAdmin only passes platform administrators.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		if user.Role != appctx.RoleSuperAdmin {
			_ = c.Error(apperror.NewForbidden("super admin role required"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireApprovedTenant blocks tenants that are still pending or were
// rejected. Super admins pass without a tenant.
func RequireApprovedTenant(tenantsRepo TenantGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if appctx.IsSuperAdmin(ctx) {
			c.Next()
			return
		}

		tenantID, err := tenant.RequireTenantID(ctx)
		if err != nil {
			abortUnauthorized(c, "tenant scope required")
			return
		}

		t, err := tenantsRepo.GetByID(ctx, tenantID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		if !t.IsApproved() {
			_ = c.Error(
				apperror.NewBusinessRule(apperror.CodeTenantNotApproved, "tenant is not approved").
					WithDetail("status", t.Status),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
