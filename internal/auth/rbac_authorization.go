package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/pos-identity/internal"
	"github.com/frahmantamala/pos-identity/internal/transport"
)

type PermissionAuthorizer interface {
	CanAccess(ctx context.Context, identity IdentityPayload, moduleName string) (bool, error)
}

// RBACAuthorization gates routes on module permissions. It runs after the
// auth middleware has placed the identity in the request context.
type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer PermissionAuthorizer
	logger     *slog.Logger
}

func NewRBACAuthorization(authorizer PermissionAuthorizer, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		authorizer:  authorizer,
		logger:      logger,
	}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, moduleName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			ra.logger.WarnContext(r.Context(), "authorization check failed: identity not found in context")
			ra.WriteServiceError(w, internal.ErrInvalidToken())
			return
		}

		hasAccess, err := ra.authorizer.CanAccess(r.Context(), identity, moduleName)
		if err != nil {
			ra.logger.ErrorContext(r.Context(), "authorization check failed", "error", err, "user_id", identity.ID, "module", moduleName)
			ra.WriteServiceError(w, internal.NewInternalError("Error checking permissions", err))
			return
		}

		if !hasAccess {
			ra.logger.WarnContext(r.Context(), "access denied: missing module permission",
				"user_id", identity.ID,
				"business_id", identity.BusinessID,
				"required_module", moduleName)
			ra.WriteServiceError(w, internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeMissingPermission))
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (ra *RBACAuthorization) RequireModule(moduleName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, moduleName)
	}
}
