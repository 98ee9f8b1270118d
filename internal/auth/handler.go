package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-identity/internal"
	"github.com/frahmantamala/pos-identity/internal/business"
	"github.com/frahmantamala/pos-identity/internal/transport"
	"github.com/frahmantamala/pos-identity/pkg/logger"
)

// RefreshedTokenHeader carries the token reissued by the auth middleware.
const RefreshedTokenHeader = "X-Auth-Token"

type ServiceAPI interface {
	RegisterBusiness(ctx context.Context, dto RegisterBusinessDTO) (*AuthResult, error)
	RegisterEmployee(ctx context.Context, dto RegisterEmployeeDTO) (*AuthResult, error)
	LoginUser(ctx context.Context, dto LoginDTO) (*AuthResult, error)
	VerifyToken(ctx context.Context, token string) (*AuthResult, error)
	GetBusinessByID(ctx context.Context, businessID string) (*business.Business, error)
	GetEmployeesByBusinessID(ctx context.Context, businessID string) ([]*EmployeeWithRole, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) RegisterBusiness(w http.ResponseWriter, r *http.Request) {
	var dto RegisterBusinessDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	result, err := h.Service.RegisterBusiness(r.Context(), dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, result)
}

// RegisterEmployee always registers into the caller's own business.
func (h *Handler) RegisterEmployee(w http.ResponseWriter, r *http.Request) {
	var dto RegisterEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	dto.BusinessID = internal.BusinessIDFromContext(r.Context())

	result, err := h.Service.RegisterEmployee(r.Context(), dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	result, err := h.Service.LoginUser(r.Context(), dto)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var dto VerifyTokenDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	result, err := h.Service.VerifyToken(r.Context(), dto.Token)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.GetBusinessByID(r.Context(), internal.BusinessIDFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.GetEmployeesByBusinessID(r.Context(), internal.BusinessIDFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// AuthMiddleware verifies the bearer token, stores the refreshed identity in
// the request context and hands the reissued token back in a header.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteServiceError(w, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken))
			return
		}

		result, err := h.Service.VerifyToken(r.Context(), token)
		if err != nil {
			h.WriteServiceError(w, err)
			return
		}

		ctx := ContextWithIdentity(r.Context(), result.User)
		ctx = internal.ContextWithUserID(ctx, result.User.ID)
		ctx = internal.ContextWithBusinessID(ctx, result.User.BusinessID)
		ctx = logger.With(ctx, "user_id", result.User.ID, "business_id", result.User.BusinessID)

		w.Header().Set(RefreshedTokenHeader, result.Token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
