package role

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/pos-identity/internal"
	"github.com/frahmantamala/pos-identity/internal/transport"
)

type ServiceAPI interface {
	CreateDefaultRoles(ctx context.Context, businessID string) error
	Create(ctx context.Context, dto CreateRoleDTO, businessID string) (*Role, error)
	FindAllByBusiness(ctx context.Context, businessID string) ([]*RoleWithEmployeeCount, error)
	FindOne(ctx context.Context, roleID, businessID string) (*RoleDetail, error)
	Update(ctx context.Context, roleID string, dto UpdateRoleDTO, businessID string) (*Role, error)
	Remove(ctx context.Context, roleID, businessID string) (*DeleteResult, error)
	AssignRoleToEmployee(ctx context.Context, employeeID, roleID, businessID string) (*EmployeeWithRole, error)
}

// Handler serves role management for the caller's business. The tenant always
// comes from the authenticated identity, never from the request.
type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	created, err := h.Service.Create(r.Context(), dto, internal.BusinessIDFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.FindAllByBusiness(r.Context(), internal.BusinessIDFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, roles)
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Service.FindOne(r.Context(), chi.URLParam(r, "roleID"), internal.BusinessIDFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var dto UpdateRoleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "roleID"), dto, internal.BusinessIDFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Remove(r.Context(), chi.URLParam(r, "roleID"), internal.BusinessIDFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var dto AssignRoleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if employeeID := chi.URLParam(r, "employeeID"); employeeID != "" {
		dto.EmployeeID = employeeID
	}

	result, err := h.Service.AssignRoleToEmployee(r.Context(), dto.EmployeeID, dto.RoleID, internal.BusinessIDFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) CreateDefaultRoles(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.CreateDefaultRoles(r.Context(), internal.BusinessIDFromContext(r.Context())); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
