package module

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-identity/internal/transport"
)

type ServiceAPI interface {
	ListActiveModules(ctx context.Context) ([]*Module, error)
	SeedModules(ctx context.Context) (*SeedResult, error)
}

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

func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.Service.ListActiveModules(r.Context())
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, modules)
}

func (h *Handler) SeedModules(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.SeedModules(r.Context())
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Message == SeedMessageInitialized {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, result)
}
