package auth

import (
	"context"
	"strings"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// IdentityPayload is the permission-bearing claim set carried by a token. It
// is rebuilt from the store on every login and verification.
type IdentityPayload struct {
	ID             string `json:"id"`
	BusinessID     string `json:"businessId"`
	Role           string `json:"role"`
	RoleID         string `json:"roleId,omitempty"`
	RoleName       string `json:"roleName,omitempty"`
	ModuleAccessID string `json:"moduleAccessId"`
}

func (p IdentityPayload) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// ModuleIDs splits ModuleAccessID back into module ids.
func (p IdentityPayload) ModuleIDs() []string {
	if p.ModuleAccessID == "" {
		return nil
	}
	return strings.Split(p.ModuleAccessID, ",")
}

func (p IdentityPayload) HasModule(moduleID string) bool {
	for _, id := range p.ModuleIDs() {
		if id == moduleID {
			return true
		}
	}
	return false
}

func JoinModuleIDs(ids []string) string {
	return strings.Join(ids, ",")
}

type AuthResult struct {
	User  IdentityPayload `json:"user"`
	Token string          `json:"token"`
}

type ctxKey string

const identityKey ctxKey = "identity"

func ContextWithIdentity(ctx context.Context, identity IdentityPayload) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (IdentityPayload, bool) {
	if ctx == nil {
		return IdentityPayload{}, false
	}
	identity, ok := ctx.Value(identityKey).(IdentityPayload)
	return identity, ok
}
