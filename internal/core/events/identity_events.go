package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	BusinessRegistered  = "identity.business.registered"
	EmployeeRegistered  = "identity.employee.registered"
	RoleCreated         = "identity.role.created"
	RoleUpdated         = "identity.role.updated"
	RoleDeleted         = "identity.role.deleted"
	RoleAssigned        = "identity.role.assigned"
	DefaultRolesCreated = "identity.roles.defaults_created"
	ModulesSeeded       = "identity.modules.seeded"
)

// IdentityEventTypes lists every event the service emits.
func IdentityEventTypes() []string {
	return []string{
		BusinessRegistered,
		EmployeeRegistered,
		RoleCreated,
		RoleUpdated,
		RoleDeleted,
		RoleAssigned,
		DefaultRolesCreated,
		ModulesSeeded,
	}
}

func NewIdentityEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// OrNop returns p, or a discarding publisher when p is nil.
func OrNop(p Publisher) Publisher {
	if p == nil {
		return Nop{}
	}
	return p
}
