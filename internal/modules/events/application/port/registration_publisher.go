package port

import (
	"context"

	"eventDeskProxy/internal/modules/events/domain"
)

// RegistrationPublisher announces accepted registrations to downstream consumers.
type RegistrationPublisher interface {
	PublishRegistration(ctx context.Context, event domain.RegistrationEvent) error
}

// NopRegistrationPublisher drops every event. Used when no broker is configured.
type NopRegistrationPublisher struct{}

func (NopRegistrationPublisher) PublishRegistration(context.Context, domain.RegistrationEvent) error {
	return nil
}
