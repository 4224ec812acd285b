package events

import (
	"context"
	"errors"

	"github.com/jhoicas/Comandas-api/internal/application/ports"
)

// MultiPublisher reparte cada evento a todos los publicadores. Un fallo no
// impide los demás; los errores se devuelven unidos.
type MultiPublisher []ports.EventPublisher

// Publish implementa ports.EventPublisher.
func (m MultiPublisher) Publish(ctx context.Context, evt ports.OrderEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
