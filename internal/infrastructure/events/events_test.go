package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comandas-api/internal/application/ports"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/events"
)

type publisherMock struct{ mock.Mock }

func (m *publisherMock) Publish(ctx context.Context, evt ports.OrderEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func TestMultiPublisher_EntregaATodosAunqueUnoFalle(t *testing.T) {
	broken := &publisherMock{}
	broken.On("Publish", mock.Anything, mock.Anything).Return(errors.New("sin conexión"))
	ok := &publisherMock{}
	ok.On("Publish", mock.Anything, mock.Anything).Return(nil)

	evt := ports.OrderEvent{Type: ports.EventOrderMoved, OrderID: "o-1"}
	err := events.MultiPublisher{broken, ok}.Publish(context.Background(), evt)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sin conexión")
	ok.AssertCalled(t, "Publish", mock.Anything, evt)
}

func TestMultiPublisher_Vacio(t *testing.T) {
	assert.NoError(t, events.MultiPublisher{}.Publish(context.Background(), ports.OrderEvent{}))
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "comanda.paid", events.RoutingKey(ports.OrderEvent{Type: ports.EventOrderPaid}))
}

func TestKafkaPublisher_IgnoraEventosQueNoSonCobro(t *testing.T) {
	p := events.NewKafkaPublisher([]string{"127.0.0.1:1"}, "ventas", nil)
	defer p.Close()
	assert.NoError(t, p.Publish(context.Background(), ports.OrderEvent{Type: ports.EventOrderCreated}))
}

func TestKafkaPublisher_NoRetieneElCobro(t *testing.T) {
	p := events.NewKafkaPublisher([]string{"127.0.0.1:1"}, "ventas", nil)
	defer p.Close()
	assert.True(t, p.Writer.Async)
	assert.NotNil(t, p.Writer.Completion)
	assert.Less(t, p.Writer.BatchTimeout, 100*time.Millisecond)
}
