package realtime

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Comandas-api/pkg/logger"
)

const changedMessage = "changed"

// RedisNotifier publica los cambios en un canal de Redis para que todas las
// instancias del API refresquen su hub.
type RedisNotifier struct {
	Client  *redis.Client
	Channel string
	log     *logger.Logger
}

// NewRedisNotifier construye el notificador sobre un cliente ya conectado.
func NewRedisNotifier(client *redis.Client, channel string, log *logger.Logger) *RedisNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisNotifier{Client: client, Channel: channel, log: log.Component("redis-notifier")}
}

// NotifyChanged implementa ports.ChangeNotifier.
func (n *RedisNotifier) NotifyChanged(ctx context.Context) error {
	return n.Client.Publish(ctx, n.Channel, changedMessage).Err()
}

// Listen se suscribe al canal y llama a onChange por cada aviso hasta que ctx termine.
// Retorna cuando la suscripción queda confirmada o falla; la escucha sigue en una goroutine.
func (n *RedisNotifier) Listen(ctx context.Context, onChange func(ctx context.Context) error) error {
	sub := n.Client.Subscribe(ctx, n.Channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe %s: %w", n.Channel, err)
	}

	go func() {
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if msg.Payload != changedMessage {
					continue
				}
				if err := onChange(ctx); err != nil {
					n.log.Warn().Err(err).Msg("refresco tras aviso de Redis")
				}
			}
		}
	}()
	return nil
}
