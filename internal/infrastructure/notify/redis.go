// Package notify implementa el sink de notificaciones sobre Redis pub/sub.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	appnotify "github.com/jportela/almoxarifado-api/internal/application/notify"
	"github.com/jportela/almoxarifado-api/pkg/logger"
)

var _ appnotify.Notifier = (*RedisNotifier)(nil)

// RedisNotifier publica notificaciones como JSON en un canal de Redis.
// Los consumidores (app móvil, panel web) se suscriben al canal de su empresa.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	log     *logger.Logger
}

// NewRedisClient crea y verifica el cliente Redis.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisNotifier construye el notificador sobre un cliente ya conectado.
func NewRedisNotifier(client *redis.Client, channel string, log *logger.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel, log: log}
}

// Publish publica la notificación en el canal <channel>:<company_id>.
// Un fallo se registra y se devuelve, pero los casos de uso lo descartan:
// las notificaciones nunca bloquean una operación de inventario.
func (n *RedisNotifier) Publish(ctx context.Context, ntf appnotify.Notification) error {
	payload, err := json.Marshal(ntf)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	channel := n.channel + ":" + ntf.CompanyID
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		n.log.Error().Err(err).Str("channel", channel).Msg("publicando notificación")
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
