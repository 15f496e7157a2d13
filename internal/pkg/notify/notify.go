package notify

import (
	"encoding/json"
	"log"

	"github.com/localmart/localmart/app/models"
	"github.com/localmart/localmart/internal/pkg/cache"
)

const messageChannel = "localmart:notifications:messages"

// Notifier pushes new-message events towards the delivery transport. The
// actual push service is an external collaborator; this interface is the seam.
type Notifier interface {
	NotifyNewMessage(msg *models.Message) error
}

// RedisNotifier publishes events on a Redis channel the relay process
// subscribes to.
type RedisNotifier struct{}

// NewRedisNotifier creates a notifier backed by the shared cache client.
func NewRedisNotifier() *RedisNotifier {
	return &RedisNotifier{}
}

func (n *RedisNotifier) NotifyNewMessage(msg *models.Message) error {
	payload, err := json.Marshal(map[string]interface{}{
		"message_id":   msg.ID,
		"sender_id":    msg.SenderID,
		"recipient_id": msg.RecipientID,
		"business_id":  msg.BusinessID,
	})
	if err != nil {
		return err
	}
	return cache.Publish(messageChannel, payload)
}

// NoopNotifier drops events; used when no relay is configured and in tests.
type NoopNotifier struct{}

func (NoopNotifier) NotifyNewMessage(msg *models.Message) error {
	log.Printf("notify: dropping message event %d (no relay configured)", msg.ID)
	return nil
}
