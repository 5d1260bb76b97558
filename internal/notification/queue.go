package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/niyateshaukh/mehfil-backend/utils"
)

// ticketJob is the message shape on the ticket-email topic
type ticketJob struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// KafkaQueue publishes ticket-email jobs for the consumer loop to pick
// up. Satisfies registration.EmailQueue.
type KafkaQueue struct{}

func NewKafkaQueue() *KafkaQueue {
	return &KafkaQueue{}
}

func (q *KafkaQueue) EnqueueTicketEmail(ctx context.Context, userID, email string) {
	payload, err := json.Marshal(ticketJob{UserID: userID, Email: email})
	if err != nil {
		log.Printf("❌ Failed to marshal ticket job for %s: %v", userID, err)
		return
	}
	utils.PublishTicketEmail(ctx, userID, payload)
}
