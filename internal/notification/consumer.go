package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/niyateshaukh/mehfil-backend/config"
	"github.com/niyateshaukh/mehfil-backend/utils"
)

// StartKafkaConsumer runs the ticket-email worker loop in the
// background. No-op when Kafka is not configured.
func StartKafkaConsumer(ctx context.Context, cfg *config.Config, svc Service) {
	reader := utils.NewTicketReader(cfg)
	if reader == nil {
		return
	}

	log.Println("✅ Ticket email consumer started")

	go func() {
		defer reader.Close()
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("❌ Kafka read error: %v", err)
				continue
			}

			var job ticketJob
			if err := json.Unmarshal(msg.Value, &job); err != nil {
				log.Printf("❌ Malformed ticket job (offset %d): %v", msg.Offset, err)
				continue
			}

			if err := svc.SendTicketEmail(ctx, job.UserID, job.Email); err != nil {
				log.Printf("❌ Async ticket email failed for %s: %v", job.UserID, err)
			}
		}
	}()
}
