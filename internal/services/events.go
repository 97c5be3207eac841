package services

import (
	"log"

	"shelving/pkg/rabbitmq"
)

// publishChange sends an inventory event when a broker client is configured.
// Event publication is best-effort: a broker failure never fails the
// mutation that triggered it.
func publishChange(mq *rabbitmq.Client, entity, action string, payload map[string]interface{}) {
	if mq == nil {
		return
	}
	if err := mq.PublishChange(entity, action, payload); err != nil {
		log.Printf("Warning: failed to publish %s %s event: %v", entity, action, err)
	}
}
