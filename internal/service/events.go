package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/mykafka"
)

const sideEffectTimeout = 5 * time.Second

// publish never fails the caller; delivery problems are only logged.
func publish(ctx context.Context, p mykafka.Publisher, topic string, key any, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, fmt.Sprint(key), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
