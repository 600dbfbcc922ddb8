// Package events maps domain happenings onto the Kafka event stream.
package events

import (
	"context"
	"encoding/json"

	"github.com/fairgroundhq/trellis/pkg/kafka"
)

const (
	EventCompanyMerged      = "company.merged"
	EventDuplicatesAnalyzed = "duplicates.analyzed"
)

// Publisher is the producer surface the emitter needs.
type Publisher interface {
	PublishCompanyEvent(ctx context.Context, event *kafka.CompanyEvent) error
}

// Emitter publishes trellis lifecycle events.
type Emitter struct {
	producer Publisher
}

// NewEmitter creates a new event emitter.
func NewEmitter(producer Publisher) *Emitter {
	return &Emitter{producer: producer}
}

// EmitCompanyMerged announces that duplicateID was absorbed into masterID.
func (e *Emitter) EmitCompanyMerged(ctx context.Context, masterID, duplicateID string) error {
	return e.producer.PublishCompanyEvent(ctx, &kafka.CompanyEvent{
		EventType:   EventCompanyMerged,
		CompanyID:   masterID,
		DuplicateID: duplicateID,
	})
}

// EmitDuplicatesAnalyzed announces a completed duplicate analysis run.
func (e *Emitter) EmitDuplicatesAnalyzed(ctx context.Context, scanned, groupCount int) error {
	data, err := json.Marshal(map[string]int{
		"scanned":     scanned,
		"group_count": groupCount,
	})
	if err != nil {
		return err
	}
	return e.producer.PublishCompanyEvent(ctx, &kafka.CompanyEvent{
		EventType: EventDuplicatesAnalyzed,
		Data:      data,
	})
}
