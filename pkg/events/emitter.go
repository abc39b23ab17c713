// Package events handles event emission for campaign lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter publishes campaign lifecycle events
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitCampaignMerged emits an event describing a completed merge. The event
// is keyed by the survivor so consumers see one stream per surviving
// campaign.
func (e *Emitter) EmitCampaignMerged(ctx context.Context, result *models.MergeResult) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitCampaignMerged")
	defer span.End()

	data := map[string]any{
		"schema_version": SchemaVersion,
		"survivor_id":    result.SurvivorID,
		"loser_id":       result.LoserID,
		"moved":          result.Moved,
		"deleted":        result.Deleted,
	}
	dataJSON, _ := json.Marshal(data)

	event := &kafka.CampaignEvent{
		EventType:  "campaign.merged",
		CampaignID: result.SurvivorID,
		Data:       dataJSON,
	}

	if err := e.producer.PublishCampaignEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit campaign.merged event")
		return err
	}

	return nil
}

// EmitPossibleDuplicate emits an event when a pair is queued for review
func (e *Emitter) EmitPossibleDuplicate(ctx context.Context, campaignA string, campaignB string, stateCode string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitPossibleDuplicate")
	defer span.End()

	data := map[string]any{
		"schema_version": SchemaVersion,
		"campaign1_id":   campaignA,
		"campaign2_id":   campaignB,
		"state_code":     stateCode,
	}
	dataJSON, _ := json.Marshal(data)

	event := &kafka.CampaignEvent{
		EventType:  "campaign.possible_duplicate",
		CampaignID: campaignA,
		Data:       dataJSON,
	}

	if err := e.producer.PublishCampaignEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit campaign.possible_duplicate event")
		return err
	}

	return nil
}

// EmitNotDuplicate emits an event when a pair is confirmed distinct
func (e *Emitter) EmitNotDuplicate(ctx context.Context, campaignA string, campaignB string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitNotDuplicate")
	defer span.End()

	data := map[string]any{
		"schema_version": SchemaVersion,
		"campaign1_id":   campaignA,
		"campaign2_id":   campaignB,
	}
	dataJSON, _ := json.Marshal(data)

	event := &kafka.CampaignEvent{
		EventType:  "campaign.not_duplicate",
		CampaignID: campaignA,
		Data:       dataJSON,
	}

	if err := e.producer.PublishCampaignEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit campaign.not_duplicate event")
		return err
	}

	return nil
}
