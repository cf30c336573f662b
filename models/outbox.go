package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/utils"
	"gorm.io/gorm"
)

// OutboxMessageRecord implements the transactional outbox: the event row is
// written inside the caller's DB transaction, and actual publishing to
// Pub/Sub happens asynchronously after commit (see the dispatcher in main).
type OutboxMessageRecord struct {
	ID               int                  `gorm:"primary_key" json:"id"`
	OwnerId          string               `gorm:"index;not null" json:"owner_id"`
	ReferenceId      int                  `gorm:"index;not null" json:"reference_id"`
	ReferenceType    BillingReferenceType `gorm:"size:50;not null" json:"reference_type"`
	Action           BillingEventAction   `gorm:"size:20;not null" json:"action"`
	Payload          []byte               `gorm:"type:blob" json:"payload"`
	PublishStatus    OutboxPublishStatus  `gorm:"size:20;default:Pending;index" json:"publish_status"`
	CorrelationId    string               `gorm:"size:100" json:"correlation_id"`
	PublishAttempts  int                  `gorm:"default:0" json:"publish_attempts"`
	LastPublishError *string              `gorm:"size:500;default:null" json:"last_publish_error"`
	NextAttemptAt    *time.Time           `gorm:"default:null" json:"next_attempt_at"`
	LockedAt         *time.Time           `gorm:"default:null" json:"locked_at"`
	LockedBy         *string              `gorm:"size:100;default:null" json:"locked_by"`
	PubSubMessageId  *string              `gorm:"size:100;default:null" json:"pub_sub_message_id"`
	PublishedAt      *time.Time           `gorm:"default:null" json:"published_at"`
	CreatedAt        time.Time            `gorm:"autoCreateTime" json:"created_at"`
}

// QueueBillingEvent writes the outbox record inside the caller's transaction.
// It does NOT publish; rows stay Pending until the dispatcher picks them up.
func QueueBillingEvent(ctx context.Context, tx *gorm.DB, ownerId string, refId int, refType BillingReferenceType, action BillingEventAction, obj interface{}) error {

	var payload []byte
	var err error
	if obj != nil {
		payload, err = json.Marshal(obj)
		if err != nil {
			return err
		}
	}

	record := OutboxMessageRecord{
		OwnerId:       ownerId,
		ReferenceId:   refId,
		ReferenceType: refType,
		Action:        action,
		Payload:       payload,
		PublishStatus: OutboxPublishStatusPending,
		CorrelationId: correlationIdFromContextOrNew(ctx),
	}
	return tx.Create(&record).Error
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// ConvertToBillingEvent shapes an outbox row into the published message.
func ConvertToBillingEvent(rec OutboxMessageRecord) config.BillingEvent {
	return config.BillingEvent{
		ID:            rec.ID,
		OwnerId:       rec.OwnerId,
		ReferenceId:   rec.ReferenceId,
		ReferenceType: string(rec.ReferenceType),
		Action:        string(rec.Action),
		Payload:       rec.Payload,
		OccurredAt:    rec.CreatedAt,
		CorrelationId: rec.CorrelationId,
	}
}
