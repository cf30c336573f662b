package models

import (
	"context"
	"errors"
	"time"

	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/utils"
	"gorm.io/gorm"
)

// MeterReading is one point in a room's meter chain. The log is append-only;
// the latest row per room (by created_at, then id) is the next bill's
// "previous" value. The chain belongs to the room, not the tenant, so it
// survives tenant turnover.
type MeterReading struct {
	ID        int       `gorm:"primary_key" json:"id"`
	OwnerId   string    `gorm:"index;not null" json:"owner_id"`
	RoomId    int       `gorm:"index;not null" json:"room_id"`
	TenantId  int       `gorm:"index;not null" json:"tenant_id"`
	Unit      int64     `gorm:"not null" json:"unit"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func appendMeterReading(tx *gorm.DB, ownerId string, roomId int, tenantId int, unit int64) (*MeterReading, error) {
	if unit < 0 {
		return nil, errors.New("meter reading cannot be negative")
	}
	reading := MeterReading{
		OwnerId:  ownerId,
		RoomId:   roomId,
		TenantId: tenantId,
		Unit:     unit,
	}
	if err := tx.Create(&reading).Error; err != nil {
		return nil, err
	}
	return &reading, nil
}

func latestMeterReading(tx *gorm.DB, ownerId string, roomId int) (*MeterReading, error) {
	var reading MeterReading
	err := tx.
		Where("owner_id = ? AND room_id = ?", ownerId, roomId).
		Order("created_at DESC, id DESC").
		Take(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &reading, nil
}

// GetLatestMeterReading returns the newest reading for the room, or
// RecordNotFound when the room has no readings yet.
func GetLatestMeterReading(ctx context.Context, roomId int) (*MeterReading, error) {
	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}
	db := config.GetDB()
	return latestMeterReading(db.WithContext(ctx), ownerId, roomId)
}

func GetMeterReadings(ctx context.Context, roomId int) ([]*MeterReading, error) {
	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	db := config.GetDB()
	var readings []*MeterReading
	err := db.WithContext(ctx).
		Where("owner_id = ? AND room_id = ?", ownerId, roomId).
		Order("created_at DESC, id DESC").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}
