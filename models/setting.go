package models

import (
	"context"
	"errors"
	"time"

	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Setting is the owner's current utility rates: a flat water fee per bill and
// a per-unit electricity rate. One row per owner; saving upserts it, no
// history is kept.
type Setting struct {
	ID              int             `gorm:"primary_key" json:"id"`
	OwnerId         string          `gorm:"index;not null" json:"owner_id"`
	PropertyName    string          `gorm:"size:100" json:"property_name"`
	PropertyAddress string          `gorm:"type:text" json:"property_address"`
	Water           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"water"`
	ElectricityUnit decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"electricity_unit"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	ModifiedAt      time.Time       `gorm:"autoUpdateTime" json:"modified_at"`
}

type NewSetting struct {
	PropertyName    string          `json:"property_name"`
	PropertyAddress string          `json:"property_address"`
	Water           decimal.Decimal `json:"water"`
	ElectricityUnit decimal.Decimal `json:"electricity_unit"`
}

/*
caches:
	Setting:$ownerId
*/

func settingCacheKey(ownerId string) string {
	return "Setting:" + ownerId
}

func (input *NewSetting) validate() error {
	if input.Water.IsNegative() {
		return errors.New("water fee cannot be negative")
	}
	if input.ElectricityUnit.IsNegative() {
		return errors.New("electricity rate cannot be negative")
	}
	return nil
}

// SaveSetting inserts the owner's settings row once, then updates it in place
// on every later save.
func SaveSetting(ctx context.Context, input *NewSetting) (*Setting, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var setting Setting
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerId).
		Order("modified_at DESC, created_at DESC").
		Take(&setting).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if setting.ID == 0 {
		setting = Setting{
			OwnerId:         ownerId,
			PropertyName:    input.PropertyName,
			PropertyAddress: input.PropertyAddress,
			Water:           input.Water,
			ElectricityUnit: input.ElectricityUnit,
		}
		if err := db.WithContext(ctx).Create(&setting).Error; err != nil {
			return nil, err
		}
	} else {
		err = db.WithContext(ctx).Model(&setting).Updates(map[string]interface{}{
			"PropertyName":    input.PropertyName,
			"PropertyAddress": input.PropertyAddress,
			"Water":           input.Water,
			"ElectricityUnit": input.ElectricityUnit,
		}).Error
		if err != nil {
			return nil, err
		}
	}

	if err := config.RemoveRedisKey(settingCacheKey(ownerId)); err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetSetting returns the owner's current settings snapshot, redis-cached.
// RecordNotFound when the owner has never saved settings.
func GetSetting(ctx context.Context) (*Setting, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	var setting Setting
	exists, err := config.GetRedisObject(settingCacheKey(ownerId), &setting)
	if err != nil {
		return nil, err
	}
	if exists {
		return &setting, nil
	}

	db := config.GetDB()
	err = db.WithContext(ctx).
		Where("owner_id = ?", ownerId).
		Order("modified_at DESC, created_at DESC").
		Take(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	if err := config.SetRedisObject(settingCacheKey(ownerId), &setting, 0); err != nil {
		return nil, err
	}
	return &setting, nil
}
