package models

import (
	"context"
	"errors"
	"time"

	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/utils"
	"github.com/shopspring/decimal"
)

type Room struct {
	ID        int             `gorm:"primary_key" json:"id"`
	OwnerId   string          `gorm:"index;not null" json:"owner_id"`
	Name      string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Type      string          `gorm:"size:100" json:"type"`
	Area      string          `gorm:"size:100" json:"area"`
	Rent      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"rent"`
	Deposit   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"deposit"`
	Comment   string          `gorm:"type:text" json:"comment"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRoom struct {
	Name    string          `json:"name" binding:"required"`
	Type    string          `json:"type"`
	Area    string          `json:"area"`
	Rent    decimal.Decimal `json:"rent"`
	Deposit decimal.Decimal `json:"deposit"`
	Comment string          `json:"comment"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewRoom) validate(ctx context.Context, ownerId string, id int) error {
	// name
	if err := utils.ValidateUnique[Room](ctx, ownerId, "name", input.Name, id); err != nil {
		return err
	}
	if input.Rent.IsNegative() {
		return errors.New("rent cannot be negative")
	}
	if input.Deposit.IsNegative() {
		return errors.New("deposit cannot be negative")
	}
	return nil
}

func CreateRoom(ctx context.Context, input *NewRoom) (*Room, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	if err := input.validate(ctx, ownerId, 0); err != nil {
		return nil, err
	}

	room := Room{
		OwnerId: ownerId,
		Name:    input.Name,
		Type:    input.Type,
		Area:    input.Area,
		Rent:    input.Rent,
		Deposit: input.Deposit,
		Comment: input.Comment,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Create(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func UpdateRoom(ctx context.Context, id int, input *NewRoom) (*Room, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	if err := input.validate(ctx, ownerId, id); err != nil {
		return nil, err
	}

	room, err := utils.FetchModel[Room](ctx, ownerId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&room).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Type":    input.Type,
		"Area":    input.Area,
		"Rent":    input.Rent,
		"Deposit": input.Deposit,
		"Comment": input.Comment,
	}).Error
	if err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom does not check occupancies or bills referencing the room; rows
// that point at a deleted room are left in place for history.
func DeleteRoom(ctx context.Context, id int) (*Room, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	room, err := utils.FetchModel[Room](ctx, ownerId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

func GetRoom(ctx context.Context, id int) (*Room, error) {
	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}
	return utils.FetchModel[Room](ctx, ownerId, id)
}

func GetRooms(ctx context.Context) ([]*Room, error) {
	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	db := config.GetDB()
	var rooms []*Room
	if err := db.WithContext(ctx).Where("owner_id = ?", ownerId).Order("name ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}
