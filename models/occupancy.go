package models

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/utils"
	"gorm.io/gorm"
)

// Occupancy maps a tenant to a room for a date range. A row with a nil
// LeavingDate is the room's active occupancy; the invariant is at most one
// active row per room.
type Occupancy struct {
	ID          int        `gorm:"primary_key" json:"id"`
	OwnerId     string     `gorm:"index;not null" json:"owner_id"`
	TenantId    int        `gorm:"index;not null" json:"tenant_id" binding:"required"`
	RoomId      int        `gorm:"index;not null" json:"room_id" binding:"required"`
	JoiningDate time.Time  `gorm:"not null" json:"joining_date" binding:"required"`
	LeavingDate *time.Time `gorm:"default:null" json:"leaving_date"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOccupancy struct {
	TenantId    int       `json:"tenant_id" binding:"required"`
	RoomId      int       `json:"room_id" binding:"required"`
	JoiningDate time.Time `json:"joining_date" binding:"required"`
}

// OccupancyDetail joins a mapping with its tenant for room views.
type OccupancyDetail struct {
	Occupancy
	TenantName   string `json:"tenant_name"`
	TenantMobile string `json:"tenant_mobile"`
}

const roomAssignLock = "RoomAssignLock"

// AssignTenant opens an occupancy for the room. The per-room lock plus the
// in-transaction recheck closes the race window between two writers checking
// "is the room free" at the same time.
func AssignTenant(ctx context.Context, input *NewOccupancy) (*Occupancy, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	if err := utils.ValidateResourceId[Tenant](ctx, ownerId, input.TenantId); err != nil {
		return nil, errors.New("tenant not found")
	}
	if err := utils.ValidateResourceId[Room](ctx, ownerId, input.RoomId); err != nil {
		return nil, errors.New("room not found")
	}

	release, err := utils.OwnerLock(ctx, roomAssignLock, ownerId+":"+strconv.Itoa(input.RoomId), "occupancy", "AssignTenant")
	if err != nil {
		return nil, err
	}
	defer release()

	db := config.GetDB()
	occupancy := Occupancy{
		OwnerId:     ownerId,
		TenantId:    input.TenantId,
		RoomId:      input.RoomId,
		JoiningDate: input.JoiningDate,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Occupancy{}).
			Where("owner_id = ? AND room_id = ? AND leaving_date IS NULL", ownerId, input.RoomId).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New("room already occupied")
		}
		if err := tx.Create(&occupancy).Error; err != nil {
			return err
		}
		return QueueBillingEvent(ctx, tx, ownerId, occupancy.ID, BillingReferenceTypeOccupancy, BillingEventActionCreate, occupancy)
	})
	if err != nil {
		return nil, err
	}
	return &occupancy, nil
}

// VacateOccupancy closes the mapping. Vacating twice is rejected rather than
// silently overwriting the recorded leaving date.
func VacateOccupancy(ctx context.Context, id int) (*Occupancy, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	occupancy, err := utils.FetchModel[Occupancy](ctx, ownerId, id)
	if err != nil {
		return nil, err
	}
	if occupancy.LeavingDate != nil {
		return nil, errors.New("occupancy is already vacated")
	}

	now := time.Now().UTC()
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// guard the update with the same open-row condition so a concurrent
		// vacate cannot slip through between fetch and update
		result := tx.Model(&Occupancy{}).
			Where("id = ? AND owner_id = ? AND leaving_date IS NULL", id, ownerId).
			Update("leaving_date", now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("occupancy is already vacated")
		}
		occupancy.LeavingDate = &now
		return QueueBillingEvent(ctx, tx, ownerId, occupancy.ID, BillingReferenceTypeOccupancy, BillingEventActionUpdate, occupancy)
	})
	if err != nil {
		return nil, err
	}
	return occupancy, nil
}

// GetActiveOccupancyForRoom returns the open mapping with tenant details, or
// RecordNotFound when the room is vacant.
func GetActiveOccupancyForRoom(ctx context.Context, roomId int) (*OccupancyDetail, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	db := config.GetDB()
	var detail OccupancyDetail
	err := db.WithContext(ctx).Model(&Occupancy{}).
		Select("occupancies.*, tenants.name AS tenant_name, tenants.mobile AS tenant_mobile").
		Joins("LEFT JOIN tenants ON tenants.id = occupancies.tenant_id").
		Where("occupancies.owner_id = ? AND occupancies.room_id = ? AND occupancies.leaving_date IS NULL", ownerId, roomId).
		Order("occupancies.id ASC").
		Take(&detail).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &detail, nil
}

// GetRoomHistory lists closed mappings for the room, newest joining first.
func GetRoomHistory(ctx context.Context, roomId int) ([]*OccupancyDetail, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	db := config.GetDB()
	var history []*OccupancyDetail
	err := db.WithContext(ctx).Model(&Occupancy{}).
		Select("occupancies.*, tenants.name AS tenant_name, tenants.mobile AS tenant_mobile").
		Joins("LEFT JOIN tenants ON tenants.id = occupancies.tenant_id").
		Where("occupancies.owner_id = ? AND occupancies.room_id = ? AND occupancies.leaving_date IS NOT NULL", ownerId, roomId).
		Order("occupancies.joining_date DESC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// GetActiveOccupancies lists every open mapping for the owner (the set of
// currently occupied rooms, the only valid targets for a new bill).
func GetActiveOccupancies(ctx context.Context) ([]*OccupancyDetail, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	db := config.GetDB()
	var active []*OccupancyDetail
	err := db.WithContext(ctx).Model(&Occupancy{}).
		Select("occupancies.*, tenants.name AS tenant_name, tenants.mobile AS tenant_mobile").
		Joins("LEFT JOIN tenants ON tenants.id = occupancies.tenant_id").
		Where("occupancies.owner_id = ? AND occupancies.leaving_date IS NULL", ownerId).
		Order("occupancies.room_id ASC").
		Find(&active).Error
	if err != nil {
		return nil, err
	}
	return active, nil
}

// GetActiveRoomsForTenants batches "which room does each tenant live in".
// First active row wins per tenant if the uniqueness invariant was ever
// violated out-of-band (defensive, not authoritative).
func GetActiveRoomsForTenants(ctx context.Context, tenantIds []int) (map[int]*Occupancy, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	result := make(map[int]*Occupancy)
	if len(tenantIds) == 0 {
		return result, nil
	}

	db := config.GetDB()
	var rows []*Occupancy
	err := db.WithContext(ctx).
		Where("owner_id = ? AND tenant_id IN ? AND leaving_date IS NULL", ownerId, utils.UniqueSlice(tenantIds)).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if _, exists := result[row.TenantId]; !exists {
			result[row.TenantId] = row
		}
	}
	return result, nil
}

func hasActiveOccupancy(tx *gorm.DB, ownerId string, roomId int, tenantId int) (bool, error) {
	var count int64
	err := tx.Model(&Occupancy{}).
		Where("owner_id = ? AND room_id = ? AND tenant_id = ? AND leaving_date IS NULL", ownerId, roomId, tenantId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
