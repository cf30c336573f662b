package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Bill is one month's charges for a (room, tenant) pair: rent + water flat
// fee + electricity from the meter delta + an optional ad-hoc amount.
// PaidAmount/Status/PaidAmountComment are aggregates over the bill's payment
// rows; they are updated in the same transaction that inserts each payment.
type Bill struct {
	ID                          int             `gorm:"primary_key" json:"id"`
	OwnerId                     string          `gorm:"index;not null" json:"owner_id"`
	TenantId                    int             `gorm:"index;not null" json:"tenant_id"`
	RoomId                      int             `gorm:"index;not null" json:"room_id"`
	Rent                        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"rent"`
	Water                       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"water"`
	PreviousMonthMeterReading   int64           `gorm:"default:0" json:"previous_month_meter_reading"`
	CurrentMonthMeterReading    int64           `gorm:"default:0" json:"current_month_meter_reading"`
	Electricity                 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"electricity"`
	AdHocAmount                 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"ad_hoc_amount"`
	AdHocComment                string          `gorm:"size:255" json:"ad_hoc_comment"`
	TotalAmount                 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	PaidAmount                  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	PaidAmountComment           string          `gorm:"type:text" json:"paid_amount_comment"`
	Status                      BillStatus      `gorm:"size:20;default:UNPAID;index" json:"status"`
	MeterReadingId              int             `gorm:"default:0" json:"meter_reading_id"`
	CreatedAt                   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBill struct {
	TenantId             int             `json:"tenant_id" binding:"required"`
	RoomId               int             `json:"room_id" binding:"required"`
	CurrentMeterReading  int64           `json:"current_meter_reading"`
	AdHocAmount          decimal.Decimal `json:"ad_hoc_amount"`
	AdHocComment         string          `json:"ad_hoc_comment"`
}

// BillCharges is the result of the pure bill computation.
type BillCharges struct {
	UnitsConsumed int64
	Electricity   decimal.Decimal
	Total         decimal.Decimal
}

// ComputeBillCharges derives the electricity charge and the bill total.
// Units are clamped at zero so a current reading below the previous one can
// never produce a negative charge, even if validation was bypassed.
func ComputeBillCharges(previousReading, currentReading int64, rent, water, electricityRate, adHoc decimal.Decimal) BillCharges {
	units := currentReading - previousReading
	if units < 0 {
		units = 0
	}
	electricity := decimal.NewFromInt(units).Mul(electricityRate)
	total := rent.Add(water).Add(electricity).Add(adHoc)
	return BillCharges{
		UnitsConsumed: units,
		Electricity:   electricity,
		Total:         total,
	}
}

// DeriveBillStatus is a pure function of (paid, total).
func DeriveBillStatus(paid, total decimal.Decimal) BillStatus {
	if paid.LessThanOrEqual(decimal.Zero) {
		return BillStatusUnpaid
	}
	if total.Sub(paid).LessThanOrEqual(decimal.Zero) {
		return BillStatusPaid
	}
	return BillStatusPartial
}

func (b *Bill) PendingAmount() decimal.Decimal {
	return b.TotalAmount.Sub(b.PaidAmount)
}

func (input *NewBill) validate(ctx context.Context, ownerId string) error {
	if input.CurrentMeterReading < 0 {
		return errors.New("current reading must be a non-negative integer")
	}
	if input.AdHocAmount.IsNegative() {
		return errors.New("ad-hoc amount cannot be negative")
	}
	if err := utils.ValidateResourceId[Room](ctx, ownerId, input.RoomId); err != nil {
		return errors.New("room not found")
	}
	if err := utils.ValidateResourceId[Tenant](ctx, ownerId, input.TenantId); err != nil {
		return errors.New("tenant not found")
	}
	return nil
}

// CreateBill computes and persists a bill for the room's active tenant and
// appends the new meter reading, both in one transaction so a mid-sequence
// failure can never strand a bill without its reading.
func CreateBill(ctx context.Context, input *NewBill) (*Bill, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	if err := input.validate(ctx, ownerId); err != nil {
		return nil, err
	}

	room, err := utils.FetchModel[Room](ctx, ownerId, input.RoomId)
	if err != nil {
		return nil, errors.New("room not found")
	}
	setting, err := GetSetting(ctx)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, errors.New("utility settings have not been saved yet")
		}
		return nil, err
	}

	db := config.GetDB()
	var bill Bill

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		occupied, err := hasActiveOccupancy(tx, ownerId, input.RoomId, input.TenantId)
		if err != nil {
			return err
		}
		if !occupied {
			return errors.New("room is not currently occupied")
		}

		var previous int64
		prevReading, err := latestMeterReading(tx, ownerId, input.RoomId)
		if err != nil && !errors.Is(err, utils.ErrorRecordNotFound) {
			return err
		}
		if prevReading != nil {
			previous = prevReading.Unit
			if input.CurrentMeterReading < previous {
				return errors.New("current reading must be ≥ previous reading")
			}
		}

		charges := ComputeBillCharges(previous, input.CurrentMeterReading, room.Rent, setting.Water, setting.ElectricityUnit, input.AdHocAmount)

		bill = Bill{
			OwnerId:                   ownerId,
			TenantId:                  input.TenantId,
			RoomId:                    input.RoomId,
			Rent:                      room.Rent,
			Water:                     setting.Water,
			PreviousMonthMeterReading: previous,
			CurrentMonthMeterReading:  input.CurrentMeterReading,
			Electricity:               charges.Electricity,
			AdHocAmount:               input.AdHocAmount,
			AdHocComment:              input.AdHocComment,
			TotalAmount:               charges.Total,
			PaidAmount:                decimal.Zero,
			Status:                    BillStatusUnpaid,
		}
		if err := tx.Create(&bill).Error; err != nil {
			return err
		}

		reading, err := appendMeterReading(tx, ownerId, input.RoomId, input.TenantId, input.CurrentMeterReading)
		if err != nil {
			return err
		}
		if err := tx.Model(&bill).Update("MeterReadingId", reading.ID).Error; err != nil {
			return err
		}
		bill.MeterReadingId = reading.ID

		return QueueBillingEvent(ctx, tx, ownerId, bill.ID, BillingReferenceTypeBill, BillingEventActionCreate, bill)
	})
	if err != nil {
		return nil, err
	}

	return &bill, nil
}

// UpdateBill recomputes an unpaid bill in place. When the bill is the most
// recent one for its room, the meter reading created alongside it is updated
// to the new current value so the next bill's "previous" stays consistent;
// historical bills leave the chain untouched.
func UpdateBill(ctx context.Context, billId int, input *NewBill) (*Bill, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	if err := input.validate(ctx, ownerId); err != nil {
		return nil, err
	}

	bill, err := utils.FetchModel[Bill](ctx, ownerId, billId)
	if err != nil {
		return nil, err
	}
	if !bill.PaidAmount.IsZero() {
		return nil, errors.New("you can edit a bill only when paid amount is 0")
	}

	room, err := utils.FetchModel[Room](ctx, ownerId, input.RoomId)
	if err != nil {
		return nil, errors.New("room not found")
	}
	setting, err := GetSetting(ctx)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, errors.New("utility settings have not been saved yet")
		}
		return nil, err
	}

	db := config.GetDB()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// re-read locked under the transaction so a payment recorded between
		// fetch and update cannot slip past the paid_amount == 0 guard
		var current Bill
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ?", ownerId).First(&current, billId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		if !current.PaidAmount.IsZero() {
			return errors.New("you can edit a bill only when paid amount is 0")
		}

		previous := current.PreviousMonthMeterReading
		if input.CurrentMeterReading < previous {
			return errors.New("current reading must be ≥ previous reading")
		}

		charges := ComputeBillCharges(previous, input.CurrentMeterReading, room.Rent, setting.Water, setting.ElectricityUnit, input.AdHocAmount)

		err := tx.Model(&current).Updates(map[string]interface{}{
			"TenantId":                 input.TenantId,
			"RoomId":                   input.RoomId,
			"Rent":                     room.Rent,
			"Water":                    setting.Water,
			"CurrentMonthMeterReading": input.CurrentMeterReading,
			"Electricity":              charges.Electricity,
			"AdHocAmount":              input.AdHocAmount,
			"AdHocComment":             input.AdHocComment,
			"TotalAmount":              charges.Total,
		}).Error
		if err != nil {
			return err
		}

		// best-effort chain sync: only the latest bill for the room may
		// rewrite its reading
		var newestBillId int
		if err := tx.Model(&Bill{}).
			Where("owner_id = ? AND room_id = ?", ownerId, current.RoomId).
			Order("created_at DESC, id DESC").
			Limit(1).
			Pluck("id", &newestBillId).Error; err != nil {
			return err
		}
		if newestBillId == current.ID && current.MeterReadingId > 0 {
			if err := tx.Model(&MeterReading{}).
				Where("id = ? AND owner_id = ?", current.MeterReadingId, ownerId).
				Update("unit", input.CurrentMeterReading).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("owner_id = ?", ownerId).First(&current, billId).Error; err != nil {
			return err
		}
		bill = &current

		return QueueBillingEvent(ctx, tx, ownerId, current.ID, BillingReferenceTypeBill, BillingEventActionUpdate, current)
	})
	if err != nil {
		return nil, err
	}

	return bill, nil
}

// DeleteBill removes an unpaid bill and its meter reading, restoring the
// chain to the state before the bill was captured. Bills with payments are
// immutable.
func DeleteBill(ctx context.Context, id int) (*Bill, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	bill, err := utils.FetchModel[Bill](ctx, ownerId, id)
	if err != nil {
		return nil, err
	}
	if !bill.PaidAmount.IsZero() {
		return nil, errors.New("you can delete a bill only when paid amount is 0")
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current Bill
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ?", ownerId).First(&current, id).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		if !current.PaidAmount.IsZero() {
			return errors.New("you can delete a bill only when paid amount is 0")
		}
		if err := tx.Where("owner_id = ?", ownerId).Delete(&Bill{}, id).Error; err != nil {
			return err
		}
		if bill.MeterReadingId > 0 {
			if err := tx.Where("owner_id = ?", ownerId).Delete(&MeterReading{}, bill.MeterReadingId).Error; err != nil {
				return err
			}
		}
		return QueueBillingEvent(ctx, tx, ownerId, bill.ID, BillingReferenceTypeBill, BillingEventActionDelete, bill)
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func GetBill(ctx context.Context, id int) (*Bill, error) {
	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}
	return utils.FetchModel[Bill](ctx, ownerId, id)
}

func GetBills(ctx context.Context, status *BillStatus) ([]*Bill, error) {
	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("owner_id = ?", ownerId)
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	var bills []*Bill
	if err := dbCtx.Order("created_at DESC, id DESC").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// BillTotalSummary aggregates the owner's outstanding position.
type BillTotalSummary struct {
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	UnpaidCount      int64           `json:"unpaid_count"`
	PartialCount     int64           `json:"partial_count"`
}

func GetBillTotalSummary(ctx context.Context) (*BillTotalSummary, error) {
	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	db := config.GetDB()
	var summary BillTotalSummary
	err := db.WithContext(ctx).Model(&Bill{}).
		Select("COALESCE(SUM(total_amount), 0) AS total_billed, COALESCE(SUM(paid_amount), 0) AS total_collected, COALESCE(SUM(total_amount - paid_amount), 0) AS total_outstanding").
		Where("owner_id = ?", ownerId).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(&Bill{}).
		Where("owner_id = ? AND status = ?", ownerId, BillStatusUnpaid).
		Count(&summary.UnpaidCount).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Bill{}).
		Where("owner_id = ? AND status = ?", ownerId, BillStatusPartial).
		Count(&summary.PartialCount).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}

func formatPaymentLogLine(at time.Time, method PaymentMethod, amount decimal.Decimal, note string, paid, pending decimal.Decimal) string {
	line := fmt.Sprintf("[%s] %s received %s", at.Format("2006-01-02 15:04"), method, amount)
	if note != "" {
		line += " • " + note
	}
	line += fmt.Sprintf(" (Paid %s, Pending %s)", paid, pending)
	return line
}
