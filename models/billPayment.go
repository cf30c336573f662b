package models

import (
	"context"
	"errors"
	"time"

	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillPayment is one received payment against a bill. Rows are append-only;
// correcting a mistaken payment means deleting the bill's history is not an
// option, so the bill aggregate plus its text log stay the audit trail.
type BillPayment struct {
	ID        int             `gorm:"primary_key" json:"id"`
	OwnerId   string          `gorm:"index;not null" json:"owner_id"`
	BillId    int             `gorm:"index;not null" json:"bill_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Method    PaymentMethod   `gorm:"size:20;default:CASH" json:"method"`
	Note      string          `gorm:"size:255" json:"note"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewBillPayment struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Note   string          `json:"note"`
}

// RecordPayment applies a payment to a bill: one new payment row, the bill's
// cached aggregates moved forward, a line appended to the text log, all in
// one transaction. Overpaying the pending amount is rejected rather than
// carried as credit.
func RecordPayment(ctx context.Context, billId int, input *NewBillPayment) (*Bill, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	method, err := ParsePaymentMethod(input.Method)
	if err != nil {
		return nil, err
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("payment amount must be greater than zero")
	}

	db := config.GetDB()
	var bill Bill

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the row so two concurrent payments cannot both read the same
		// paid_amount and overshoot the total.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ?", ownerId).First(&bill, billId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		if bill.Status == BillStatusPaid {
			return errors.New("bill is already paid")
		}
		pending := bill.PendingAmount()
		if input.Amount.GreaterThan(pending) {
			return errors.New("payment amount cannot exceed pending amount")
		}

		payment := BillPayment{
			OwnerId: ownerId,
			BillId:  bill.ID,
			Amount:  input.Amount,
			Method:  method,
			Note:    input.Note,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		newPaid := bill.PaidAmount.Add(input.Amount)
		newPending := bill.TotalAmount.Sub(newPaid)
		newStatus := DeriveBillStatus(newPaid, bill.TotalAmount)

		logLine := formatPaymentLogLine(payment.CreatedAt, method, input.Amount, input.Note, newPaid, newPending)
		comment := bill.PaidAmountComment
		if comment != "" {
			comment += "\n"
		}
		comment += logLine

		err := tx.Model(&bill).Updates(map[string]interface{}{
			"PaidAmount":        newPaid,
			"PaidAmountComment": comment,
			"Status":            newStatus,
		}).Error
		if err != nil {
			return err
		}
		bill.PaidAmount = newPaid
		bill.PaidAmountComment = comment
		bill.Status = newStatus

		return QueueBillingEvent(ctx, tx, ownerId, payment.ID, BillingReferenceTypeBillPayment, BillingEventActionCreate, payment)
	})
	if err != nil {
		return nil, err
	}

	return &bill, nil
}

func GetBillPayments(ctx context.Context, billId int) ([]*BillPayment, error) {
	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}
	if err := utils.ValidateResourceId[Bill](ctx, ownerId, billId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var payments []*BillPayment
	err := db.WithContext(ctx).
		Where("owner_id = ? AND bill_id = ?", ownerId, billId).
		Order("created_at ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
