package models_test

import (
	"encoding/json"
	"testing"

	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBillWritesOutboxRowInSameTransaction(t *testing.T) {
	ctx := setupTestDB(t)
	seedSettings(t, ctx, 200, 8)
	room, tenant := seedRoomWithTenant(t, ctx, 5000)

	bill, err := models.CreateBill(ctx, &models.NewBill{RoomId: room.ID, TenantId: tenant.ID, CurrentMeterReading: 100})
	require.NoError(t, err)

	var records []models.OutboxMessageRecord
	require.NoError(t, config.GetDB().Where("reference_type = ?", models.BillingReferenceTypeBill).Find(&records).Error)
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, bill.ID, rec.ReferenceId)
	require.Equal(t, models.BillingEventActionCreate, rec.Action)
	require.Equal(t, models.OutboxPublishStatusPending, rec.PublishStatus)
	require.NotEmpty(t, rec.CorrelationId)

	var payload models.Bill
	require.NoError(t, json.Unmarshal(rec.Payload, &payload))
	require.Equal(t, bill.ID, payload.ID)
	require.True(t, payload.TotalAmount.Equal(decimal.NewFromInt(6000)))
}

func TestRejectedBillLeavesNoOutboxRow(t *testing.T) {
	ctx := setupTestDB(t)
	seedSettings(t, ctx, 200, 8)

	room, err := models.CreateRoom(ctx, &models.NewRoom{Name: "101", Rent: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	tenant, err := models.CreateTenant(ctx, &models.NewTenant{Name: "Ravi", Mobile: "+919876543210"})
	require.NoError(t, err)

	// No occupancy, so the create must fail and roll everything back.
	_, err = models.CreateBill(ctx, &models.NewBill{RoomId: room.ID, TenantId: tenant.ID, CurrentMeterReading: 100})
	require.Error(t, err)

	var count int64
	require.NoError(t, config.GetDB().Model(&models.OutboxMessageRecord{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPaymentOutboxRow(t *testing.T) {
	ctx := setupTestDB(t)
	seedSettings(t, ctx, 200, 8)
	room, tenant := seedRoomWithTenant(t, ctx, 5000)

	bill, err := models.CreateBill(ctx, &models.NewBill{RoomId: room.ID, TenantId: tenant.ID, CurrentMeterReading: 100})
	require.NoError(t, err)

	_, err = models.RecordPayment(ctx, bill.ID, &models.NewBillPayment{
		Amount: decimal.NewFromInt(2000),
		Method: "UPI",
	})
	require.NoError(t, err)

	var records []models.OutboxMessageRecord
	require.NoError(t, config.GetDB().Where("reference_type = ?", models.BillingReferenceTypeBillPayment).Find(&records).Error)
	require.Len(t, records, 1)
	require.Equal(t, models.BillingEventActionCreate, records[0].Action)
}
