package reports_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/models"
	"github.com/rentdesk/rentroll_backend/models/reports"
	"github.com/rentdesk/rentroll_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupReportDB(t *testing.T) context.Context {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	config.SetDB(db)
	models.MigrateTable()

	return utils.SetOwnerIdInContext(context.Background(), uuid.NewString())
}

func seedBilledRoom(t *testing.T, ctx context.Context) {
	t.Helper()

	_, err := models.SaveSetting(ctx, &models.NewSetting{
		Water:           decimal.NewFromInt(200),
		ElectricityUnit: decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	room, err := models.CreateRoom(ctx, &models.NewRoom{Name: "101", Rent: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	tenant, err := models.CreateTenant(ctx, &models.NewTenant{Name: "Ravi Kumar", Mobile: "+919876543210"})
	require.NoError(t, err)
	_, err = models.AssignTenant(ctx, &models.NewOccupancy{
		RoomId: room.ID, TenantId: tenant.ID, JoiningDate: time.Now(),
	})
	require.NoError(t, err)

	bill, err := models.CreateBill(ctx, &models.NewBill{
		RoomId: room.ID, TenantId: tenant.ID, CurrentMeterReading: 100,
	})
	require.NoError(t, err)

	_, err = models.RecordPayment(ctx, bill.ID, &models.NewBillPayment{
		Amount: decimal.NewFromInt(2000),
		Method: "UPI",
	})
	require.NoError(t, err)
}

func TestGetRentRollReport(t *testing.T) {
	ctx := setupReportDB(t)
	seedBilledRoom(t, ctx)

	rows, err := reports.GetRentRollReport(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.Equal(t, "101", utils.DereferencePtr(row.RoomName, ""))
	require.Equal(t, "Ravi Kumar", utils.DereferencePtr(row.TenantName, ""))
	require.True(t, row.TotalAmount.Equal(decimal.NewFromInt(6000)), "total %s", row.TotalAmount)
	require.True(t, row.PaidAmount.Equal(decimal.NewFromInt(2000)))
	require.True(t, row.Pending.Equal(decimal.NewFromInt(4000)))
	require.Equal(t, string(models.BillStatusPartial), row.Status)
}

func TestGetRentRollReportScopedToOwner(t *testing.T) {
	ctx := setupReportDB(t)
	seedBilledRoom(t, ctx)

	other := utils.SetOwnerIdInContext(context.Background(), uuid.NewString())
	rows, err := reports.GetRentRollReport(other)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestWriteRentRollExcel(t *testing.T) {
	ctx := setupReportDB(t)
	seedBilledRoom(t, ctx)

	var buf bytes.Buffer
	require.NoError(t, reports.WriteRentRollExcel(ctx, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	roomCell, err := f.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	require.Equal(t, "101", roomCell)

	statusCell, err := f.GetCellValue("Sheet1", "K2")
	require.NoError(t, err)
	require.Equal(t, "PARTIAL", statusCell)
}
