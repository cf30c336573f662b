package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/models"
	"github.com/rentdesk/rentroll_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupRouter wires the real routes against a throwaway sqlite database and
// returns a bearer token for a fresh owner.
func setupRouter(t *testing.T) (*gin.Engine, context.Context, string) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Use(config.NewOwnerGuardPlugin()))

	config.SetDB(db)
	models.MigrateTable()

	ownerId := uuid.NewString()
	ctx := utils.SetOwnerIdInContext(context.Background(), ownerId)
	ctx = utils.SetUserNameInContext(ctx, "Test")

	token, err := utils.JwtGenerate(ownerId, "Test")
	require.NoError(t, err)

	r := gin.New()
	registerRoutes(r)
	return r, ctx, token
}

func seedBillOverHTTP(t *testing.T, ctx context.Context) *models.Bill {
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
		RoomId:      room.ID,
		TenantId:    tenant.ID,
		JoiningDate: time.Now(),
	})
	require.NoError(t, err)

	bill, err := models.CreateBill(ctx, &models.NewBill{
		RoomId:              room.ID,
		TenantId:            tenant.ID,
		CurrentMeterReading: 100,
	})
	require.NoError(t, err)
	return bill
}

func doJSON(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecordPaymentEndpointRejectsZeroAmountWithDomainError(t *testing.T) {
	r, ctx, token := setupRouter(t)
	bill := seedBillOverHTTP(t, ctx)

	// A zero amount must reach the domain check, not die in binding.
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/bills/%d/payments", bill.ID), token,
		`{"amount": 0, "method": "CASH"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "payment amount must be greater than zero")

	fetched, err := models.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	require.True(t, fetched.PaidAmount.IsZero(), "paid %s", fetched.PaidAmount)
}

func TestRecordPaymentEndpointHappyPath(t *testing.T) {
	r, ctx, token := setupRouter(t)
	bill := seedBillOverHTTP(t, ctx)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/bills/%d/payments", bill.ID), token,
		`{"amount": 2000, "method": "UPI", "note": "march rent"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"PARTIAL"`)

	fetched, err := models.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	require.True(t, fetched.PaidAmount.Equal(decimal.NewFromInt(2000)), "paid %s", fetched.PaidAmount)
	require.Equal(t, models.BillStatusPartial, fetched.Status)
}

func TestPaymentEndpointRequiresAuth(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/bills/1/payments", "", `{"amount": 100}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
