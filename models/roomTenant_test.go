package models_test

import (
	"testing"

	"github.com/rentdesk/rentroll_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomRejectsDuplicateName(t *testing.T) {
	ctx := setupTestDB(t)

	_, err := models.CreateRoom(ctx, &models.NewRoom{Name: "101", Rent: decimal.NewFromInt(5000)})
	require.NoError(t, err)

	_, err = models.CreateRoom(ctx, &models.NewRoom{Name: "101", Rent: decimal.NewFromInt(6000)})
	require.Error(t, err)
}

func TestCreateRoomRejectsNegativeRent(t *testing.T) {
	ctx := setupTestDB(t)

	_, err := models.CreateRoom(ctx, &models.NewRoom{Name: "101", Rent: decimal.NewFromInt(-1)})
	require.Error(t, err)
}

func TestUpdateRoomKeepsOwnName(t *testing.T) {
	ctx := setupTestDB(t)

	room, err := models.CreateRoom(ctx, &models.NewRoom{Name: "101", Rent: decimal.NewFromInt(5000)})
	require.NoError(t, err)

	// Updating a room without renaming it must not trip the unique check.
	updated, err := models.UpdateRoom(ctx, room.ID, &models.NewRoom{Name: "101", Rent: decimal.NewFromInt(5500)})
	require.NoError(t, err)
	require.True(t, updated.Rent.Equal(decimal.NewFromInt(5500)))
}

func TestGetRoomsOrderedByName(t *testing.T) {
	ctx := setupTestDB(t)

	for _, name := range []string{"202", "101", "301"} {
		_, err := models.CreateRoom(ctx, &models.NewRoom{Name: name, Rent: decimal.NewFromInt(5000)})
		require.NoError(t, err)
	}

	rooms, err := models.GetRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	require.Equal(t, "101", rooms[0].Name)
	require.Equal(t, "202", rooms[1].Name)
	require.Equal(t, "301", rooms[2].Name)
}

func TestCreateTenantRejectsInvalidMobile(t *testing.T) {
	ctx := setupTestDB(t)

	_, err := models.CreateTenant(ctx, &models.NewTenant{Name: "Ravi", Mobile: "12345"})
	require.Error(t, err)
}

func TestSetTenantDocumentURL(t *testing.T) {
	ctx := setupTestDB(t)

	tenant, err := models.CreateTenant(ctx, &models.NewTenant{Name: "Ravi", Mobile: "+919876543210"})
	require.NoError(t, err)
	require.Empty(t, tenant.DocumentURL(models.TenantDocumentAadhaar))

	updated, err := models.SetTenantDocumentURL(ctx, tenant.ID, models.TenantDocumentAadhaar, "owner/tenants/1/aadhaar.pdf")
	require.NoError(t, err)
	require.Equal(t, "owner/tenants/1/aadhaar.pdf", updated.DocumentURL(models.TenantDocumentAadhaar))

	// Clearing the slot writes an empty URL back.
	cleared, err := models.SetTenantDocumentURL(ctx, tenant.ID, models.TenantDocumentAadhaar, "")
	require.NoError(t, err)
	require.Empty(t, cleared.DocumentURL(models.TenantDocumentAadhaar))
}

func TestTenantDocumentObjectKey(t *testing.T) {
	key := models.TenantDocumentObjectKey("owner-1", 7, models.TenantDocumentPan, ".pdf")
	require.Equal(t, "owner-1/tenants/7/pan.pdf", key)
}
