package models_test

import (
	"sync"
	"testing"
	"time"

	"github.com/rentdesk/rentroll_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAssignTenantRejectsSecondActiveOccupancy(t *testing.T) {
	ctx := setupTestDB(t)

	room, err := models.CreateRoom(ctx, &models.NewRoom{Name: "201", Rent: decimal.NewFromInt(6000)})
	require.NoError(t, err)
	first, err := models.CreateTenant(ctx, &models.NewTenant{Name: "Ravi", Mobile: "+919876543210"})
	require.NoError(t, err)
	second, err := models.CreateTenant(ctx, &models.NewTenant{Name: "Anita", Mobile: "+919812345678"})
	require.NoError(t, err)

	_, err = models.AssignTenant(ctx, &models.NewOccupancy{
		RoomId: room.ID, TenantId: first.ID, JoiningDate: time.Now(),
	})
	require.NoError(t, err)

	_, err = models.AssignTenant(ctx, &models.NewOccupancy{
		RoomId: room.ID, TenantId: second.ID, JoiningDate: time.Now(),
	})
	require.Error(t, err)
	require.Equal(t, "room already occupied", err.Error())
}

func TestVacateThenReassign(t *testing.T) {
	ctx := setupTestDB(t)

	room, err := models.CreateRoom(ctx, &models.NewRoom{Name: "202", Rent: decimal.NewFromInt(6000)})
	require.NoError(t, err)
	first, err := models.CreateTenant(ctx, &models.NewTenant{Name: "Ravi", Mobile: "+919876543210"})
	require.NoError(t, err)
	second, err := models.CreateTenant(ctx, &models.NewTenant{Name: "Anita", Mobile: "+919812345678"})
	require.NoError(t, err)

	occupancy, err := models.AssignTenant(ctx, &models.NewOccupancy{
		RoomId: room.ID, TenantId: first.ID, JoiningDate: time.Now(),
	})
	require.NoError(t, err)

	vacated, err := models.VacateOccupancy(ctx, occupancy.ID)
	require.NoError(t, err)
	require.NotNil(t, vacated.LeavingDate)

	// Vacating twice is rejected.
	_, err = models.VacateOccupancy(ctx, occupancy.ID)
	require.Error(t, err)
	require.Equal(t, "occupancy is already vacated", err.Error())

	// The room is free again for the next tenant.
	_, err = models.AssignTenant(ctx, &models.NewOccupancy{
		RoomId: room.ID, TenantId: second.ID, JoiningDate: time.Now(),
	})
	require.NoError(t, err)

	history, err := models.GetRoomHistory(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestConcurrentAssignOnlyOneWins(t *testing.T) {
	ctx := setupTestDB(t)

	room, err := models.CreateRoom(ctx, &models.NewRoom{Name: "203", Rent: decimal.NewFromInt(6000)})
	require.NoError(t, err)

	tenants := make([]*models.Tenant, 4)
	mobiles := []string{"+919000000001", "+919000000002", "+919000000003", "+919000000004"}
	for i := range tenants {
		tenant, err := models.CreateTenant(ctx, &models.NewTenant{Name: "T", Mobile: mobiles[i]})
		require.NoError(t, err)
		tenants[i] = tenant
	}

	var wg sync.WaitGroup
	errs := make([]error, len(tenants))
	for i := range tenants {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = models.AssignTenant(ctx, &models.NewOccupancy{
				RoomId: room.ID, TenantId: tenants[i].ID, JoiningDate: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			require.Equal(t, "room already occupied", err.Error())
		}
	}
	require.Equal(t, 1, wins)
}

func TestVacateDoesNotTouchOtherRooms(t *testing.T) {
	ctx := setupTestDB(t)

	roomA, err := models.CreateRoom(ctx, &models.NewRoom{Name: "A", Rent: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	roomB, err := models.CreateRoom(ctx, &models.NewRoom{Name: "B", Rent: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	tenant, err := models.CreateTenant(ctx, &models.NewTenant{Name: "Ravi", Mobile: "+919876543210"})
	require.NoError(t, err)

	occA, err := models.AssignTenant(ctx, &models.NewOccupancy{RoomId: roomA.ID, TenantId: tenant.ID, JoiningDate: time.Now()})
	require.NoError(t, err)
	_, err = models.AssignTenant(ctx, &models.NewOccupancy{RoomId: roomB.ID, TenantId: tenant.ID, JoiningDate: time.Now()})
	require.NoError(t, err)

	_, err = models.VacateOccupancy(ctx, occA.ID)
	require.NoError(t, err)

	active, err := models.GetActiveOccupancies(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, roomB.ID, active[0].RoomId)
}
