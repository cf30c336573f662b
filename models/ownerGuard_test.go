package models_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/models"
	"github.com/rentdesk/rentroll_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// The guard plugin is registered in setupTestDB, so these tests exercise the
// same callback chain production uses.

func TestOwnerGuardScopesUnfilteredQueries(t *testing.T) {
	ctxA := setupTestDB(t)
	ctxB := utils.SetOwnerIdInContext(context.Background(), uuid.NewString())

	_, err := models.CreateRoom(ctxA, &models.NewRoom{Name: "101", Rent: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	_, err = models.CreateRoom(ctxB, &models.NewRoom{Name: "201", Rent: decimal.NewFromInt(6000)})
	require.NoError(t, err)

	db := config.GetDB()

	// A Find with no explicit owner filter must still come back scoped.
	var rooms []models.Room
	require.NoError(t, db.WithContext(ctxA).Find(&rooms).Error)
	require.Len(t, rooms, 1)
	require.Equal(t, "101", rooms[0].Name)

	// Without an owner id in context the guard stays out of the way.
	var all []models.Room
	require.NoError(t, db.WithContext(context.Background()).Find(&all).Error)
	require.Len(t, all, 2)
}

func TestOwnerGuardScopesUpdatesAndDeletes(t *testing.T) {
	ctxA := setupTestDB(t)
	ctxB := utils.SetOwnerIdInContext(context.Background(), uuid.NewString())

	roomA, err := models.CreateRoom(ctxA, &models.NewRoom{Name: "101", Rent: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	roomB, err := models.CreateRoom(ctxB, &models.NewRoom{Name: "201", Rent: decimal.NewFromInt(6000)})
	require.NoError(t, err)

	db := config.GetDB()

	// A blanket update under owner A's context must not leak into B's rows.
	err = db.WithContext(ctxA).Model(&models.Room{}).
		Where("rent > ?", 0).
		Update("rent", decimal.NewFromInt(7000)).Error
	require.NoError(t, err)

	fetchedA, err := models.GetRoom(ctxA, roomA.ID)
	require.NoError(t, err)
	require.True(t, fetchedA.Rent.Equal(decimal.NewFromInt(7000)), "rent %s", fetchedA.Rent)

	fetchedB, err := models.GetRoom(ctxB, roomB.ID)
	require.NoError(t, err)
	require.True(t, fetchedB.Rent.Equal(decimal.NewFromInt(6000)), "rent %s", fetchedB.Rent)

	// Deleting B's room by id under A's context is a no-op.
	require.NoError(t, db.WithContext(ctxA).Delete(&models.Room{}, roomB.ID).Error)
	stillThere, err := models.GetRoom(ctxB, roomB.ID)
	require.NoError(t, err)
	require.Equal(t, roomB.ID, stillThere.ID)
}
