package models_test

import (
	"testing"

	"github.com/rentdesk/rentroll_backend/models"
	"github.com/rentdesk/rentroll_backend/utils"
	"github.com/stretchr/testify/require"
)

func TestCreateUserAndLogin(t *testing.T) {
	ctx := setupTestDB(t)

	user, err := models.CreateUser(ctx, &models.NewUser{
		Name:     "Demo Owner",
		Email:    "Owner@Example.com",
		Password: "secret-pass-1",
	})
	require.NoError(t, err)
	require.Equal(t, "owner@example.com", user.Email, "email must be normalized")
	require.NotEqual(t, "secret-pass-1", user.Password, "password must be hashed")

	info, err := models.Login(ctx, "owner@example.com", "secret-pass-1")
	require.NoError(t, err)
	require.NotEmpty(t, info.Token)

	token, err := utils.JwtValidate(info.Token)
	require.NoError(t, err)
	claims, ok := token.Claims.(*utils.JwtCustomClaim)
	require.True(t, ok)
	require.Equal(t, user.ID.String(), claims.OwnerId)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	ctx := setupTestDB(t)

	_, err := models.CreateUser(ctx, &models.NewUser{
		Name: "A", Email: "owner@example.com", Password: "secret-pass-1",
	})
	require.NoError(t, err)

	_, err = models.CreateUser(ctx, &models.NewUser{
		Name: "B", Email: "OWNER@example.com", Password: "secret-pass-2",
	})
	require.Error(t, err)
	require.Equal(t, "duplicate email", err.Error())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ctx := setupTestDB(t)

	_, err := models.CreateUser(ctx, &models.NewUser{
		Name: "A", Email: "owner@example.com", Password: "secret-pass-1",
	})
	require.NoError(t, err)

	_, err = models.Login(ctx, "owner@example.com", "wrong-pass")
	require.Error(t, err)

	_, err = models.Login(ctx, "nobody@example.com", "secret-pass-1")
	require.Error(t, err)
}

func TestCreateUserRejectsInvalidEmail(t *testing.T) {
	ctx := setupTestDB(t)

	_, err := models.CreateUser(ctx, &models.NewUser{
		Name: "A", Email: "not-an-email", Password: "secret-pass-1",
	})
	require.Error(t, err)
}
