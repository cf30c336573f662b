// seed-demo creates a demo owner account with a few rooms, tenants and
// utility settings for local development.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/models"
	"github.com/rentdesk/rentroll_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@rentdesk.local"
	demoPassword = "demo-pass-123"
	demoName     = "Demo Owner"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	var owner models.User
	err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", demoEmail).First(&owner).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup demo owner: %v\n", err)
			os.Exit(1)
		}
		created, err := models.CreateUser(ctx, &models.NewUser{
			Name:     demoName,
			Email:    demoEmail,
			Password: demoPassword,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create demo owner: %v\n", err)
			os.Exit(1)
		}
		owner = *created
		fmt.Printf("Created demo owner: %s / %s\n", demoEmail, demoPassword)
	} else {
		fmt.Printf("Demo owner already exists: %s\n", demoEmail)
	}

	ctx = utils.SetOwnerIdInContext(ctx, owner.ID.String())
	ctx = utils.SetUserNameInContext(ctx, "Seed")

	if _, err := models.SaveSetting(ctx, &models.NewSetting{
		Water:           decimal.NewFromInt(200),
		ElectricityUnit: decimal.NewFromInt(8),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save settings: %v\n", err)
		os.Exit(1)
	}

	rooms := []models.NewRoom{
		{Name: "101", Rent: decimal.NewFromInt(5000), Deposit: decimal.NewFromInt(10000)},
		{Name: "102", Rent: decimal.NewFromInt(5500), Deposit: decimal.NewFromInt(11000)},
		{Name: "201", Rent: decimal.NewFromInt(6000), Deposit: decimal.NewFromInt(12000)},
	}
	roomIds := make([]int, 0, len(rooms))
	for _, r := range rooms {
		room, err := models.CreateRoom(ctx, &r)
		if err != nil {
			// re-running against an existing DB hits the unique name check
			fmt.Printf("room %s: %v\n", r.Name, err)
			continue
		}
		roomIds = append(roomIds, room.ID)
		fmt.Printf("Created room %s (id=%d)\n", room.Name, room.ID)
	}

	tenants := []models.NewTenant{
		{Name: "Ravi Kumar", Mobile: "+919876543210", FamilyMemberCount: 3, Address: "14 MG Road"},
		{Name: "Anita Sharma", Mobile: "+919812345678", FamilyMemberCount: 2, Company: "Acme Traders"},
	}
	tenantIds := make([]int, 0, len(tenants))
	for _, t := range tenants {
		tenant, err := models.CreateTenant(ctx, &t)
		if err != nil {
			fmt.Printf("tenant %s: %v\n", t.Name, err)
			continue
		}
		tenantIds = append(tenantIds, tenant.ID)
		fmt.Printf("Created tenant %s (id=%d)\n", tenant.Name, tenant.ID)
	}

	for i := 0; i < len(roomIds) && i < len(tenantIds); i++ {
		occupancy, err := models.AssignTenant(ctx, &models.NewOccupancy{
			RoomId:      roomIds[i],
			TenantId:    tenantIds[i],
			JoiningDate: time.Now(),
		})
		if err != nil {
			fmt.Printf("occupancy room=%d tenant=%d: %v\n", roomIds[i], tenantIds[i], err)
			continue
		}
		fmt.Printf("Assigned tenant %d to room %d (occupancy id=%d)\n", tenantIds[i], roomIds[i], occupancy.ID)
	}

	fmt.Println("Seed complete")
}
