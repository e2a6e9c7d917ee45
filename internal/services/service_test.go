package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/timatix/autoworks-backend/internal/database"
	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The in-memory database is per-connection, so pin the pool to one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Name:     "Test " + string(role),
		Email:    email,
		Password: "password123",
		Role:     role,
	}
	require.NoError(t, user.HashPassword())
	require.NoError(t, db.Create(user).Error)
	return user
}

func createVehicle(t *testing.T, db *gorm.DB, ownerID uint, plate string) *models.Vehicle {
	t.Helper()

	vehicle := &models.Vehicle{
		Make:         "Toyota",
		VehicleModel: "Corolla",
		Year:         "2018",
		LicensePlate: plate,
		OwnerID:      ownerID,
	}
	require.NoError(t, db.Create(vehicle).Error)
	return vehicle
}

func createCatalogEntry(t *testing.T, db *gorm.DB, name string) *models.ServiceCatalog {
	t.Helper()

	entry := &models.ServiceCatalog{
		Name:                     name,
		BasePrice:                decimal.NewFromInt(500),
		EstimatedDurationMinutes: 60,
		IsActive:                 true,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

// testFixture wires a client, vehicle, catalog entry and an open request.
type testFixture struct {
	client   *models.User
	mechanic *models.User
	vehicle  *models.Vehicle
	entry    *models.ServiceCatalog
	request  *models.ServiceRequest
}

func newFixture(t *testing.T, db *gorm.DB) *testFixture {
	t.Helper()

	client := createUser(t, db, "client@example.com", models.RoleClient)
	mechanic := createUser(t, db, "mechanic@example.com", models.RoleMechanic)
	vehicle := createVehicle(t, db, client.ID, "CA 123-456")
	entry := createCatalogEntry(t, db, "Minor Service")

	svc := NewRequestService(db, nil)
	request, err := svc.Create(CreateRequestInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ServiceID:     entry.ID,
		PreferredDate: time.Now().AddDate(0, 0, 7),
		PreferredTime: "09:00",
		Notes:         "Rattle from front left",
	})
	require.NoError(t, err)

	return &testFixture{
		client:   client,
		mechanic: mechanic,
		vehicle:  vehicle,
		entry:    entry,
		request:  request,
	}
}

// acceptedQuote drives the fixture request through quoting and approval.
func acceptedQuote(t *testing.T, db *gorm.DB, f *testFixture, total string) *models.ServiceQuote {
	t.Helper()

	amount, err := decimal.NewFromString(total)
	require.NoError(t, err)

	svc := NewQuoteService(db, nil)
	quote, err := svc.Create(CreateQuoteInput{
		RequestID:   f.request.ID,
		MechanicID:  f.mechanic.ID,
		TotalAmount: &amount,
	})
	require.NoError(t, err)

	quote, err = svc.Approve(quote.ID)
	require.NoError(t, err)
	return quote
}

func TestCreateUserPersistsOnlyHash(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "thandi@example.com", models.RoleClient)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)

	// The plaintext password is transient; only the hash reaches the table.
	require.Empty(t, reloaded.Password)
	require.NoError(t, reloaded.CheckPassword("password123"))
}

func TestVehiclesWithoutVinDoNotCollide(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner@example.com", models.RoleClient)

	first := createVehicle(t, db, owner.ID, "CA 111-111")
	second := createVehicle(t, db, owner.ID, "CA 222-222")

	require.Nil(t, first.Vin)
	require.Nil(t, second.Vin)
}
