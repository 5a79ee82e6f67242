package offers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	"github.com/artorders/artorders-backend/pkg/pagination"
)

func setupOffersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE users (
		  id TEXT PRIMARY KEY,
		  email TEXT NOT NULL UNIQUE,
		  password_hash TEXT NOT NULL DEFAULT '',
		  first_name TEXT NOT NULL DEFAULT '',
		  last_name TEXT NOT NULL DEFAULT '',
		  phone TEXT,
		  role TEXT NOT NULL DEFAULT 'ARTIST',
		  is_active INTEGER NOT NULL DEFAULT 1,
		  last_login_at DATETIME,
		  created_at DATETIME,
		  updated_at DATETIME
		);`,
		`CREATE TABLE orders (
		  id TEXT PRIMARY KEY,
		  created_by_id TEXT NOT NULL,
		  title TEXT NOT NULL DEFAULT '',
		  description TEXT NOT NULL DEFAULT '',
		  complete_to DATETIME,
		  completed_at DATETIME,
		  views INTEGER NOT NULL DEFAULT 0,
		  accepted_offer_id TEXT,
		  created_at DATETIME,
		  updated_at DATETIME
		);`,
		`CREATE TABLE offers (
		  id TEXT PRIMARY KEY,
		  order_id TEXT NOT NULL,
		  artist_id TEXT NOT NULL,
		  fee NUMERIC NOT NULL DEFAULT 0,
		  accepted_at DATETIME,
		  declined_at DATETIME,
		  changes_requested INTEGER NOT NULL DEFAULT 0,
		  created_at DATETIME,
		  updated_at DATETIME,
		  UNIQUE (order_id, artist_id)
		);`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role enums.Role) models.User {
	t.Helper()
	user := models.User{
		ID:    uuid.New(),
		Email: uuid.NewString() + "@example.com",
		Role:  role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedOrder(t *testing.T, db *gorm.DB, customerID uuid.UUID, title string) models.Order {
	t.Helper()
	order := models.Order{
		ID:          uuid.New(),
		CreatedByID: customerID,
		Title:       title,
		CompleteTo:  time.Now().Add(72 * time.Hour),
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func seedOffer(t *testing.T, db *gorm.DB, orderID, artistID uuid.UUID, acceptedAt, declinedAt *time.Time) models.Offer {
	t.Helper()
	offer := models.Offer{
		ID:         uuid.New(),
		OrderID:    orderID,
		ArtistID:   artistID,
		Fee:        decimal.NewFromInt(100),
		AcceptedAt: acceptedAt,
		DeclinedAt: declinedAt,
	}
	require.NoError(t, db.Create(&offer).Error)
	return offer
}

func TestRepositoryListForArtistExcludesAccepted(t *testing.T) {
	db := setupOffersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customer := seedUser(t, db, enums.RoleCustomer)
	artist := seedUser(t, db, enums.RoleArtist)
	rival := seedUser(t, db, enums.RoleArtist)

	openOrder := seedOrder(t, db, customer.ID, "Portrait")
	wonOrder := seedOrder(t, db, customer.ID, "Mural")
	lostOrder := seedOrder(t, db, customer.ID, "Logo")

	now := time.Now()
	open := seedOffer(t, db, openOrder.ID, artist.ID, nil, nil)
	seedOffer(t, db, wonOrder.ID, artist.ID, &now, nil)
	declined := seedOffer(t, db, lostOrder.ID, artist.ID, nil, &now)
	seedOffer(t, db, openOrder.ID, rival.ID, nil, nil)

	list, err := repo.ListForArtist(ctx, artist.ID, pagination.Params{Limit: 10}, Filters{})
	require.NoError(t, err)
	require.Len(t, list.Offers, 2)

	byID := make(map[uuid.UUID]OfferSummary, len(list.Offers))
	for _, summary := range list.Offers {
		byID[summary.ID] = summary
		assert.NotEqual(t, enums.OfferStateAccepted, summary.State)
	}
	assert.Contains(t, byID, open.ID)
	assert.Contains(t, byID, declined.ID)
}

func TestRepositoryListForCustomerSeesAllStates(t *testing.T) {
	db := setupOffersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customer := seedUser(t, db, enums.RoleCustomer)
	artist := seedUser(t, db, enums.RoleArtist)
	rival := seedUser(t, db, enums.RoleArtist)

	order := seedOrder(t, db, customer.ID, "Portrait")
	now := time.Now()
	seedOffer(t, db, order.ID, artist.ID, &now, nil)
	seedOffer(t, db, order.ID, rival.ID, nil, &now)

	list, err := repo.ListForCustomer(ctx, customer.ID, pagination.Params{Limit: 10}, Filters{})
	require.NoError(t, err)
	assert.Len(t, list.Offers, 2)
}
