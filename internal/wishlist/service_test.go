package wishlist

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rohanmahajan/furnimart-backend/internal/products"
	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
	pkgerrors "github.com/rohanmahajan/furnimart-backend/pkg/errors"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	productsDDL := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT,
  image TEXT,
  rating REAL,
  brand TEXT,
  colour TEXT,
  material TEXT,
  pack_content TEXT,
  weight TEXT,
  sku TEXT NOT NULL,
  price NUMERIC NOT NULL,
  original_price NUMERIC,
  stock INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	wishlistDDL := `
CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  added_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	require.NoError(t, db.Exec(productsDDL).Error)
	require.NoError(t, db.Exec(wishlistDDL).Error)
	return db
}

func newWishlistService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db), products.NewRepository(db))
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Teak Side Table",
		Category: "Tables",
		SKU:      "FUR-" + uuid.NewString()[:8],
		Price:    decimal.RequireFromString("899.00"),
		Stock:    3,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAddIsIdempotent(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)

	userID := uuid.New()
	product := seedProduct(t, db)

	list, err := svc.Add(context.Background(), userID, product.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = svc.Add(context.Background(), userID, product.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, product.ID, list[0].ProductID)
	require.NotNil(t, list[0].Product)
	assert.Equal(t, "Teak Side Table", list[0].Product.Name)
}

func TestAddUnknownProduct(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRemoveLeavesOtherUsersAlone(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)

	product := seedProduct(t, db)
	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.Add(context.Background(), alice, product.ID)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), bob, product.ID)
	require.NoError(t, err)

	list, err := svc.Remove(context.Background(), alice, product.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	bobList, err := svc.List(context.Background(), bob)
	require.NoError(t, err)
	assert.Len(t, bobList, 1)
}
