package products

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

	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
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
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, name, category string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: category,
		SKU:      "SKU-" + uuid.NewString()[:8],
		Price:    decimal.NewFromInt(1500),
		Stock:    stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestListFiltersByCategory(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	seedCatalogProduct(t, db, "Oak Dining Table", "Tables", 5)
	seedCatalogProduct(t, db, "Teak Side Table", "Tables", 2)
	seedCatalogProduct(t, db, "Linen Sofa", "Sofas", 1)

	list, err := repo.List(context.Background(), ListFilters{Category: "Tables"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, product := range list {
		assert.Equal(t, "Tables", product.Category)
	}
}

func TestListFiltersByQuery(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	seedCatalogProduct(t, db, "Oak Dining Table", "Tables", 5)
	seedCatalogProduct(t, db, "Linen Sofa", "Sofas", 1)

	list, err := repo.List(context.Background(), ListFilters{Query: "oak"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Oak Dining Table", list[0].Name)
}

func TestFindByIDs(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	first := seedCatalogProduct(t, db, "Oak Dining Table", "Tables", 5)
	second := seedCatalogProduct(t, db, "Linen Sofa", "Sofas", 1)
	seedCatalogProduct(t, db, "Teak Side Table", "Tables", 2)

	list, err := repo.FindByIDs(context.Background(), []uuid.UUID{first.ID, second.ID})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServiceUpdateAppliesPartialEdit(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	product := seedCatalogProduct(t, db, "Oak Dining Table", "Tables", 5)

	newName := "Oak Dining Table XL"
	newStock := 8
	resp, err := svc.Update(context.Background(), product.ID, UpdateProductInput{
		Name:  &newName,
		Stock: &newStock,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, resp.Name)
	assert.Equal(t, 8, resp.Stock)
	assert.Equal(t, "Tables", resp.Category, "unset fields stay untouched")
}

func TestServiceDeleteMissingProduct(t *testing.T) {
	db := setupProductsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
}
