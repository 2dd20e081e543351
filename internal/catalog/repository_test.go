package catalog_test

import (
	"context"
	"testing"
	"time"

	db "github.com/fjod/go_storefront/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *db.Repository {
	// Use in-memory database for tests
	repo, err := db.NewRepository(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}

	// Run migrations
	if err := repo.RunMigrations("./migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return repo
}

func TestGetAllProducts_Returns5AfterMigrations(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	products, err := repo.GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 5) // migration seeds 5 products
}

func TestGetAllProducts_WithContext(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*1)
	defer cancel()

	products, err := repo.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)
}

func TestGetProduct_ReturnsProduct(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	product, err := repo.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, 100.0, product.Price)
	assert.Equal(t, "TRY", product.Currency)
	t.Logf("Received product: %+v", *product)
}

func TestGetProduct_IncorrectId(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	product, err := repo.GetProduct(context.Background(), "no-such-id")
	assert.Nil(t, product)
	assert.ErrorIs(t, err, db.ErrProductNotFound)
}
