package services

import (
	"context"
	"testing"
	"time"

	"rentora-server/models"
	"rentora-server/storage"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMarketplaceIndexTaskMalformedPayload(t *testing.T) {
	handler := handleMarketplaceIndexTask(&SearchService{})

	err := handler(context.Background(), asynq.NewTask(TypeMarketplaceIndex, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestMarketplaceIndexTaskMissingItemIsDropped(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.MarketplaceCategory{}, &models.MarketplaceItem{}))
	storage.DB = db

	// An item deleted between enqueue and processing must not keep retrying.
	handler := handleMarketplaceIndexTask(&SearchService{})
	err := handler(context.Background(), asynq.NewTask(TypeMarketplaceIndex, []byte(`{"itemId":42}`)))
	assert.NoError(t, err)
}

func TestMarketplaceDocumentFields(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := &models.MarketplaceItem{
		Model:        gorm.Model{ID: 7, CreatedAt: created},
		Title:        "Ikea desk",
		Description:  "Barely used",
		City:         "Pokhara",
		Condition:    "GOOD",
		Price:        120,
		IsNegotiable: true,
		Category:     &models.MarketplaceCategory{Name: "Furniture"},
	}

	doc := marketplaceDocument(item)
	assert.Equal(t, "7", doc["id"])
	assert.Equal(t, "Ikea desk", doc["title"])
	assert.Equal(t, "Furniture", doc["category"])
	assert.Equal(t, "GOOD", doc["condition"])
	assert.Equal(t, true, doc["is_negotiable"])
	assert.Equal(t, created.Unix(), doc["created_at"])

	// Category may be absent on a bare load.
	item.Category = nil
	assert.Equal(t, "", marketplaceDocument(item)["category"])
}
