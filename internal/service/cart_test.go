package service_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/service"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "store.json"), 1<<20)
	require.NoError(t, err)
	return store
}

var giftBox = entities.Product{
	ID:       "p1",
	Name:     "Caja de regalo",
	Price:    89000,
	Images:   []string{"https://cdn.example.com/p1.jpg"},
	Category: "regalos",
}

var flowers = entities.Product{
	ID:    "p2",
	Name:  "Ramo de rosas",
	Price: 45000,
}

func TestCartService_AddItem(t *testing.T) {
	cart := service.NewCartService(newTestLogger(), newTestStore(t), time.Hour)

	items := cart.AddItem(giftBox)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "$89.000", items[0].PriceText)
	assert.Equal(t, "https://cdn.example.com/p1.jpg", items[0].Image)

	// same product bumps quantity instead of adding a line
	items = cart.AddItem(giftBox)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	items = cart.AddItem(flowers)
	require.Len(t, items, 2)
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCartService_UpdateQuantity(t *testing.T) {
	cart := service.NewCartService(newTestLogger(), newTestStore(t), time.Hour)
	cart.AddItem(giftBox)
	cart.AddItem(flowers)

	items := cart.UpdateQuantity("p1", 5)
	assert.Equal(t, 5, items[0].Quantity)

	// zero removes the line
	items = cart.UpdateQuantity("p1", 0)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	// negative behaves the same
	items = cart.UpdateQuantity("p2", -3)
	assert.Empty(t, items)

	// unknown id is a no-op
	items = cart.UpdateQuantity("nope", 2)
	assert.Empty(t, items)
}

func TestCartService_Total(t *testing.T) {
	cart := service.NewCartService(newTestLogger(), newTestStore(t), time.Hour)
	assert.Equal(t, float64(0), cart.Total())

	cart.AddItem(giftBox)
	cart.AddItem(giftBox)
	cart.AddItem(flowers)

	// totals come from re-parsing the display prices
	assert.Equal(t, float64(2*89000+45000), cart.Total())
}

func TestCartService_Snapshot(t *testing.T) {
	cart := service.NewCartService(newTestLogger(), newTestStore(t), time.Hour)
	cart.AddItem(giftBox)

	snap := cart.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, float64(89000), snap[0].Price)
	assert.Equal(t, "Caja de regalo", snap[0].Name)

	// the snapshot is by value, later cart changes must not leak in
	cart.Clear()
	assert.Len(t, snap, 1)
	assert.Empty(t, cart.Items())
}

func TestCartService_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := storage.New(path, 1<<20)
	require.NoError(t, err)

	cart := service.NewCartService(newTestLogger(), store, time.Hour)
	cart.AddItem(giftBox)
	cart.AddItem(giftBox)

	// a fresh store over the same file sees the committed cart
	store2, err := storage.New(path, 1<<20)
	require.NoError(t, err)

	restored := service.NewCartService(newTestLogger(), store2, time.Hour)
	items := restored.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "$89.000", items[0].PriceText)
}
