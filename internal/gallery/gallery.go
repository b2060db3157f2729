// Package gallery stores the storefront's media slots. Uploads live on
// the CDN; only the metadata (URL, kind, title) is kept here, in the
// same local store as the cart. When the store hits its quota the
// oldest entries are evicted and the write retried once; media is the
// one place where losing old data beats failing the new write.
package gallery

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/storage"

	"github.com/google/uuid"
)

const storageKey = "gallery"

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

type Item struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	logger *slog.Logger
	store  *storage.Store
}

func NewService(logger *slog.Logger, store *storage.Store) *Service {
	return &Service{
		logger: logger.With(slog.String("service", "gallery")),
		store:  store,
	}
}

// Add appends a media item. On quota overflow the oldest item is
// evicted and the write retried once; a second failure propagates.
func (s *Service) Add(url string, kind Kind, title string) (Item, error) {
	items, err := s.load()
	if err != nil {
		return Item{}, err
	}

	item := Item{
		ID:        uuid.NewString(),
		URL:       url,
		Kind:      kind,
		Title:     title,
		CreatedAt: time.Now(),
	}
	items = append(items, item)

	err = s.store.Set(storageKey, items, 0)
	if errors.Is(err, storage.ErrQuotaExceeded) && len(items) > 1 {
		s.logger.Warn("gallery quota exceeded, evicting oldest item")
		items = items[1:]
		err = s.store.Set(storageKey, items, 0)
	}
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// List returns items newest first.
func (s *Service) List() ([]Item, error) {
	items, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Service) Remove(id string) error {
	items, err := s.load()
	if err != nil {
		return err
	}
	for i, it := range items {
		if it.ID == id {
			items = append(items[:i], items[i+1:]...)
			return s.store.Set(storageKey, items, 0)
		}
	}
	return nil
}

// load returns items oldest first (insertion order).
func (s *Service) load() ([]Item, error) {
	var items []Item
	if _, err := s.store.Get(storageKey, &items); err != nil {
		return nil, err
	}
	return items, nil
}
