package http

import (
	"github.com/sulaymani-library/go-library-backend/internal/library/store"
	"github.com/sulaymani-library/go-library-backend/internal/library/sync"
)

// Handler bundles the dependencies for the library HTTP endpoints: live
// reads come from the mirror, writes go through the Firestore stores.
type Handler struct {
	mirror     *sync.Mirror
	content    *store.ContentStore
	categories *store.CategoryStore
	settings   *store.SettingsStore
}

func New(mirror *sync.Mirror, content *store.ContentStore, categories *store.CategoryStore, settings *store.SettingsStore) *Handler {
	return &Handler{
		mirror:     mirror,
		content:    content,
		categories: categories,
		settings:   settings,
	}
}
