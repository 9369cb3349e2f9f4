package sync

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
	"github.com/sulaymani-library/go-library-backend/internal/library/store"
)

// ContentSource delivers full snapshots of the content collection. Next
// blocks until the next delivery; after an error or Stop the source is
// finished.
type ContentSource interface {
	Next() ([]domain.ContentItem, error)
	Stop()
}

// CategorySource delivers full snapshots of the categories collection.
type CategorySource interface {
	Next() ([]domain.Category, error)
	Stop()
}

// SettingsSource delivers the settings/general singleton.
type SettingsSource interface {
	Next() (domain.SiteInfo, error)
	Stop()
}

// Sources builds fresh listeners. The mirror asks for a new set on every
// start and retry so a torn-down listener is never reused.
type Sources interface {
	Content(ctx context.Context) ContentSource
	Categories(ctx context.Context) CategorySource
	Settings(ctx context.Context) SettingsSource
}

// NewFirestoreSources returns Sources backed by Firestore snapshot
// listeners. Ordering is part of each query: content by createdAt
// descending, categories by name ascending.
func NewFirestoreSources(client *firestore.Client) Sources {
	return &firestoreSources{client: client}
}

type firestoreSources struct {
	client *firestore.Client
}

func (f *firestoreSources) Content(ctx context.Context) ContentSource {
	it := f.client.Collection(store.ContentCollection).
		OrderBy("createdAt", firestore.Desc).
		Snapshots(ctx)
	return &contentSource{it: it}
}

func (f *firestoreSources) Categories(ctx context.Context) CategorySource {
	it := f.client.Collection(store.CategoriesCollection).
		OrderBy("name", firestore.Asc).
		Snapshots(ctx)
	return &categorySource{it: it}
}

func (f *firestoreSources) Settings(ctx context.Context) SettingsSource {
	it := f.client.Collection(store.SettingsCollection).Doc(store.SettingsDoc).Snapshots(ctx)
	return &settingsSource{it: it}
}

type contentSource struct {
	it *firestore.QuerySnapshotIterator
}

func (s *contentSource) Next() ([]domain.ContentItem, error) {
	snap, err := s.it.Next()
	if err != nil {
		return nil, err
	}

	docs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, err
	}

	items := make([]domain.ContentItem, 0, len(docs))
	for _, doc := range docs {
		var item domain.ContentItem
		if err := doc.DataTo(&item); err != nil {
			return nil, fmt.Errorf("decode content %s: %w", doc.Ref.ID, err)
		}
		item.ID = doc.Ref.ID
		items = append(items, item)
	}
	return items, nil
}

func (s *contentSource) Stop() { s.it.Stop() }

type categorySource struct {
	it *firestore.QuerySnapshotIterator
}

func (s *categorySource) Next() ([]domain.Category, error) {
	snap, err := s.it.Next()
	if err != nil {
		return nil, err
	}

	docs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, err
	}

	cats := make([]domain.Category, 0, len(docs))
	for _, doc := range docs {
		var cat domain.Category
		if err := doc.DataTo(&cat); err != nil {
			return nil, fmt.Errorf("decode category %s: %w", doc.Ref.ID, err)
		}
		cat.ID = doc.Ref.ID
		cats = append(cats, cat)
	}
	return cats, nil
}

func (s *categorySource) Stop() { s.it.Stop() }

type settingsSource struct {
	it *firestore.DocumentSnapshotIterator
}

func (s *settingsSource) Next() (domain.SiteInfo, error) {
	snap, err := s.it.Next()
	// A missing singleton is not an error; it simply has not been
	// created by the admin yet.
	if status.Code(err) == codes.NotFound {
		return domain.SiteInfo{}, nil
	}
	if err != nil {
		return domain.SiteInfo{}, err
	}
	if !snap.Exists() {
		return domain.SiteInfo{}, nil
	}

	var info domain.SiteInfo
	if err := snap.DataTo(&info); err != nil {
		return domain.SiteInfo{}, fmt.Errorf("decode settings: %w", err)
	}
	return info, nil
}

func (s *settingsSource) Stop() { s.it.Stop() }
