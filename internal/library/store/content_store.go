package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

// Firestore collection and document names shared by the stores and the
// content mirror.
const (
	ContentCollection    = "content"
	CategoriesCollection = "categories"
	SettingsCollection   = "settings"
	SettingsDoc          = "general"
	UsersCollection      = "users"
)

// ContentStore provides admin write operations and one-shot reads for the
// content collection. Live reads go through the sync mirror instead.
type ContentStore struct {
	client *firestore.Client
}

func NewContentStore(client *firestore.Client) *ContentStore {
	return &ContentStore{client: client}
}

// ContentInput carries the logical fields an admin may set. CreatedAt is
// deliberately absent: the store stamps it and never accepts a client
// supplied value.
type ContentInput struct {
	Title        string             `json:"title"`
	Author       string             `json:"author"`
	Description  string             `json:"description"`
	Type         domain.ContentType `json:"type"`
	CoverImage   string             `json:"coverImage"`
	SourceURL    string             `json:"sourceUrl"`
	Duration     string             `json:"duration"`
	MainCategory string             `json:"mainCategory"`
	SubCategory  string             `json:"subCategory"`
	SeriesTitle  string             `json:"seriesTitle"`
	VolumeNumber int                `json:"volumeNumber"`
}

func (in *ContentInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Invalid("title", "must not be empty")
	}
	if strings.TrimSpace(in.MainCategory) == "" {
		return domain.Invalid("mainCategory", "must not be empty")
	}
	if !in.Type.Valid() {
		return domain.Invalid("type", fmt.Sprintf("unknown content type %q", in.Type))
	}
	return nil
}

// Create validates and inserts a new content item, stamping CreatedAt
// with the current time.
func (s *ContentStore) Create(ctx context.Context, in ContentInput) (*domain.ContentItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	item := domain.ContentItem{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(in.Title),
		Author:       strings.TrimSpace(in.Author),
		Description:  in.Description,
		Type:         in.Type,
		CoverImage:   in.CoverImage,
		SourceURL:    in.SourceURL,
		Duration:     in.Duration,
		MainCategory: strings.TrimSpace(in.MainCategory),
		SubCategory:  strings.TrimSpace(in.SubCategory),
		SeriesTitle:  strings.TrimSpace(in.SeriesTitle),
		VolumeNumber: in.VolumeNumber,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if item.Author == "" {
		item.Author = domain.DefaultAuthor
	}
	if item.VolumeNumber == 0 {
		item.VolumeNumber = 1
	}

	if _, err := s.client.Collection(ContentCollection).Doc(item.ID).Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return &item, nil
}

// Update merges the logical fields onto an existing document. CreatedAt
// is never touched.
func (s *ContentStore) Update(ctx context.Context, id string, in ContentInput) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("id", "must not be empty")
	}
	if err := in.validate(); err != nil {
		return err
	}

	updates := []firestore.Update{
		{Path: "title", Value: strings.TrimSpace(in.Title)},
		{Path: "author", Value: strings.TrimSpace(in.Author)},
		{Path: "description", Value: in.Description},
		{Path: "type", Value: in.Type},
		{Path: "coverImage", Value: in.CoverImage},
		{Path: "sourceUrl", Value: in.SourceURL},
		{Path: "duration", Value: in.Duration},
		{Path: "mainCategory", Value: strings.TrimSpace(in.MainCategory)},
		{Path: "subCategory", Value: strings.TrimSpace(in.SubCategory)},
		{Path: "seriesTitle", Value: strings.TrimSpace(in.SeriesTitle)},
		{Path: "volumeNumber", Value: in.VolumeNumber},
	}

	_, err := s.client.Collection(ContentCollection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// Delete removes a content item.
func (s *ContentStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("id", "must not be empty")
	}
	if _, err := s.client.Collection(ContentCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// Get fetches a single content item.
func (s *ContentStore) Get(ctx context.Context, id string) (*domain.ContentItem, error) {
	doc, err := s.client.Collection(ContentCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}

	var item domain.ContentItem
	if err := doc.DataTo(&item); err != nil {
		return nil, fmt.Errorf("decode content %s: %w", doc.Ref.ID, err)
	}
	item.ID = doc.Ref.ID
	return &item, nil
}

// List returns the full feed ordered by creation time, newest first. The
// ordering comes from the query itself, matching the mirror's listener.
func (s *ContentStore) List(ctx context.Context) ([]domain.ContentItem, error) {
	docs, err := s.client.Collection(ContentCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
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
