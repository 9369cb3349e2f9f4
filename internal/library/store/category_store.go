package store

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

// CategoryStore manages the categories collection. Subcategory add and
// remove use array-union/array-remove semantics so two admin sessions can
// edit the same category concurrently without clobbering each other.
type CategoryStore struct {
	client *firestore.Client
}

func NewCategoryStore(client *firestore.Client) *CategoryStore {
	return &CategoryStore{client: client}
}

// Create inserts a category with an empty subcategory set.
func (s *CategoryStore) Create(ctx context.Context, name string, ctype domain.ContentType) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "must not be empty")
	}
	if !ctype.Valid() {
		return nil, domain.Invalid("type", fmt.Sprintf("unknown content type %q", ctype))
	}

	cat := domain.Category{
		ID:            uuid.New().String(),
		Name:          name,
		Type:          ctype,
		SubCategories: []string{},
	}
	if _, err := s.client.Collection(CategoriesCollection).Doc(cat.ID).Create(ctx, cat); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &cat, nil
}

// Delete removes a category document. Items still referencing its name
// are left in place; they fall into the catch-all bucket and are flagged
// by the integrity audit.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("id", "must not be empty")
	}
	if _, err := s.client.Collection(CategoriesCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// AddSubcategory appends a subcategory label if absent. Union semantics
// make the operation idempotent; duplicate labels cannot be created.
func (s *CategoryStore) AddSubcategory(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Invalid("subcategory", "must not be empty")
	}

	_, err := s.client.Collection(CategoriesCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "subCategories", Value: firestore.ArrayUnion(name)},
	})
	if status.Code(err) == codes.NotFound {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("add subcategory: %w", err)
	}
	return nil
}

// RemoveSubcategory removes a label by exact, case-sensitive value.
func (s *CategoryStore) RemoveSubcategory(ctx context.Context, id, name string) error {
	if name == "" {
		return domain.Invalid("subcategory", "must not be empty")
	}

	_, err := s.client.Collection(CategoriesCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "subCategories", Value: firestore.ArrayRemove(name)},
	})
	if status.Code(err) == codes.NotFound {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove subcategory: %w", err)
	}
	return nil
}

// Get fetches a single category.
func (s *CategoryStore) Get(ctx context.Context, id string) (*domain.Category, error) {
	doc, err := s.client.Collection(CategoriesCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	var cat domain.Category
	if err := doc.DataTo(&cat); err != nil {
		return nil, fmt.Errorf("decode category %s: %w", doc.Ref.ID, err)
	}
	cat.ID = doc.Ref.ID
	return &cat, nil
}

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	docs, err := s.client.Collection(CategoriesCollection).
		OrderBy("name", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
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
