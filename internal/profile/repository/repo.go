package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
	"github.com/sulaymani-library/go-library-backend/internal/library/store"
)

// Repo manages the per-user documents under users/{uid}. Favorite
// mutations are commutative array-union/array-remove merges so two
// devices of the same user can write concurrently without a transaction.
type Repo struct {
	client *firestore.Client
}

func NewRepo(client *firestore.Client) *Repo {
	return &Repo{client: client}
}

func (r *Repo) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(store.UsersCollection).Doc(uid)
}

// Get fetches the profile; the second return reports whether the
// document exists yet.
func (r *Repo) Get(ctx context.Context, uid string) (domain.UserProfile, bool, error) {
	snap, err := r.doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.UserProfile{}, false, nil
	}
	if err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("get profile: %w", err)
	}

	var p domain.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return p, true, nil
}

// Ensure lazily creates the profile with empty containers on first
// authenticated load. Existing documents are left untouched.
func (r *Repo) Ensure(ctx context.Context, uid string) error {
	_, exists, err := r.Get(ctx, uid)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = r.doc(uid).Set(ctx, map[string]interface{}{
		"favorites": []string{},
		"history":   []string{},
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("init profile: %w", err)
	}
	return nil
}

// AddFavorite adds itemID to the favorites set. Union semantics make a
// repeated add a no-op.
func (r *Repo) AddFavorite(ctx context.Context, uid, itemID string) error {
	_, err := r.doc(uid).Set(ctx, map[string]interface{}{
		"favorites": firestore.ArrayUnion(itemID),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes itemID from the favorites set; removing an
// absent id is a no-op.
func (r *Repo) RemoveFavorite(ctx context.Context, uid, itemID string) error {
	_, err := r.doc(uid).Set(ctx, map[string]interface{}{
		"favorites": firestore.ArrayRemove(itemID),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// AppendHistory appends itemID to the history list. History is a true
// append: opening the same item twice records it twice, so the write is a
// transaction rather than an array union.
func (r *Repo) AppendHistory(ctx context.Context, uid, itemID string) error {
	ref := r.doc(uid)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var history []string
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil {
			var p domain.UserProfile
			if err := snap.DataTo(&p); err != nil {
				return err
			}
			history = p.History
		}

		return tx.Set(ref, map[string]interface{}{
			"history": append(history, itemID),
		}, firestore.MergeAll)
	})
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// SetDisplayName merges the display name onto the profile.
func (r *Repo) SetDisplayName(ctx context.Context, uid, name string) error {
	_, err := r.doc(uid).Set(ctx, map[string]interface{}{
		"displayName": name,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("set display name: %w", err)
	}
	return nil
}

// Watch returns a listener over the user's profile document. The caller
// must Stop it on teardown.
func (r *Repo) Watch(ctx context.Context, uid string) *Watcher {
	return &Watcher{it: r.doc(uid).Snapshots(ctx)}
}

// Watcher delivers profile snapshots. A missing document yields the zero
// profile with exists=false; the caller decides whether to lazily
// initialize it.
type Watcher struct {
	it *firestore.DocumentSnapshotIterator
}

func (w *Watcher) Next() (domain.UserProfile, bool, error) {
	snap, err := w.it.Next()
	if status.Code(err) == codes.NotFound {
		return domain.UserProfile{}, false, nil
	}
	if err != nil {
		return domain.UserProfile{}, false, err
	}
	if !snap.Exists() {
		return domain.UserProfile{}, false, nil
	}

	var p domain.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return p, true, nil
}

func (w *Watcher) Stop() { w.it.Stop() }
