package service

import (
	"context"
	"strings"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

// Repo is the slice of the profile repository the service needs.
type Repo interface {
	Get(ctx context.Context, uid string) (domain.UserProfile, bool, error)
	Ensure(ctx context.Context, uid string) error
	AddFavorite(ctx context.Context, uid, itemID string) error
	RemoveFavorite(ctx context.Context, uid, itemID string) error
	AppendHistory(ctx context.Context, uid, itemID string) error
	SetDisplayName(ctx context.Context, uid, name string) error
}

// Service owns the favorites/history contracts. Mutations are fire and
// forget from the UI's point of view: the visible state updates when the
// live profile subscription echoes the change, never optimistically.
type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{repo: repo}
}

// Profile returns the user's profile, lazily creating it with empty
// containers on first authenticated load.
func (s *Service) Profile(ctx context.Context, uid string) (domain.UserProfile, error) {
	if uid == "" {
		return domain.UserProfile{}, domain.ErrLoginRequired
	}

	p, exists, err := s.repo.Get(ctx, uid)
	if err != nil {
		return domain.UserProfile{}, err
	}
	if !exists {
		if err := s.repo.Ensure(ctx, uid); err != nil {
			return domain.UserProfile{}, err
		}
		return domain.UserProfile{Favorites: []string{}, History: []string{}}, nil
	}
	return p, nil
}

// ToggleFavorite flips itemID in the user's favorites set. An
// unauthenticated caller gets ErrLoginRequired and no write happens; the
// UI turns that into the login overlay. Both directions are idempotent
// set operations, so toggling twice restores the initial state even with
// a concurrent writer on another device.
func (s *Service) ToggleFavorite(ctx context.Context, uid, itemID string) (added bool, err error) {
	if uid == "" {
		return false, domain.ErrLoginRequired
	}
	if strings.TrimSpace(itemID) == "" {
		return false, domain.Invalid("itemId", "must not be empty")
	}

	p, _, err := s.repo.Get(ctx, uid)
	if err != nil {
		return false, err
	}

	if p.HasFavorite(itemID) {
		return false, s.repo.RemoveFavorite(ctx, uid, itemID)
	}
	return true, s.repo.AddFavorite(ctx, uid, itemID)
}

// RecordHistory appends the opened item's id. Opening while signed out
// records nothing and is not an error. Duplicates accumulate on purpose:
// the history is a log of opens, not a set.
func (s *Service) RecordHistory(ctx context.Context, uid, itemID string) error {
	if uid == "" {
		return nil
	}
	if strings.TrimSpace(itemID) == "" {
		return domain.Invalid("itemId", "must not be empty")
	}
	return s.repo.AppendHistory(ctx, uid, itemID)
}

// UpdateDisplayName trims and stores the new display name.
func (s *Service) UpdateDisplayName(ctx context.Context, uid, name string) error {
	if uid == "" {
		return domain.ErrLoginRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Invalid("displayName", "must not be empty")
	}
	return s.repo.SetDisplayName(ctx, uid, name)
}
