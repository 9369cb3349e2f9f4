package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

// SettingsStore manages the settings/general singleton. The document is
// created on first save and never deleted.
type SettingsStore struct {
	client *firestore.Client
}

func NewSettingsStore(client *firestore.Client) *SettingsStore {
	return &SettingsStore{client: client}
}

// Get returns the current site info. A missing document yields the zero
// value, not an error.
func (s *SettingsStore) Get(ctx context.Context) (domain.SiteInfo, error) {
	doc, err := s.client.Collection(SettingsCollection).Doc(SettingsDoc).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.SiteInfo{}, nil
	}
	if err != nil {
		return domain.SiteInfo{}, fmt.Errorf("get settings: %w", err)
	}

	var info domain.SiteInfo
	if err := doc.DataTo(&info); err != nil {
		return domain.SiteInfo{}, fmt.Errorf("decode settings: %w", err)
	}
	return info, nil
}

// Save merges the given fields onto the singleton, creating it if absent.
// Merge semantics keep fields written by other sessions intact. MergeAll
// requires map data, so the struct is flattened here.
func (s *SettingsStore) Save(ctx context.Context, info domain.SiteInfo) error {
	data := map[string]interface{}{
		"aboutMarib":      info.AboutMarib,
		"aboutSheikh":     info.AboutSheikh,
		"maintenanceMode": info.MaintenanceMode,
	}
	if info.SiteName != "" {
		data["siteName"] = info.SiteName
	}
	if info.SiteDescription != "" {
		data["siteDescription"] = info.SiteDescription
	}

	_, err := s.client.Collection(SettingsCollection).Doc(SettingsDoc).Set(ctx, data, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
