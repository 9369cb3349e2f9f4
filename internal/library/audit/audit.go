// Package audit checks the soft reference from content items to category
// names. The store enforces no referential integrity, so deleting a
// category can strand items; those items keep working (they group under
// the catch-all bucket) and this audit makes them visible to the admin.
package audit

import (
	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

// Orphan is a content item whose main category reference is broken.
type Orphan struct {
	Item   domain.ContentItem `json:"item"`
	Reason string             `json:"reason"`
}

const (
	ReasonMissingCategory = "main category does not exist"
	ReasonTypeMismatch    = "category type does not match item type"
)

// Report summarizes one audit pass.
type Report struct {
	Checked int      `json:"checked"`
	Orphans []Orphan `json:"orphans"`
}

// Run scans the content list against the live categories.
func Run(items []domain.ContentItem, cats []domain.Category) Report {
	byName := make(map[string]domain.Category, len(cats))
	for _, cat := range cats {
		byName[cat.Name] = cat
	}

	report := Report{Checked: len(items)}
	for _, item := range items {
		cat, ok := byName[item.MainCategory]
		switch {
		case !ok:
			report.Orphans = append(report.Orphans, Orphan{Item: item, Reason: ReasonMissingCategory})
		case cat.Type != item.Type:
			report.Orphans = append(report.Orphans, Orphan{Item: item, Reason: ReasonTypeMismatch})
		}
	}
	return report
}
