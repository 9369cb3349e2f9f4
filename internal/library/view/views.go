// Package view derives the browsing views from the synchronized content.
// Everything here is a pure function of its inputs: views are recomputed
// from the latest snapshot, never patched incrementally, so no ordering
// between content and category deliveries can produce a stale view.
package view

import (
	"strings"

	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

// FilterAll selects every content type.
const FilterAll = "all"

// matchesQuery is a case-insensitive substring match on the title only.
// A blank query matches everything.
func matchesQuery(item domain.ContentItem, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), strings.ToLower(query))
}

// FilterContent returns the items matching the active type filter (or
// FilterAll) and the search query. Input order is preserved, so a feed
// sorted newest-first stays newest-first.
func FilterContent(items []domain.ContentItem, filter string, query string) []domain.ContentItem {
	out := make([]domain.ContentItem, 0, len(items))
	for _, item := range items {
		if filter != FilterAll && filter != "" && string(item.Type) != filter {
			continue
		}
		if !matchesQuery(item, query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Bucket is one subcategory group in a category drill-down.
type Bucket struct {
	Name  string               `json:"name"`
	Items []domain.ContentItem `json:"items"`
}

// GroupBySubcategory partitions the items of one main category into
// buckets keyed by that category's declared subcategories, in their
// stored order, with a final catch-all bucket for items whose subcategory
// is blank or undeclared. The search query is applied before bucketing.
// Empty buckets are omitted.
func GroupBySubcategory(items []domain.ContentItem, cats []domain.Category, mainCategory, query string) []Bucket {
	var active *domain.Category
	for i := range cats {
		if cats[i].Name == mainCategory {
			active = &cats[i]
			break
		}
	}

	declared := map[string]int{}
	var buckets []Bucket
	if active != nil {
		buckets = make([]Bucket, 0, len(active.SubCategories)+1)
		for _, sub := range active.SubCategories {
			if _, ok := declared[sub]; ok {
				continue
			}
			declared[sub] = len(buckets)
			buckets = append(buckets, Bucket{Name: sub})
		}
	}

	var others []domain.ContentItem
	for _, item := range items {
		if item.MainCategory != mainCategory || !matchesQuery(item, query) {
			continue
		}
		if idx, ok := declared[item.SubCategory]; ok && item.SubCategory != "" {
			buckets[idx].Items = append(buckets[idx].Items, item)
		} else {
			others = append(others, item)
		}
	}
	if len(others) > 0 {
		buckets = append(buckets, Bucket{Name: domain.UncategorizedBucket, Items: others})
	}

	out := buckets[:0]
	for _, b := range buckets {
		if len(b.Items) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// AdminFilter is the dashboard content table: the "all" tab shows
// everything, a category-name tab restricts to that main category, and the
// quick search applies on top.
func AdminFilter(items []domain.ContentItem, tab AdminTab, query string) []domain.ContentItem {
	out := make([]domain.ContentItem, 0, len(items))
	for _, item := range items {
		if tab != AdminTabAll && tab != AdminTabCategories && tab != AdminTabSettings &&
			item.MainCategory != string(tab) {
			continue
		}
		if !matchesQuery(item, query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// CategoriesForFilter returns the categories visible under the active
// type filter.
func CategoriesForFilter(cats []domain.Category, filter string) []domain.Category {
	if filter == FilterAll || filter == "" {
		return cats
	}
	out := make([]domain.Category, 0, len(cats))
	for _, c := range cats {
		if string(c.Type) == filter {
			out = append(out, c)
		}
	}
	return out
}
