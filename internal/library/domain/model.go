package domain

// ContentType distinguishes the four kinds of published material. It is
// fixed at creation time and decides which optional fields are meaningful.
type ContentType string

const (
	TypeBook  ContentType = "book"
	TypeAudio ContentType = "audio"
	TypeVideo ContentType = "video"
	TypeFatwa ContentType = "fatwa"
)

// Valid reports whether t names a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case TypeBook, TypeAudio, TypeVideo, TypeFatwa:
		return true
	}
	return false
}

// DefaultAuthor is stamped on content created without an explicit author.
const DefaultAuthor = "الشيخ أبي الحسن السليماني"

// UncategorizedBucket is the catch-all subcategory label used when an
// item's subcategory is blank or not declared on its main category.
const UncategorizedBucket = "عام / غير مصنف"

// ContentItem is a single publishable unit: a book, an audio lesson, a
// video, or a fatwa.
type ContentItem struct {
	ID          string      `json:"id" firestore:"-"`
	Title       string      `json:"title" firestore:"title"`
	Author      string      `json:"author" firestore:"author"`
	Description string      `json:"description" firestore:"description"`
	Type        ContentType `json:"type" firestore:"type"`
	CoverImage  string      `json:"coverImage" firestore:"coverImage"`
	SourceURL   string      `json:"sourceUrl" firestore:"sourceUrl"`
	// Duration is display text only ("45:12", "ساعة ونصف"), never parsed.
	Duration     string `json:"duration,omitempty" firestore:"duration,omitempty"`
	MainCategory string `json:"mainCategory" firestore:"mainCategory"`
	SubCategory  string `json:"subCategory" firestore:"subCategory"`
	SeriesTitle  string `json:"seriesTitle,omitempty" firestore:"seriesTitle,omitempty"`
	VolumeNumber int    `json:"volumeNumber,omitempty" firestore:"volumeNumber,omitempty"`
	// CreatedAt is a unix-millisecond timestamp stamped by the store at
	// creation and never updated. It is the sole sort key of the feed.
	CreatedAt int64 `json:"createdAt" firestore:"createdAt"`
}

// Category is an admin-defined grouping of content items of one fixed
// type, optionally partitioned into subcategories.
type Category struct {
	ID            string      `json:"id" firestore:"-"`
	Name          string      `json:"name" firestore:"name"`
	Type          ContentType `json:"type" firestore:"type"`
	SubCategories []string    `json:"subCategories" firestore:"subCategories"`
}

// SiteInfo is the singleton settings/general document.
type SiteInfo struct {
	SiteName        string `json:"siteName,omitempty" firestore:"siteName,omitempty"`
	SiteDescription string `json:"siteDescription,omitempty" firestore:"siteDescription,omitempty"`
	AboutMarib      string `json:"aboutMarib" firestore:"aboutMarib"`
	AboutSheikh     string `json:"aboutSheikh" firestore:"aboutSheikh"`
	MaintenanceMode bool   `json:"maintenanceMode" firestore:"maintenanceMode"`
}

// UserProfile is the per-user document under users/{uid}. Favorites is a
// set of content ids; History is append-only and deliberately allows
// duplicates (each open of an item appends its id again).
type UserProfile struct {
	Favorites   []string `json:"favorites" firestore:"favorites"`
	History     []string `json:"history" firestore:"history"`
	DisplayName string   `json:"displayName,omitempty" firestore:"displayName,omitempty"`
}

// HasFavorite reports whether itemID is in the favorites set.
func (p UserProfile) HasFavorite(itemID string) bool {
	for _, id := range p.Favorites {
		if id == itemID {
			return true
		}
	}
	return false
}
