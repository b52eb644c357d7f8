package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultBlogCategory = "general"
	DefaultReadTime     = 5
)

// SEO holds the optional search-engine metadata of a blog post.
type SEO struct {
	MetaTitle       string                      `gorm:"size:200" json:"metaTitle,omitempty"`
	MetaDescription string                      `gorm:"size:500" json:"metaDescription,omitempty"`
	Keywords        datatypes.JSONSlice[string] `json:"keywords,omitempty"`
}

// BlogPost represents an article. The slug is derived from the title once and
// then kept stable even when the title is edited.
type BlogPost struct {
	ID            string                      `gorm:"primaryKey;size:36" json:"id"`
	Title         string                      `gorm:"size:200;not null" json:"title"`
	Slug          string                      `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Excerpt       string                      `gorm:"size:300;not null" json:"excerpt"`
	Content       string                      `gorm:"type:text;not null" json:"content,omitempty"`
	ContentHTML   string                      `gorm:"-" json:"contentHtml,omitempty"`
	Author        string                      `gorm:"size:100" json:"author"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Category      string                      `gorm:"size:100;index" json:"category"`
	FeaturedImage *string                     `gorm:"size:500" json:"featuredImage"`
	Status        PublishStatus               `gorm:"size:20;not null;index:idx_blog_listing,priority:1" json:"status"`
	PublishedAt   *time.Time                  `gorm:"index:idx_blog_listing,priority:2" json:"publishedAt"`
	Views         int64                       `gorm:"not null" json:"views"`
	ReadTime      int                         `gorm:"not null" json:"readTime"`
	SEO           SEO                         `gorm:"embedded;embeddedPrefix:seo_" json:"seo"`
	CreatedAt     time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

// BeforeCreate assigns the identifier and the schema defaults.
func (b *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = StatusDraft
	}
	if b.Category == "" {
		b.Category = DefaultBlogCategory
	}
	if b.ReadTime == 0 {
		b.ReadTime = DefaultReadTime
	}
	if b.Tags == nil {
		b.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}

// BeforeSave keeps the tag column a JSON array rather than null.
func (b *BlogPost) BeforeSave(tx *gorm.DB) error {
	if b.Tags == nil {
		b.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}
