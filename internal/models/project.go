package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PublishStatus is the lifecycle state shared by projects and blog posts.
type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusPublished PublishStatus = "published"
	StatusArchived  PublishStatus = "archived"
)

// Project represents a portfolio entry.
type Project struct {
	ID              string                      `gorm:"primaryKey;size:36" json:"id"`
	Title           string                      `gorm:"size:100;not null" json:"title"`
	Description     string                      `gorm:"size:500;not null" json:"description"`
	LongDescription string                      `gorm:"type:text" json:"longDescription,omitempty"`
	Tags            datatypes.JSONSlice[string] `json:"tags"`
	Technologies    datatypes.JSONSlice[string] `json:"technologies"`
	GithubURL       *string                     `gorm:"size:500" json:"githubUrl"`
	LiveURL         *string                     `gorm:"size:500" json:"liveUrl"`
	ImageURL        *string                     `gorm:"size:500" json:"imageUrl"`
	Featured        bool                        `gorm:"not null;index:idx_projects_listing,priority:2" json:"featured"`
	Status          PublishStatus               `gorm:"size:20;not null;index:idx_projects_listing,priority:1" json:"status"`
	Views           int64                       `gorm:"not null" json:"views"`
	Likes           int64                       `gorm:"not null" json:"likes"`
	// "order" is a reserved word in SQL, hence the column name.
	Order     int       `gorm:"column:sort_order;not null;index:idx_projects_listing,priority:3" json:"order"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the identifier and fills the defaults a new project starts with.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	p.normalizeSlices()
	return nil
}

// BeforeSave keeps list columns as JSON arrays rather than null.
func (p *Project) BeforeSave(tx *gorm.DB) error {
	p.normalizeSlices()
	return nil
}

func (p *Project) normalizeSlices() {
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
	if p.Technologies == nil {
		p.Technologies = datatypes.JSONSlice[string]{}
	}
}
