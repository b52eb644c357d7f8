package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactStatus is the processing state of a contact form submission.
type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

// Contact represents a message submitted through the contact form.
// Records are created on submission and afterwards only change status.
type Contact struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	Name      string        `gorm:"size:100;not null" json:"name"`
	Email     string        `gorm:"size:254;not null;index" json:"email"`
	Subject   string        `gorm:"size:200;not null" json:"subject"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	IPAddress string        `gorm:"size:64" json:"ipAddress"`
	UserAgent string        `gorm:"size:512" json:"userAgent"`
	Status    ContactStatus `gorm:"size:20;not null;index" json:"status"`
	RepliedAt *time.Time    `json:"repliedAt"`
	CreatedAt time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// BeforeCreate assigns the identifier and the initial status.
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = ContactPending
	}
	return nil
}

// ContactDigest is the projection of a contact shown on the admin dashboard.
type ContactDigest struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}
