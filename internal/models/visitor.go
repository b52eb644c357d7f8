package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Device categories a user agent resolves to.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceUnknown = "unknown"
)

// Visitor represents one tracked page view (or unload beacon).
type Visitor struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	IPAddress string  `gorm:"size:64;not null;index;index:idx_visitors_ip_created,priority:1" json:"ipAddress"`
	UserAgent string  `gorm:"size:512" json:"userAgent"`
	Referrer  *string `gorm:"size:1000" json:"referrer"`
	// Country and City stay empty unless a GeoIP database is configured.
	Country        *string   `gorm:"size:100" json:"country"`
	City           *string   `gorm:"size:100" json:"city"`
	Device         string    `gorm:"size:20;not null" json:"device"`
	Browser        string    `gorm:"size:50" json:"browser"`
	BrowserVersion string    `gorm:"size:50" json:"browserVersion,omitempty"`
	OS             string    `gorm:"size:50" json:"os"`
	OSVersion      string    `gorm:"size:50" json:"osVersion,omitempty"`
	IsBot          bool      `gorm:"not null" json:"isBot"`
	Page           string    `gorm:"size:500;not null" json:"page"`
	SessionID      string    `gorm:"size:100;index" json:"sessionId"`
	Duration       int       `gorm:"not null" json:"duration"`
	IsReturning    bool      `gorm:"not null" json:"isReturning"`
	CreatedAt      time.Time `gorm:"index;index:idx_visitors_ip_created,priority:2" json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the identifier and the defaults of a fresh page view.
func (v *Visitor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Device == "" {
		v.Device = DeviceUnknown
	}
	if v.Page == "" {
		v.Page = "/"
	}
	return nil
}

// VisitorDigest is the projection of a visitor used by the summary and the dashboard.
type VisitorDigest struct {
	ID        string    `json:"id"`
	IPAddress string    `json:"ipAddress"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os,omitempty"`
	Page      string    `json:"page"`
	CreatedAt time.Time `json:"createdAt"`
}
