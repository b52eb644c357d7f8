package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/models"
)

// ContactRepository defines data access for contact form submissions.
type ContactRepository interface {
	CreateContact(ctx context.Context, contact *models.Contact) error
	ListContacts(ctx context.Context, status string, page models.Pagination) ([]models.Contact, int64, error)
	GetContactByID(ctx context.Context, id string) (*models.Contact, error)
	UpdateContactStatus(ctx context.Context, id string, status *models.ContactStatus, repliedAt *time.Time) (*models.Contact, error)
	DeleteContact(ctx context.Context, id string) (*models.Contact, error)
	CountContacts(ctx context.Context, status string) (int64, error)
	RecentContacts(ctx context.Context, n int) ([]models.ContactDigest, error)
}

// GormContactRepository is the GORM implementation of ContactRepository.
type GormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a GormContactRepository. A nil db yields a repository
// whose every call fails with customerrors.ErrDatabaseUnavailable.
func NewContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// CreateContact inserts a new submission.
func (r *GormContactRepository) CreateContact(ctx context.Context, contact *models.Contact) error {
	db, err := conn(ctx, r.db)
	if err != nil {
		return err
	}
	if err := db.Create(contact).Error; err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func contactStatusIs(status string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status != "" {
			return db.Where("status = ?", status)
		}
		return db
	}
}

// ListContacts returns one page of contacts, newest first, along with the filtered total.
func (r *GormContactRepository) ListContacts(ctx context.Context, status string, page models.Pagination) ([]models.Contact, int64, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Model(&models.Contact{}).Scopes(contactStatusIs(status)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	contacts := make([]models.Contact, 0)
	err = db.Scopes(contactStatusIs(status)).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, total, nil
}

// GetContactByID returns customerrors.ErrNotFound when id is unknown.
func (r *GormContactRepository) GetContactByID(ctx context.Context, id string) (*models.Contact, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var contact models.Contact
	if err := db.Where("id = ?", id).First(&contact).Error; err != nil {
		return nil, notFound(err)
	}
	return &contact, nil
}

// UpdateContactStatus applies a status transition. A nil status leaves the
// status untouched; repliedAt is always written, so nil clears it.
func (r *GormContactRepository) UpdateContactStatus(ctx context.Context, id string, status *models.ContactStatus, repliedAt *time.Time) (*models.Contact, error) {
	contact, err := r.GetContactByID(ctx, id)
	if err != nil {
		return nil, err
	}
	db, _ := conn(ctx, r.db)

	fields := map[string]any{"replied_at": repliedAt}
	if status != nil {
		fields["status"] = string(*status)
	}
	if err := db.Model(contact).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact %s: %w", id, err)
	}
	return r.GetContactByID(ctx, id)
}

// DeleteContact removes a contact and returns the removed record.
func (r *GormContactRepository) DeleteContact(ctx context.Context, id string) (*models.Contact, error) {
	contact, err := r.GetContactByID(ctx, id)
	if err != nil {
		return nil, err
	}
	db, _ := conn(ctx, r.db)
	res := db.Where("id = ?", id).Delete(&models.Contact{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to delete contact %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, customerrors.ErrNotFound
	}
	return contact, nil
}

// CountContacts counts contacts, optionally restricted to one status.
func (r *GormContactRepository) CountContacts(ctx context.Context, status string) (int64, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.Model(&models.Contact{}).Scopes(contactStatusIs(status)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// RecentContacts returns the n newest contacts, projected for the dashboard.
func (r *GormContactRepository) RecentContacts(ctx context.Context, n int) ([]models.ContactDigest, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	digests := make([]models.ContactDigest, 0, n)
	err = db.Model(&models.Contact{}).
		Select("id", "name", "email", "subject", "status", "created_at").
		Order("created_at DESC").
		Limit(n).
		Scan(&digests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent contacts: %w", err)
	}
	return digests, nil
}
