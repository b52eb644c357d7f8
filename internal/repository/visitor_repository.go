package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yashkamboj/portfolio/internal/models"
)

// Columns the analytics summary may group visitors by.
var visitorGroupColumns = map[string]bool{
	"device":  true,
	"browser": true,
	"os":      true,
	"page":    true,
}

// VisitHit is the slice of a visitor row needed for per-day statistics.
type VisitHit struct {
	IPAddress string
	CreatedAt time.Time
}

// VisitorRepository defines data access for tracked page views.
type VisitorRepository interface {
	CreateVisitor(ctx context.Context, visitor *models.Visitor) error
	HasVisited(ctx context.Context, ipAddress string) (bool, error)
	CountVisitors(ctx context.Context, r models.DateRange, returning *bool) (int64, error)
	CountDistinctIPs(ctx context.Context, r models.DateRange) (int64, error)
	GroupVisitorsBy(ctx context.Context, column string, r models.DateRange, limit int) ([]models.GroupCount, error)
	RecentVisitors(ctx context.Context, r models.DateRange, n int) ([]models.VisitorDigest, error)
	VisitsSince(ctx context.Context, since time.Time) ([]VisitHit, error)
}

// GormVisitorRepository is the GORM implementation of VisitorRepository.
type GormVisitorRepository struct {
	db *gorm.DB
}

// NewVisitorRepository creates and returns a new GormVisitorRepository.
func NewVisitorRepository(db *gorm.DB) *GormVisitorRepository {
	return &GormVisitorRepository{db: db}
}

// CreateVisitor inserts a new page view record.
func (r *GormVisitorRepository) CreateVisitor(ctx context.Context, visitor *models.Visitor) error {
	db, err := conn(ctx, r.db)
	if err != nil {
		return err
	}
	if err := db.Create(visitor).Error; err != nil {
		return fmt.Errorf("failed to create visitor: %w", err)
	}
	return nil
}

// HasVisited reports whether any visitor row exists for the address.
func (r *GormVisitorRepository) HasVisited(ctx context.Context, ipAddress string) (bool, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return false, err
	}
	var latest models.Visitor
	err = db.Select("id").Where("ip_address = ?", ipAddress).Order("created_at DESC").Take(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up visitor %s: %w", ipAddress, err)
	}
	return true, nil
}

// CountVisitors counts rows in the range; a non-nil returning restricts to
// returning (true) or new (false) visitors.
func (r *GormVisitorRepository) CountVisitors(ctx context.Context, dr models.DateRange, returning *bool) (int64, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return 0, err
	}
	q := db.Model(&models.Visitor{}).Scopes(createdBetween(dr))
	if returning != nil {
		q = q.Where("is_returning = ?", *returning)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count visitors: %w", err)
	}
	return count, nil
}

// CountDistinctIPs counts distinct addresses in the range.
func (r *GormVisitorRepository) CountDistinctIPs(ctx context.Context, dr models.DateRange) (int64, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.Model(&models.Visitor{}).Scopes(createdBetween(dr)).Distinct("ip_address").Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count distinct visitors: %w", err)
	}
	return count, nil
}

// GroupVisitorsBy counts visitors per value of column, largest bucket first.
// A limit of zero returns every bucket.
func (r *GormVisitorRepository) GroupVisitorsBy(ctx context.Context, column string, dr models.DateRange, limit int) ([]models.GroupCount, error) {
	if !visitorGroupColumns[column] {
		return nil, fmt.Errorf("cannot group visitors by %q", column)
	}
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Bucket string
		Total  int64
	}
	q := db.Model(&models.Visitor{}).
		Scopes(createdBetween(dr)).
		Select(column + " AS bucket, COUNT(*) AS total").
		Group(column).
		Order("total DESC").
		Order("bucket ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to group visitors by %s: %w", column, err)
	}

	groups := make([]models.GroupCount, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, models.GroupCount{Key: row.Bucket, Count: row.Total})
	}
	return groups, nil
}

// RecentVisitors returns the n newest visitors in the range.
func (r *GormVisitorRepository) RecentVisitors(ctx context.Context, dr models.DateRange, n int) ([]models.VisitorDigest, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	digests := make([]models.VisitorDigest, 0, n)
	err = db.Model(&models.Visitor{}).
		Scopes(createdBetween(dr)).
		Select("id", "ip_address", "device", "browser", "os", "page", "created_at").
		Order("created_at DESC").
		Limit(n).
		Scan(&digests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent visitors: %w", err)
	}
	return digests, nil
}

// VisitsSince returns address and time of every visit created at or after since.
func (r *GormVisitorRepository) VisitsSince(ctx context.Context, since time.Time) ([]VisitHit, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	hits := make([]VisitHit, 0)
	err = db.Model(&models.Visitor{}).
		Select("ip_address", "created_at").
		Where("created_at >= ?", since.UTC()).
		Order("created_at ASC").
		Scan(&hits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch visits since %s: %w", since.Format(time.RFC3339), err)
	}
	return hits, nil
}
