package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"diarium/internal/model"
)

// EntryRepository defines persistence operations for diary entries.
type EntryRepository interface {
	Create(ctx context.Context, entry *model.Entry) error
	Update(ctx context.Context, entry *model.Entry) error
	Delete(ctx context.Context, id uint) error
	FindBySlug(ctx context.Context, slug string) (*model.Entry, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	ListPublished(ctx context.Context) ([]model.Entry, error)
	ListByAuthor(ctx context.Context, authorID uint, titleFilter string) ([]model.Entry, error)
	ListByStatus(ctx context.Context, status string) ([]model.Entry, error)
	IncrementViews(ctx context.Context, id uint) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	Publish(ctx context.Context, id uint) error
}

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository builds a GORM-backed repository.
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(ctx context.Context, entry *model.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *entryRepository) Update(ctx context.Context, entry *model.Entry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete removes the entry permanently. There is no tombstone.
func (r *entryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Entry{}, id).Error
}

func (r *entryRepository) FindBySlug(ctx context.Context, slug string) (*model.Entry, error) {
	var entry model.Entry
	if err := r.db.WithContext(ctx).Preload("Author").Where("slug = ?", slug).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Entry{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *entryRepository) ListPublished(ctx context.Context) ([]model.Entry, error) {
	var entries []model.Entry
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) ListByAuthor(ctx context.Context, authorID uint, titleFilter string) ([]model.Entry, error) {
	q := r.db.WithContext(ctx).Where("author_id = ?", authorID)
	if titleFilter != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(titleFilter)+"%")
	}
	var entries []model.Entry
	if err := q.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) ListByStatus(ctx context.Context, status string) ([]model.Entry, error) {
	var entries []model.Entry
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// IncrementViews bumps the view counter as a relative update in the database,
// never read-modify-write, so concurrent readers cannot lose increments.
func (r *entryRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Entry{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *entryRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Entry{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Publish marks the entry approved: status published and the published flag
// set in one update.
func (r *entryRepository) Publish(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Entry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":    model.StatusPublished,
			"published": true,
		}).Error
}
