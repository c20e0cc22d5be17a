package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_category_store.go -package=mocks vidvault/internal/storage CategoryStore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"vidvault/internal/models"
)

// CategoryStore defines the interface for category storage operations.
type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	// GetByID returns ErrNotFound when no category has the given id.
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	// GetByName returns ErrNotFound when no category has the given name.
	// Matching is case-insensitive.
	GetByName(ctx context.Context, name string) (*models.Category, error)
	// List returns all categories with derived video counts.
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	// Delete removes the category and nullifies the reference on its videos.
	// Videos themselves are never deleted.
	Delete(ctx context.Context, id uint) error
}

// CategoryRepo implements CategoryStore over GORM.
type CategoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo creates a new CategoryRepo.
func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create inserts a new category.
func (r *CategoryRepo) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID gets a category by primary key. Returns ErrNotFound if not found.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translateErr(err)
	}
	r.fillCount(ctx, &category)
	return &category, nil
}

// GetByName gets a category by name, case-insensitive. Returns ErrNotFound if
// not found.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&category).Error
	if err != nil {
		return nil, translateErr(err)
	}
	r.fillCount(ctx, &category)
	return &category, nil
}

// List returns all categories ordered by name, with derived video counts.
func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for i := range categories {
		r.fillCount(ctx, &categories[i])
	}
	return categories, nil
}

// Update saves the full category record.
func (r *CategoryRepo) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// Delete removes a category, nullifying the category reference on its videos
// and promoting child categories to roots. Returns ErrNotFound when the
// category does not exist.
func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Video{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach videos: %w", err)
		}
		if err := tx.Model(&models.Category{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach child categories: %w", err)
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *CategoryRepo) fillCount(ctx context.Context, category *models.Category) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("category_id = ?", category.ID).
		Count(&count).Error; err == nil {
		category.VideoCount = count
	}
}
