package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vidvault/internal/graph"
	"vidvault/internal/models"
	"vidvault/internal/storage"
)

// CategoryInput holds category create/update fields.
type CategoryInput struct {
	Name     string  `json:"name"`
	ParentID *uint   `json:"parent_id"`
	Color    *string `json:"color"`
	Icon     *string `json:"icon"`
}

// CategoryService implements category CRUD and tree resolution.
type CategoryService interface {
	Create(ctx context.Context, in CategoryInput) (*models.Category, error)
	Get(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error)
	// Delete removes the category; its videos keep existing with a nulled
	// category reference.
	Delete(ctx context.Context, id uint) error
	// Tree resolves the category forest. Dangling or cyclic parent references
	// are promoted to roots.
	Tree(ctx context.Context) ([]*graph.TreeNode, error)
}

type categoryService struct {
	repo storage.CategoryStore
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(repo storage.CategoryStore) CategoryService {
	return &categoryService{repo: repo}
}

// Create validates and inserts the category. The parent, when given, must
// exist; acyclicity beyond that is the creator's responsibility.
func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if in.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, *in.ParentID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, &ValidationError{Field: "parent_id", Message: "parent category does not exist"}
			}
			return nil, WrapError(err, "failed to check parent category")
		}
	}

	category := &models.Category{
		Name:     in.Name,
		ParentID: in.ParentID,
		Color:    in.Color,
		Icon:     in.Icon,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, WrapError(err, "failed to create category")
	}
	return category, nil
}

// Get fetches a category by id.
func (s *categoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil, WrapError(err, "failed to load category")
	}
	return category, nil
}

// List returns all categories with derived video counts.
func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

// Update applies the given fields and saves the category.
func (s *categoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Name) != "" {
		category.Name = in.Name
	}
	if in.ParentID != nil {
		if *in.ParentID == id {
			return nil, &ValidationError{Field: "parent_id", Message: "category cannot be its own parent"}
		}
		category.ParentID = in.ParentID
	}
	if in.Color != nil {
		category.Color = in.Color
	}
	if in.Icon != nil {
		category.Icon = in.Icon
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, WrapError(err, "failed to update category")
	}
	return category, nil
}

// Delete removes the category, nullifying the reference on its videos.
func (s *categoryService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return WrapError(err, "failed to delete category")
	}
	return nil
}

// Tree resolves the stored categories into a forest.
func (s *categoryService) Tree(ctx context.Context) ([]*graph.TreeNode, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list categories")
	}
	return graph.BuildCategoryTree(categories), nil
}
