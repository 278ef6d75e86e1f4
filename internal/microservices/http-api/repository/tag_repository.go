package repository

import (
	"context"
	"fmt"

	"foodgram/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	FindByID(ctx context.Context, id int64) (*models.Tag, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) FindByID(ctx context.Context, id int64) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find tag %d: %w", id, err)
	}
	return &tag, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	return tags, nil
}
