package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]models.Post, error)
	GetByCategory(ctx context.Context, category string, limit, offset int) ([]models.Post, error)
	GetByCreatorID(ctx context.Context, creatorID uint, limit, offset int) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, post *models.Post) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostLists(ctx, post.CreatorID, post.Category)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("Creator").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns the global feed, most recently touched first. The first page at
// the default size is cache-aside since it takes nearly all feed traffic.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	fetch := func(dest *[]models.Post) error {
		if err := r.db.WithContext(ctx).
			Preload("Creator").
			Order("updated_at DESC").
			Limit(limit).
			Offset(offset).
			Find(dest).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var posts []models.Post
	if offset == 0 && limit == DefaultPageSize {
		err := cache.Aside(ctx, cache.PostsPageKey(1, limit), &posts, cache.ListTTL, func() error {
			return fetch(&posts)
		})
		return posts, err
	}

	if err := fetch(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) GetByCategory(ctx context.Context, category string, limit, offset int) ([]models.Post, error) {
	fetch := func(dest *[]models.Post) error {
		if err := r.db.WithContext(ctx).
			Preload("Creator").
			Where("category = ?", category).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(dest).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var posts []models.Post
	if offset == 0 && limit == DefaultPageSize {
		err := cache.Aside(ctx, cache.CategoryKey(category), &posts, cache.CategoryTTL, func() error {
			return fetch(&posts)
		})
		return posts, err
	}

	if err := fetch(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) GetByCreatorID(ctx context.Context, creatorID uint, limit, offset int) ([]models.Post, error) {
	fetch := func(dest *[]models.Post) error {
		if err := r.db.WithContext(ctx).
			Preload("Creator").
			Where("creator_id = ?", creatorID).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(dest).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var posts []models.Post
	if offset == 0 && limit == DefaultPageSize {
		err := cache.Aside(ctx, cache.UserPostsKey(creatorID), &posts, cache.ListTTL, func() error {
			return fetch(&posts)
		})
		return posts, err
	}

	if err := fetch(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID, post.CreatorID, post.Category)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, post.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID, post.CreatorID, post.Category)
	return nil
}
