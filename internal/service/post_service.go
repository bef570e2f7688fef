package service

import (
	"context"
	"log/slog"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	files    storage.FileStore
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, files storage.FileStore) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo, files: files}
}

type CreatePostInput struct {
	CreatorID   uint
	Title       string
	Category    string
	Description string
	Thumbnail   FileUpload
}

type EditPostInput struct {
	PostID      uint
	EditorID    uint
	Title       string
	Category    string
	Description string
	Thumbnail   *FileUpload
}

// Create validates and stores a new post with its thumbnail. The thumbnail is
// written to disk first; a failed insert removes it again so no orphan remains.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)
	description := strings.TrimSpace(in.Description)

	if title == "" || category == "" || description == "" {
		return nil, models.NewValidationError("Fill in all fields and choose thumbnail")
	}
	if len(in.Thumbnail.Content) == 0 {
		return nil, models.NewValidationError("Fill in all fields and choose thumbnail")
	}
	if len(in.Thumbnail.Content) > MaxThumbnailBytes {
		return nil, models.NewPayloadTooLargeError("Thumbnail too big. File should be less than 5mb")
	}
	if err := validateImage(in.Thumbnail.Content); err != nil {
		return nil, err
	}

	// The creator must exist before any file lands on disk
	if _, err := s.userRepo.GetByID(ctx, in.CreatorID); err != nil {
		return nil, err
	}

	filename := storage.GenerateFilename(in.Thumbnail.Filename)
	if err := s.files.Save(filename, in.Thumbnail.Content); err != nil {
		return nil, models.NewInternalError(err)
	}

	post := &models.Post{
		Title:       title,
		Category:    category,
		Description: description,
		Thumbnail:   filename,
		CreatorID:   in.CreatorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		if rmErr := s.files.Remove(filename); rmErr != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove orphaned thumbnail",
				slog.String("filename", filename),
				slog.String("error", rmErr.Error()),
			)
		}
		return nil, err
	}

	if err := s.userRepo.IncrementPostCount(ctx, in.CreatorID); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to increment post count",
			slog.Any("user_id", in.CreatorID),
			slog.String("error", err.Error()),
		)
	}

	middleware.UploadsTotal.WithLabelValues("thumbnail").Inc()
	middleware.UploadBytes.WithLabelValues("thumbnail").Observe(float64(len(in.Thumbnail.Content)))

	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.postRepo.List(ctx, repository.ClampLimit(limit), offset)
}

func (s *PostService) GetCategoryPosts(ctx context.Context, category string, limit, offset int) ([]models.Post, error) {
	return s.postRepo.GetByCategory(ctx, category, repository.ClampLimit(limit), offset)
}

func (s *PostService) GetUserPosts(ctx context.Context, creatorID uint, limit, offset int) ([]models.Post, error) {
	return s.postRepo.GetByCreatorID(ctx, creatorID, repository.ClampLimit(limit), offset)
}

// Edit updates a post. Only the creator may edit; anyone else gets Forbidden.
// A replacement thumbnail is written before the old file is removed, so a
// failure partway never leaves the post without a backing image.
func (s *PostService) Edit(ctx context.Context, in EditPostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)
	description := strings.TrimSpace(in.Description)

	if title == "" || category == "" {
		return nil, models.NewValidationError("Fill in all fields")
	}
	if len(description) < 12 {
		return nil, models.NewValidationError("Description should be at least 12 characters")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.CreatorID != in.EditorID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	oldCategory := post.Category
	oldThumbnail := post.Thumbnail
	newThumbnail := ""

	if in.Thumbnail != nil && len(in.Thumbnail.Content) > 0 {
		if len(in.Thumbnail.Content) > MaxThumbnailReplaceBytes {
			return nil, models.NewPayloadTooLargeError("Thumbnail too big. Should be less than 200kb")
		}
		if err := validateImage(in.Thumbnail.Content); err != nil {
			return nil, err
		}

		newThumbnail = storage.GenerateFilename(in.Thumbnail.Filename)
		if err := s.files.Save(newThumbnail, in.Thumbnail.Content); err != nil {
			return nil, models.NewInternalError(err)
		}
		post.Thumbnail = newThumbnail
	}

	post.Title = title
	post.Category = category
	post.Description = description

	if err := s.postRepo.Update(ctx, post); err != nil {
		if newThumbnail != "" {
			if rmErr := s.files.Remove(newThumbnail); rmErr != nil {
				middleware.Logger.WarnContext(ctx, "failed to remove orphaned thumbnail",
					slog.String("filename", newThumbnail),
					slog.String("error", rmErr.Error()),
				)
			}
		}
		return nil, err
	}

	// The record now points at the new file; the old one is garbage
	if newThumbnail != "" && oldThumbnail != "" {
		if rmErr := s.files.Remove(oldThumbnail); rmErr != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove replaced thumbnail",
				slog.String("filename", oldThumbnail),
				slog.String("error", rmErr.Error()),
			)
		}
	}

	if newThumbnail != "" {
		middleware.UploadsTotal.WithLabelValues("thumbnail").Inc()
		middleware.UploadBytes.WithLabelValues("thumbnail").Observe(float64(len(in.Thumbnail.Content)))
	}

	// Category moves invalidate the old category feed too
	if oldCategory != post.Category {
		cache.Delete(ctx, cache.CategoryKey(oldCategory))
	}

	return post, nil
}

// Delete removes a post, its thumbnail file, and lowers the creator's post
// count. Only the creator may delete. The file is removed first; a missing
// file is tolerated, any other file error aborts and keeps the record so the
// post is never left pointing at a file that may still exist.
func (s *PostService) Delete(ctx context.Context, postID, requesterID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.CreatorID != requesterID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if post.Thumbnail != "" {
		if err := s.files.Remove(post.Thumbnail); err != nil {
			return models.NewInternalError(err)
		}
	}

	if err := s.postRepo.Delete(ctx, post); err != nil {
		return err
	}

	if err := s.userRepo.DecrementPostCount(ctx, post.CreatorID); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to decrement post count",
			slog.Any("user_id", post.CreatorID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}
