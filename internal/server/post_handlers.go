package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	upload, err := readFormFile(c, "thumbnail")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if upload == nil {
		return models.RespondWithError(c,
			models.NewValidationError("Fill in all fields and choose thumbnail"))
	}

	post, err := s.postService.Create(c.UserContext(), service.CreatePostInput{
		CreatorID:   currentUserID(c),
		Title:       c.FormValue("title"),
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
		Thumbnail:   *upload,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c)

	posts, err := s.postService.ListPosts(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// GetCatPosts handles GET /api/posts/categories/:category
func (s *Server) GetCatPosts(c *fiber.Ctx) error {
	category := c.Params("category")
	if category == "" {
		return models.RespondWithError(c, models.NewValidationError("Invalid category"))
	}
	p := parsePagination(c)

	posts, err := s.postService.GetCategoryPosts(c.UserContext(), category, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// GetUserPosts handles GET /api/posts/users/:id
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c)

	posts, err := s.postService.GetUserPosts(c.UserContext(), id, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// EditPost handles PATCH /api/posts/:id
func (s *Server) EditPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// The thumbnail is optional on edit; text fields arrive in the same
	// multipart form.
	upload, err := readFormFile(c, "thumbnail")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postService.Edit(c.UserContext(), service.EditPostInput{
		PostID:      id,
		EditorID:    currentUserID(c),
		Title:       c.FormValue("title"),
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
		Thumbnail:   upload,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted",
	})
}
