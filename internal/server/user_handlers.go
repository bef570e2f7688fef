package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// GetAuthors handles GET /api/users/authors
func (s *Server) GetAuthors(c *fiber.Ctx) error {
	p := parsePagination(c)

	authors, err := s.userService.ListAuthors(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(authors)
}

// ChangeAvatar handles POST /api/users/change-avatar
func (s *Server) ChangeAvatar(c *fiber.Ctx) error {
	upload, err := readFormFile(c, "avatar")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if upload == nil {
		return models.RespondWithError(c, models.NewValidationError("Please choose an image"))
	}

	user, err := s.userService.ChangeAvatar(c.UserContext(), currentUserID(c), *upload)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// EditUser handles POST /api/users/edit-user
func (s *Server) EditUser(c *fiber.Ctx) error {
	var req struct {
		Name               string `json:"name"`
		Email              string `json:"email"`
		CurrentPassword    string `json:"currentPassword"`
		NewPassword        string `json:"newPassword"`
		ConfirmNewPassword string `json:"confirmNewPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.EditUser(c.UserContext(), service.EditUserInput{
		UserID:             currentUserID(c),
		Name:               req.Name,
		Email:              req.Email,
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}
