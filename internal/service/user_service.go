package service

import (
	"context"
	"log/slog"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
	files    storage.FileStore
}

func NewUserService(userRepo repository.UserRepository, files storage.FileStore) *UserService {
	return &UserService{userRepo: userRepo, files: files}
}

type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Password2 string
}

type EditUserInput struct {
	UserID             uint
	Name               string
	Email              string
	CurrentPassword    string
	NewPassword        string
	ConfirmNewPassword string
}

// Register creates a new account. Emails are stored lowercased so lookups are
// case insensitive.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError("Fill in all fields")
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Password != in.Password2 {
		return nil, models.NewValidationError("Passwords do not match")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	// The unique index backstops the pre-check under concurrent registration
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "user registered", slog.Any("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and returns the account. Unknown emails and wrong
// passwords produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, models.NewValidationError("Fill in all fields")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewInvalidCredentialsError()
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListAuthors returns all accounts for the author directory.
func (s *UserService) ListAuthors(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// ChangeAvatar validates and stores a new avatar image, then points the account
// at it. The new file lands on disk before the old one is removed so a failure
// partway never leaves the account without an image.
func (s *UserService) ChangeAvatar(ctx context.Context, userID uint, upload FileUpload) (*models.User, error) {
	if len(upload.Content) == 0 {
		return nil, models.NewValidationError("Please choose an image")
	}
	if len(upload.Content) > MaxAvatarBytes {
		return nil, models.NewPayloadTooLargeError("Profile picture too big. Should be less than 500kb")
	}
	if err := validateImage(upload.Content); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	filename := storage.GenerateFilename(upload.Filename)
	if err := s.files.Save(filename, upload.Content); err != nil {
		return nil, models.NewInternalError(err)
	}

	oldAvatar := user.Avatar
	user.Avatar = filename
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Roll back the orphaned file; the record still points at the old one
		if rmErr := s.files.Remove(filename); rmErr != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove orphaned avatar",
				slog.String("filename", filename),
				slog.String("error", rmErr.Error()),
			)
		}
		return nil, err
	}

	if oldAvatar != "" {
		if rmErr := s.files.Remove(oldAvatar); rmErr != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove previous avatar",
				slog.String("filename", oldAvatar),
				slog.String("error", rmErr.Error()),
			)
		}
	}

	middleware.UploadsTotal.WithLabelValues("avatar").Inc()
	middleware.UploadBytes.WithLabelValues("avatar").Observe(float64(len(upload.Content)))

	return user, nil
}

// EditUser updates profile details. The current password must verify, and an
// email change must not collide with another account.
func (s *UserService) EditUser(ctx context.Context, in EditUserInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" || email == "" || in.CurrentPassword == "" || in.NewPassword == "" || in.ConfirmNewPassword == "" {
		return nil, models.NewValidationError("Fill in all fields")
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, models.NewConflictError("Email already registered")
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return nil, models.NewValidationError("Invalid current password")
	}

	if in.NewPassword != in.ConfirmNewPassword {
		return nil, models.NewValidationError("New passwords do not match")
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user.Name = name
	user.Email = email
	user.Password = string(hashed)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
