// Package service implements the application's business logic layer.
package service

import (
	"bytes"
	"image"
	"net/http"
	"strings"

	"inkwell/internal/models"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Upload size limits in bytes. Thumbnails accepted on creation are allowed to
// be much larger than replacements; the frontend resizes before replacing.
const (
	MaxThumbnailBytes        = 5_000_000
	MaxThumbnailReplaceBytes = 200_000
	MaxAvatarBytes           = 500_000
)

// FileUpload carries the bytes and original filename of a multipart upload.
type FileUpload struct {
	Filename string
	Content  []byte
}

func isAllowedImageMIME(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
		return true
	}
	return false
}

// validateImage rejects uploads that are not decodable images of an accepted
// format. Content sniffing runs on the bytes, not the client filename.
func validateImage(content []byte) error {
	if len(content) == 0 {
		return models.NewValidationError("No file uploaded")
	}

	detectedType := http.DetectContentType(content)
	if !isAllowedImageMIME(detectedType) {
		return models.NewValidationError("Invalid image type")
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(content)); err != nil {
		return models.NewValidationError("Invalid image file")
	}
	return nil
}
