package model

import "errors"

// Upload limits and normalization targets for images forwarded to the
// backend.
const (
	MaxUploadSizeBytes = 8 * 1024 * 1024
	MaxImageDimension  = 1600
	JPEGQuality        = 85

	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWEBP = "image/webp"
)

// IsAllowedImageType reports whether the content type is an accepted upload
// format.
func IsAllowedImageType(contentType string) bool {
	switch contentType {
	case ContentTypeJPEG, ContentTypePNG, ContentTypeGIF, ContentTypeWEBP:
		return true
	}
	return false
}

var (
	ErrFileTooLarge     = errors.New("file exceeds maximum size")
	ErrInvalidImageType = errors.New("unsupported image type")
)
