// Package media normalizes uploaded images before they are forwarded to the
// backend inside multipart requests. Oversized images are downscaled and
// re-encoded so a phone photo does not travel at full resolution; everything
// else passes through untouched.
package media

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"mencrytoo/internal/api"
	"mencrytoo/internal/model"
)

// Processor validates and normalizes image uploads.
type Processor struct {
	maxBytes int64
}

func NewProcessor(maxBytes int64) *Processor {
	if maxBytes <= 0 {
		maxBytes = model.MaxUploadSizeBytes
	}
	return &Processor{maxBytes: maxBytes}
}

// Prepare reads an upload, enforces size and type limits, downscales images
// wider or taller than the dimension bound, and returns the multipart file
// to forward. Filenames are replaced with a generated name so client-supplied
// names never reach the backend.
func (p *Processor) Prepare(field, filename string, file io.Reader) (api.File, error) {
	data, contentType, err := p.readAndValidate(file, filename)
	if err != nil {
		return api.File{}, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		// Not decodable but an allowed type by header sniffing: forward
		// as-is and let the backend decide.
		return api.File{
			Field:       field,
			Name:        uuid.NewString() + extensionFor(contentType),
			ContentType: contentType,
			Data:        data,
		}, nil
	}

	bounds := img.Bounds()
	if bounds.Dx() > model.MaxImageDimension || bounds.Dy() > model.MaxImageDimension {
		resized := imaging.Fit(img, model.MaxImageDimension, model.MaxImageDimension, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(model.JPEGQuality)); err != nil {
			return api.File{}, fmt.Errorf("encode jpeg: %w", err)
		}
		data = buf.Bytes()
		contentType = model.ContentTypeJPEG
	}

	return api.File{
		Field:       field,
		Name:        uuid.NewString() + extensionFor(contentType),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// readAndValidate loads the upload into memory with size and type checks.
func (p *Processor) readAndValidate(file io.Reader, filename string) ([]byte, string, error) {
	limitedReader := io.LimitReader(file, p.maxBytes+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, "", model.ErrFileTooLarge
	}

	contentType := ""
	if len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !model.IsAllowedImageType(contentType) {
		return nil, "", model.ErrInvalidImageType
	}

	return data, contentType, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case model.ContentTypePNG:
		return ".png"
	case model.ContentTypeGIF:
		return ".gif"
	case model.ContentTypeWEBP:
		return ".webp"
	default:
		return ".jpg"
	}
}
