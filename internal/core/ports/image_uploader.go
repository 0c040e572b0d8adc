package ports

import (
	"context"
	"io"
)

// ImageUploader stores a wound image and returns the URL it is served from.
type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}
