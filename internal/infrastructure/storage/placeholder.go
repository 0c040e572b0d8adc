package storage

import (
	"context"
	"io"
)

// PlaceholderURL is served for every image accepted by PlaceholderUploader.
const PlaceholderURL = "/placeholder.svg"

// PlaceholderUploader accepts an image without storing it.
type PlaceholderUploader struct{}

func NewPlaceholderUploader() *PlaceholderUploader {
	return &PlaceholderUploader{}
}

func (PlaceholderUploader) Upload(_ context.Context, _, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	return PlaceholderURL, nil
}
