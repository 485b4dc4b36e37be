package storage

import (
	"context"
	"io"
	"time"
)

// Uploader stores raw media (audio recordings, post images) and returns a
// URL the frontend can reach.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedURL string, err error)
}

// Signer issues short-lived read URLs for private objects.
type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}
