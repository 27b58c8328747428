package service

import (
	"context"
	"io"
)

// ArtifactStore abstracts the content-addressed pinning service: Pin returns
// the durable CID for the uploaded bytes, GatewayURL builds the retrieval URL
// from a CID alone. Pinning is idempotent per identical bytes but not per
// call.
type ArtifactStore interface {
	Pin(ctx context.Context, name string, reader io.Reader) (string, error)
	GatewayURL(cid string) string
}
