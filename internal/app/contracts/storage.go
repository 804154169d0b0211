package contracts

import (
	"context"
)

// ArtifactStorage keeps files produced by a run, such as failure screenshots,
// and returns where each one ended up.
type ArtifactStorage interface {
	SaveArtifact(ctx context.Context, objectKey, contentType string, data []byte) (string, error)
}
