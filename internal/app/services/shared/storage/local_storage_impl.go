package storage

import (
	"context"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type localStorage struct {
	BaseDir string
	Log     *zap.Logger
}

// NewLocalStorage keeps artifacts under baseDir when no object store is set up.
func NewLocalStorage(baseDir string, logger *zap.Logger) contracts.ArtifactStorage {
	return &localStorage{
		BaseDir: baseDir,
		Log:     logger,
	}
}

func (l *localStorage) SaveArtifact(ctx context.Context, objectKey, contentType string, data []byte) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	path := filepath.Join(l.BaseDir, filepath.FromSlash(objectKey))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Log.Error("localStorage.SaveArtifact error creating directory",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrLocalArtifactWrite(err, path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		l.Log.Error("localStorage.SaveArtifact error writing file",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrLocalArtifactWrite(err, path)
	}

	l.Log.Info("localStorage.SaveArtifact succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingArtifactKey, path),
	)
	return path, nil
}
