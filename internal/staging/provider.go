// Package staging provides an interface for preserving run artifacts in
// a remote staging area.
package staging

import (
	"context"

	"github.com/jaeaeich/nbrun/internal/config"
	"github.com/jaeaeich/nbrun/internal/errors"
)

// Provider is an interface for remote staging areas.
type Provider interface {
	// GetURI returns the remote staging area URI for a given run ID.
	GetURI(runID string) (string, error)
	// UploadDir uploads a directory to the remote staging area.
	UploadDir(ctx context.Context, localPath, remotePath string) error
	// UploadFile uploads a file to the remote staging area.
	UploadFile(ctx context.Context, localPath, remotePath string) error
}

// GetProvider returns a staging provider based on the configuration.
//
//nolint:ireturn // Returning Provider interface is intentional for factory pattern
func GetProvider() (Provider, error) {
	switch config.Cfg.Staging.Type {
	case "s3":
		return &S3Provider{}, nil
	default:
		return nil, errors.ErrUnsupportedStagingProviderType
	}
}
