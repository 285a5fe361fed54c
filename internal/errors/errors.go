// Package errors provides custom errors for the application.
package errors

import "errors"

// ErrMissingCredentials is returned when RHOAI_API_URL or RHOAI_TOKEN is not set.
var ErrMissingCredentials = errors.New("missing required environment variables: RHOAI_API_URL and RHOAI_TOKEN")

// ErrConnection is returned when the cluster connection fails.
var ErrConnection = errors.New("failed to connect to cluster")

// ErrNotConnected is returned when an operation is attempted before Connect.
var ErrNotConnected = errors.New("not connected, call Connect first")

// ErrInvalidNotebook is returned when a notebook document cannot be parsed.
var ErrInvalidNotebook = errors.New("invalid notebook document")

// ErrUnknownStrategy is returned when a strategy name cannot be resolved.
var ErrUnknownStrategy = errors.New("unknown execution strategy")

// ErrUnknownProfile is returned when a profile name cannot be resolved.
var ErrUnknownProfile = errors.New("unknown test profile")

// ErrNoSteps is returned when a step manifest contains no steps.
var ErrNoSteps = errors.New("no steps defined in manifest")

// ErrUnsupportedStagingProviderType is returned when the staging provider type is unsupported.
var ErrUnsupportedStagingProviderType = errors.New("unsupported staging provider type")
