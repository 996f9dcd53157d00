package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidSyncConfigs indicates invalid change-feed settings
	// (for example, a non-positive change limit or a negative
	// clustering delay).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidScrollConfigs indicates invalid scroll settings
	// (for example, a non-positive concurrency cap, batch ceiling,
	// keep-alive, or sweep interval).
	ErrInvalidScrollConfigs = errors.New("invalid scroll configuration")
)
