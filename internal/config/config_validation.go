// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies the
// engine's invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.ChangeLimit <= 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Sync.ClusteringEnabled && cfg.Sync.ClusteringDelay < 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Scroll.MaxConcurrent <= 0 || cfg.Scroll.MaxBatchSize <= 0 {
		return ErrInvalidScrollConfigs
	}

	if cfg.Scroll.DefaultKeepAlive <= 0 || cfg.Scroll.SweepInterval <= 0 {
		return ErrInvalidScrollConfigs
	}

	return nil
}
