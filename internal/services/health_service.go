package services

import (
	"time"

	"visatrack/internal/cache"
)

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CachedPeriods int     `json:"cached_periods"`
}

// HealthService reports process liveness and basic cache statistics.
type HealthService struct {
	version string
	store   *cache.Store
	started time.Time
}

// NewHealthService creates a health service.
func NewHealthService(version string, store *cache.Store) *HealthService {
	return &HealthService{
		version: version,
		store:   store,
		started: time.Now(),
	}
}

// Health returns the current status.
func (s *HealthService) Health() HealthStatus {
	return HealthStatus{
		Status:        "ok",
		Version:       s.version,
		UptimeSeconds: time.Since(s.started).Seconds(),
		CachedPeriods: s.store.Len(),
	}
}
