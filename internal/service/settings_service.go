package service

import (
	"context"
	"fmt"
	"log"

	"formdesk/internal/authz"
	"formdesk/internal/cache"
	"formdesk/internal/model"
	"formdesk/internal/repository"
)

// SettingsService fronts the settings singleton with a read-through Redis
// cache. The cache may serve a slightly stale window after a concurrent
// update; the TTL bounds that.
type SettingsService struct {
	settingsRepo  repository.SettingsRepo
	settingsCache cache.SettingsCache
}

// NewSettingsService creates a new settings service. The cache may be nil.
func NewSettingsService(settingsRepo repository.SettingsRepo, settingsCache cache.SettingsCache) *SettingsService {
	return &SettingsService{
		settingsRepo:  settingsRepo,
		settingsCache: settingsCache,
	}
}

// Get returns the singleton, creating it with defaults on first access
func (s *SettingsService) Get(ctx context.Context) (*model.SystemSettings, error) {
	if s.settingsCache != nil {
		cached, err := s.settingsCache.Get(ctx)
		if err != nil {
			log.Printf("settings cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	if s.settingsCache != nil {
		if err := s.settingsCache.Set(ctx, settings); err != nil {
			log.Printf("settings cache write failed: %v", err)
		}
	}
	return settings, nil
}

// Update replaces the heartbeat window; last writer wins under concurrent
// admin updates.
func (s *SettingsService) Update(ctx context.Context, principal authz.Principal, heartbeatWindowHours float64) (*model.SystemSettings, error) {
	if d := authz.Resolve(principal, authz.ActionUpdateSettings, authz.Resource{}); !d.Allowed() {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	if heartbeatWindowHours <= 0 {
		return nil, validationError([]FieldViolation{{
			Field:   "heartbeat_window",
			Message: "heartbeat window must be a positive number of hours",
		}})
	}

	settings, err := s.settingsRepo.Update(ctx, heartbeatWindowHours)
	if err != nil {
		return nil, err
	}

	if s.settingsCache != nil {
		if err := s.settingsCache.Set(ctx, settings); err != nil {
			log.Printf("settings cache write failed: %v", err)
		}
	}
	return settings, nil
}
