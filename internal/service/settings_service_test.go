package service

import (
	"context"
	"errors"
	"testing"

	"formdesk/internal/authz"
	"formdesk/internal/model"
)

type fakeSettingsCache struct {
	stored  *model.SystemSettings
	getErr  error
	hits    int
	writes  int
	deletes int
}

func (c *fakeSettingsCache) Set(ctx context.Context, settings *model.SystemSettings) error {
	c.writes++
	copied := *settings
	c.stored = &copied
	return nil
}

func (c *fakeSettingsCache) Get(ctx context.Context) (*model.SystemSettings, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if c.stored == nil {
		return nil, nil
	}
	c.hits++
	copied := *c.stored
	return &copied, nil
}

func (c *fakeSettingsCache) Invalidate(ctx context.Context) error {
	c.deletes++
	c.stored = nil
	return nil
}

func TestGetSettingsCreatesDefaults(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, nil)

	settings, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.HeartbeatWindowHours != model.DefaultHeartbeatWindowHours {
		t.Errorf("heartbeat window = %v, want %v", settings.HeartbeatWindowHours, model.DefaultHeartbeatWindowHours)
	}
}

func TestGetSettingsUsesCache(t *testing.T) {
	repo := &fakeSettingsRepo{}
	c := &fakeSettingsCache{}
	svc := NewSettingsService(repo, c)
	ctx := context.Background()

	if _, err := svc.Get(ctx); err != nil {
		t.Fatalf("Get (miss): %v", err)
	}
	if c.writes != 1 {
		t.Errorf("cache writes = %d, want 1", c.writes)
	}

	if _, err := svc.Get(ctx); err != nil {
		t.Fatalf("Get (hit): %v", err)
	}
	if c.hits != 1 {
		t.Errorf("cache hits = %d, want 1", c.hits)
	}
}

func TestGetSettingsSurvivesCacheErrors(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, &fakeSettingsCache{getErr: errors.New("redis down")})

	settings, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get with broken cache: %v", err)
	}
	if settings.HeartbeatWindowHours != model.DefaultHeartbeatWindowHours {
		t.Errorf("heartbeat window = %v, want default", settings.HeartbeatWindowHours)
	}
}

func TestUpdateSettingsRequiresSuperadmin(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, nil)
	ctx := context.Background()

	admin := authz.Principal{
		ID:            "a1",
		Role:          model.RoleAdmin,
		Perms:         model.ModulePermissions{Users: true, Forms: true},
		Authenticated: true,
	}
	if _, err := svc.Update(ctx, admin, 12); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update by admin = %v, want ErrForbidden", err)
	}

	settings, err := svc.Update(ctx, superadmin("sa"), 12)
	if err != nil {
		t.Fatalf("Update by superadmin: %v", err)
	}
	if settings.HeartbeatWindowHours != 12 {
		t.Errorf("heartbeat window = %v, want 12", settings.HeartbeatWindowHours)
	}
}

func TestUpdateSettingsRejectsNonPositiveWindow(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, nil)

	for _, window := range []float64{0, -1} {
		_, err := svc.Update(context.Background(), superadmin("sa"), window)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Update(%v) = %v, want ValidationError", window, err)
		}
	}
}

func TestUpdateSettingsRefreshesCache(t *testing.T) {
	c := &fakeSettingsCache{}
	svc := NewSettingsService(&fakeSettingsRepo{}, c)
	ctx := context.Background()

	if _, err := svc.Update(ctx, superadmin("sa"), 48); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if c.stored == nil || c.stored.HeartbeatWindowHours != 48 {
		t.Errorf("cache not refreshed after update: %+v", c.stored)
	}

	// The next read must come from the refreshed cache, not the repo.
	settings, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.HeartbeatWindowHours != 48 {
		t.Errorf("heartbeat window = %v, want 48", settings.HeartbeatWindowHours)
	}
}
