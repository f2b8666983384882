package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/app/repository"
)

const (
	CacheKeyVersions = "commission_settings:versions"
	CacheExpiration  = 5 * time.Minute
)

// ErrNoSettings is returned when no version covers the instant and defaults are disabled.
var ErrNoSettings = errors.New("no commission settings in effect")

// ErrBackdated is returned when a new version would start at or before the active one.
var ErrBackdated = errors.New("settings must start after the active version")

// Resolver looks up the commission settings version in effect at a given time.
type Resolver struct {
	repo        repository.SettingsRepository
	cache       *redis.Client
	useDefaults bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache caches the version list in redis.
func WithCache(client *redis.Client) Option {
	return func(r *Resolver) { r.cache = client }
}

// WithoutDefaults makes Resolve fail with ErrNoSettings instead of falling back to defaults.
func WithoutDefaults() Option {
	return func(r *Resolver) { r.useDefaults = false }
}

// NewResolver creates a resolver from an injected repository.
func NewResolver(repo repository.SettingsRepository, opts ...Option) *Resolver {
	r := &Resolver{repo: repo, useDefaults: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the snapshot of the version whose window contains at. When
// several windows overlap the highest version wins. Without any match the
// built-in defaults are returned. Only storage failures produce an error.
func (r *Resolver) Resolve(ctx context.Context, at time.Time) (models.SettingsSnapshot, error) {
	versions, err := r.versions(ctx)
	if err != nil {
		return models.SettingsSnapshot{}, err
	}

	var best *models.CommissionSettings
	for i := range versions {
		v := &versions[i]
		if !v.Covers(at) {
			continue
		}
		if best == nil || v.Version > best.Version {
			best = v
		}
	}
	if best != nil {
		return best.Snapshot(), nil
	}
	if !r.useDefaults {
		return models.SettingsSnapshot{}, ErrNoSettings
	}
	return models.DefaultSettingsSnapshot(), nil
}

// History returns every stored version, newest first.
func (r *Resolver) History(ctx context.Context) ([]models.CommissionSettings, error) {
	return r.versions(ctx)
}

// Publish validates next and stores it as the new active version. The previous
// active version is closed at next.ValidFrom and deactivated, never edited otherwise.
func (r *Resolver) Publish(ctx context.Context, next models.CommissionSettings, actor string) (*models.CommissionSettings, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, errors.New("actor is required")
	}
	if next.ValidFrom.IsZero() {
		next.ValidFrom = time.Now()
	}
	next.ValidTo = nil
	next.CreatedBy = actor
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	current, err := r.repo.ListVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load commission settings: %w", err)
	}
	for _, v := range current {
		if v.IsActive && !next.ValidFrom.After(v.ValidFrom) {
			return nil, fmt.Errorf("version %d is valid from %s: %w",
				v.Version, v.ValidFrom.Format(time.RFC3339), ErrBackdated)
		}
	}

	if err := r.repo.Publish(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to publish commission settings: %w", err)
	}
	r.invalidate(ctx)

	log.Infof("[Settings] Published commission settings version %d (valid from %s) by %s",
		next.Version, next.ValidFrom.Format(time.RFC3339), actor)
	return &next, nil
}

func (r *Resolver) versions(ctx context.Context) ([]models.CommissionSettings, error) {
	if r.cache != nil {
		raw, err := r.cache.Get(ctx, CacheKeyVersions).Bytes()
		switch {
		case err == nil:
			var cached []models.CommissionSettings
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				return cached, nil
			}
			log.Warnf("[Settings] Ignoring undecodable cache entry %s", CacheKeyVersions)
		case !errors.Is(err, redis.Nil):
			log.Warnf("[Settings] Cache read failed, falling back to database: %v", err)
		}
	}

	versions, err := r.repo.ListVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load commission settings: %w", err)
	}

	if r.cache != nil {
		if data, err := json.Marshal(versions); err == nil {
			if err := r.cache.Set(ctx, CacheKeyVersions, data, CacheExpiration).Err(); err != nil {
				log.Warnf("[Settings] Cache write failed: %v", err)
			}
		}
	}
	return versions, nil
}

func (r *Resolver) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, CacheKeyVersions).Err(); err != nil {
		log.Warnf("[Settings] Cache invalidation failed: %v", err)
	}
}
