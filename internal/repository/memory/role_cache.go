package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/repository"
)

const (
	defaultRoleCacheSize = 1024
	defaultRoleCacheTTL  = time.Minute
)

// RoleCache is an in-process, size-bounded role list cache with per-entry expiry.
// It is used when no Redis instance is configured; entries are not shared between
// replicas, so the TTL should stay short.
type RoleCache struct {
	cache *lru.LRU[string, []domain.Role]
}

// NewRoleCache builds a cache holding up to size teams for ttl each.
func NewRoleCache(size int, ttl time.Duration) *RoleCache {
	if size <= 0 {
		size = defaultRoleCacheSize
	}
	if ttl <= 0 {
		ttl = defaultRoleCacheTTL
	}

	return &RoleCache{cache: lru.NewLRU[string, []domain.Role](size, nil, ttl)}
}

// Get returns a copy of the cached roles, or repository.ErrNotFound on a miss.
func (c *RoleCache) Get(_ context.Context, teamID string) ([]domain.Role, error) {
	key := strings.TrimSpace(teamID)
	if key == "" {
		return nil, fmt.Errorf("team id is required")
	}

	roles, ok := c.cache.Get(key)
	if !ok {
		return nil, repository.ErrNotFound
	}

	return cloneRoles(roles), nil
}

// Set stores a copy of the roles.
func (c *RoleCache) Set(_ context.Context, teamID string, roles []domain.Role) error {
	key := strings.TrimSpace(teamID)
	if key == "" {
		return fmt.Errorf("team id is required")
	}

	c.cache.Add(key, cloneRoles(roles))
	return nil
}

// Invalidate drops the cached entry.
func (c *RoleCache) Invalidate(_ context.Context, teamID string) error {
	c.cache.Remove(strings.TrimSpace(teamID))
	return nil
}

// Len reports the number of cached teams.
func (c *RoleCache) Len() int {
	return c.cache.Len()
}

func cloneRoles(roles []domain.Role) []domain.Role {
	out := make([]domain.Role, len(roles))
	for i, role := range roles {
		role.Permissions = role.Permissions.Clone()
		out[i] = role
	}
	return out
}

var _ port.RoleCache = (*RoleCache)(nil)
