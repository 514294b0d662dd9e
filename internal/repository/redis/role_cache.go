package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/repository"
)

const (
	defaultRoleCachePrefix = "wphub:team_roles"
	defaultRoleCacheTTL    = 5 * time.Minute
)

// RoleCache keeps the active custom roles of a team in Redis.
type RoleCache struct {
	client *red.Client
	prefix string
	ttl    time.Duration
}

// NewRoleCache constructs the role list cache helper.
func NewRoleCache(client *red.Client, keyPrefix string, ttl time.Duration) *RoleCache {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultRoleCachePrefix
	}
	if ttl <= 0 {
		ttl = defaultRoleCacheTTL
	}

	return &RoleCache{client: client, prefix: prefix, ttl: ttl}
}

type cachedRole struct {
	ID          string        `json:"id"`
	TeamID      *string       `json:"team_id,omitempty"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Type        string        `json:"type"`
	Permissions domain.Matrix `json:"permissions"`
	IsActive    bool          `json:"is_active"`
	CreatedBy   *string       `json:"created_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Get returns the cached roles, or repository.ErrNotFound on a miss.
func (c *RoleCache) Get(ctx context.Context, teamID string) ([]domain.Role, error) {
	key := c.key(teamID)
	if key == "" {
		return nil, fmt.Errorf("team id is required")
	}

	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis get team roles: %w", err)
	}

	var cached []cachedRole
	if err := json.Unmarshal(value, &cached); err != nil {
		return nil, fmt.Errorf("decode cached team roles: %w", err)
	}

	roles := make([]domain.Role, 0, len(cached))
	for _, entry := range cached {
		roles = append(roles, domain.Role{
			ID:          entry.ID,
			TeamID:      entry.TeamID,
			Name:        entry.Name,
			Description: entry.Description,
			Type:        domain.RoleType(entry.Type),
			Permissions: entry.Permissions,
			IsActive:    entry.IsActive,
			CreatedBy:   entry.CreatedBy,
			CreatedAt:   entry.CreatedAt,
			UpdatedAt:   entry.UpdatedAt,
		})
	}

	return roles, nil
}

// Set stores the role list with the configured TTL.
func (c *RoleCache) Set(ctx context.Context, teamID string, roles []domain.Role) error {
	key := c.key(teamID)
	if key == "" {
		return fmt.Errorf("team id is required")
	}

	cached := make([]cachedRole, 0, len(roles))
	for _, role := range roles {
		cached = append(cached, cachedRole{
			ID:          role.ID,
			TeamID:      role.TeamID,
			Name:        role.Name,
			Description: role.Description,
			Type:        string(role.Type),
			Permissions: role.Permissions,
			IsActive:    role.IsActive,
			CreatedBy:   role.CreatedBy,
			CreatedAt:   role.CreatedAt.UTC(),
			UpdatedAt:   role.UpdatedAt.UTC(),
		})
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("encode team roles: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set team roles: %w", err)
	}

	return nil
}

// Invalidate drops the cached entry for the team.
func (c *RoleCache) Invalidate(ctx context.Context, teamID string) error {
	key := c.key(teamID)
	if key == "" {
		return fmt.Errorf("team id is required")
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete team roles: %w", err)
	}

	return nil
}

func (c *RoleCache) key(teamID string) string {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", c.prefix, teamID)
}

var _ port.RoleCache = (*RoleCache)(nil)
