package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
)

// Authorization decision outcomes reported to the DecisionRecorder.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
	DecisionError = "error"
)

// DecisionRecorder observes authorization decisions.
type DecisionRecorder interface {
	RecordDecision(category, action, outcome string)
}

// Authorizer decides whether a user may perform a (category, action) pair in a team.
type Authorizer struct {
	resolver *MembershipResolver
	recorder DecisionRecorder
	logger   *zap.Logger
}

// NewAuthorizer constructs an Authorizer.
func NewAuthorizer(resolver *MembershipResolver) *Authorizer {
	return &Authorizer{resolver: resolver, logger: zap.NewNop()}
}

// WithRecorder attaches a decision recorder, typically a Prometheus counter.
func (a *Authorizer) WithRecorder(recorder DecisionRecorder) *Authorizer {
	a.recorder = recorder
	return a
}

// WithLogger sets the logger.
func (a *Authorizer) WithLogger(logger *zap.Logger) *Authorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	a.logger = logger
	return a
}

// Can reports whether userID may perform category.action in team. An unrecognized pair
// yields *domain.UnknownPermissionError; every other failure resolves to false.
func (a *Authorizer) Can(ctx context.Context, team domain.Team, userID string, category domain.Category, action domain.Action) (bool, error) {
	if !domain.IsKnownPermission(category, action) {
		a.observe(category, action, DecisionError)
		return false, &domain.UnknownPermissionError{Category: category, Action: action}
	}

	allowed := a.decide(ctx, team, userID, category, action)
	if allowed {
		a.observe(category, action, DecisionAllow)
	} else {
		a.observe(category, action, DecisionDeny)
	}
	return allowed, nil
}

// CanManageRoles is team.manage_roles OR members.manage_roles.
func (a *Authorizer) CanManageRoles(ctx context.Context, team domain.Team, userID string) bool {
	if ok, _ := a.Can(ctx, team, userID, domain.CategoryTeam, domain.ActionManageRoles); ok {
		return true
	}
	ok, _ := a.Can(ctx, team, userID, domain.CategoryMembers, domain.ActionManageRoles)
	return ok
}

// EffectivePermissions returns the complete matrix userID holds in team. Non-members
// receive an all-false matrix.
func (a *Authorizer) EffectivePermissions(ctx context.Context, team domain.Team, userID string) domain.Matrix {
	resolved, err := a.resolve(ctx, team, userID)
	if err != nil {
		return domain.Matrix{}.Normalize()
	}
	if resolved.Owner {
		return domain.FullMatrix()
	}

	effective := resolved.Role.Permissions.Normalize()
	if resolved.LegacyManageMembers {
		effective[domain.CategoryMembers][domain.ActionManageRoles] = true
	}
	return effective
}

func (a *Authorizer) decide(ctx context.Context, team domain.Team, userID string, category domain.Category, action domain.Action) bool {
	resolved, err := a.resolve(ctx, team, userID)
	if err != nil {
		return false
	}
	if resolved.Owner {
		return true
	}

	allowed, err := resolved.Role.Permissions.Allows(category, action)
	if err != nil {
		return false
	}
	if !allowed && resolved.LegacyManageMembers &&
		category == domain.CategoryMembers && action == domain.ActionManageRoles {
		return true
	}
	return allowed
}

// ResolveRole returns the role Can evaluates for userID, or ErrNotAMember.
func (a *Authorizer) ResolveRole(ctx context.Context, team domain.Team, userID string) (ResolvedRole, error) {
	return a.resolve(ctx, team, userID)
}

func (a *Authorizer) resolve(ctx context.Context, team domain.Team, userID string) (ResolvedRole, error) {
	if IsOwner(team, userID) {
		owner, _ := domain.DefaultRole(domain.RoleOwner)
		return ResolvedRole{Role: owner, Owner: true, Source: RoleSourceOwner}, nil
	}
	if a.resolver == nil {
		return ResolvedRole{}, ErrNotAMember
	}

	resolved, err := a.resolver.ResolveRole(ctx, team, userID)
	if err != nil && !errors.Is(err, ErrNotAMember) {
		a.logger.Warn("resolve role failed", zap.String("team_id", team.ID), zap.String("user_id", userID), zap.Error(err))
	}
	return resolved, err
}

func (a *Authorizer) observe(category domain.Category, action domain.Action, outcome string) {
	if a.recorder == nil {
		return
	}
	a.recorder.RecordDecision(string(category), string(action), outcome)
}
