package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
)

func TestActivityRepository_AppendAssignsID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewActivityRepository(mock)

	mock.ExpectExec(`INSERT INTO wphub\.activity_logs`).
		WithArgs(pgxmock.AnyArg(), "user-1", "owner@example.com", "Created role Editor", domain.EntityRole, "role-1", "team-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Append(context.Background(), domain.ActivityRecord{
		ActorID:    "user-1",
		ActorEmail: "owner@example.com",
		Action:     "Created role Editor",
		EntityType: domain.EntityRole,
		EntityID:   "role-1",
		TeamID:     "team-1",
	})
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
