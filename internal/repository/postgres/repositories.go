package postgres

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Roles    *RoleRepository
	Teams    *TeamRepository
	Activity *ActivityRepository
}

// NewRepositories wires all repositories backed by the provided executor.
func NewRepositories(exec pgExecutor) *Repositories {
	return &Repositories{
		Roles:    NewRoleRepository(exec),
		Teams:    NewTeamRepository(exec),
		Activity: NewActivityRepository(exec),
	}
}
