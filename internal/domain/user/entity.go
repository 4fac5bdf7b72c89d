package user

type Role string

const (
	RoleAdmin  Role = "admin"  // Administrator - approves, declines, manual entry
	RoleWorker Role = "worker" // Regular employee self-service
)

// Actor is the authenticated caller behind a mutating operation. The engines
// trust the role carried here and never re-derive it (identity issuance is
// external to this service).
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin checks if actor holds the administrator role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsWorker checks if actor holds the worker role
func (a Actor) IsWorker() bool {
	return a.Role == RoleWorker
}
