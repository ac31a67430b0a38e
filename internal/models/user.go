package models

// Roles a user document may carry. An empty role is a regular student.
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
)

// RoleStatus answers "is this user an admin or an instructor".
type RoleStatus struct {
	IsAdmin      bool `json:"isAdmin"`
	IsInstructor bool `json:"isInstructor"`
}

// RoleStatusFor derives the role pair from a stored role value.
func RoleStatusFor(role string) RoleStatus {
	return RoleStatus{
		IsAdmin:      role == RoleAdmin,
		IsInstructor: role == RoleInstructor,
	}
}
