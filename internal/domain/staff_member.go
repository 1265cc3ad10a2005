package domain

import (
	"fmt"
	"time"
)

// StaffRole enumerates collaborator roles.
type StaffRole string

const (
	RoleSales      StaffRole = "SALES"
	RoleSupport    StaffRole = "SUPPORT"
	RoleManagement StaffRole = "MANAGEMENT"
)

// ParseRole converts a raw role name into a StaffRole.
func ParseRole(raw string) (StaffRole, bool) {
	switch StaffRole(raw) {
	case RoleSales, RoleSupport, RoleManagement:
		return StaffRole(raw), true
	}
	return "", false
}

// StaffMember models a collaborator operating the tool. The authenticated
// actor of every command is a StaffMember resolved from the stored token.
type StaffMember struct {
	ID           int
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         StaffRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns the collaborator's display name.
func (s StaffMember) FullName() string {
	return fmt.Sprintf("%s %s", s.FirstName, s.LastName)
}
