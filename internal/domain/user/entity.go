package user

import "time"

type Role string

const (
	RoleMember Role = "member" // Regular member, tracked by the RFID readers
	RoleAdmin  Role = "admin"  // Full access, receives audit reports
	RoleMentor Role = "mentor" // Can manage users and record manual attendance
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type User struct {
	ID             string
	Name           string
	Email          string
	Phone          *string
	PasswordHash   string
	RFIDTag        string
	Role           Role
	Status         Status
	ProfilePicture string
	JoinedDate     time.Time
	Skills         []string
	Bio            string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActive reports whether the user may record attendance.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// IsElevated reports whether the user holds an admin or mentor role.
func (u *User) IsElevated() bool {
	return u.Role == RoleAdmin || u.Role == RoleMentor
}

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleMember, RoleAdmin, RoleMentor:
		return true
	}
	return false
}

// ValidStatus reports whether s names a known status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusActive, StatusInactive:
		return true
	}
	return false
}
