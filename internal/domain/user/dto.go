package user

import (
	"time"

	"github.com/xrocketry/attendee-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses. The password hash
// never leaves the domain layer.
type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone,omitempty"`
	RFIDTag        string    `json:"rfidTag"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	JoinedDate     time.Time `json:"joinedDate"`
	Skills         []string  `json:"skills"`
	Bio            string    `json:"bio,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ToResponse maps the entity to its API shape.
func (u User) ToResponse() UserResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		RFIDTag:        u.RFIDTag,
		Role:           string(u.Role),
		Status:         string(u.Status),
		ProfilePicture: u.ProfilePicture,
		JoinedDate:     u.JoinedDate,
		Skills:         skills,
		Bio:            u.Bio,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// UpdateUserRequest represents an admin/mentor update of a user profile.
type UpdateUserRequest struct {
	ID             string    `json:"-"`
	Name           *string   `json:"name,omitempty"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	RFIDTag        *string   `json:"rfidTag,omitempty"`
	Role           *string   `json:"role,omitempty"`
	Status         *string   `json:"status,omitempty"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	Skills         *[]string `json:"skills,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}
	if r.Role != nil && !ValidRole(*r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of member, admin, mentor",
		})
	}
	if r.Status != nil && !ValidStatus(*r.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be either active or inactive",
		})
	}
	if r.RFIDTag != nil && validator.IsEmpty(*r.RFIDTag) {
		errs = append(errs, validator.ValidationError{
			Field:   "rfidTag",
			Message: "rfidTag must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListUsersResponse is the paginated admin listing.
type ListUsersResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
	Limit        int   `json:"limit"`
}

// StatsOverviewResponse summarises the member base for the admin panel.
type StatsOverviewResponse struct {
	TotalUsers    int64            `json:"totalUsers"`
	ByRole        map[string]int64 `json:"byRole"`
	ByStatus      map[string]int64 `json:"byStatus"`
	ActiveMembers int64            `json:"activeMembers"`
}
