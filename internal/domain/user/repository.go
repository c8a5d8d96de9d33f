package user

import "context"

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByRFIDTag resolves a raw reader tag to a user. Returns
	// ErrUserNotFound when no tag matches.
	GetByRFIDTag(ctx context.Context, tag string) (User, error)

	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error

	// List retrieves users matching the filter with pagination.
	List(ctx context.Context, filter ListFilter) ([]User, int64, error)

	// ListNonAdmin returns every user outside the admin role, regardless
	// of status. The low-attendance auditor enumerates this set.
	ListNonAdmin(ctx context.Context) ([]User, error)

	// CountByRoleAndStatus returns counts keyed by role and by status.
	CountByRoleAndStatus(ctx context.Context) (map[Role]int64, map[Status]int64, error)
}

type ListFilter struct {
	Status *string
	Role   *string
	Search *string
	Page   int
	Limit  int
}
