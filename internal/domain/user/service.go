package user

import "context"

// Service is the admin-facing user management surface.
type Service interface {
	Get(ctx context.Context, id string) (UserResponse, error)
	List(ctx context.Context, filter ListFilter) (ListUsersResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error
	StatsOverview(ctx context.Context) (StatsOverviewResponse, error)
}
