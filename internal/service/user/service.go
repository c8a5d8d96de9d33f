package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xrocketry/attendee-backend-go/internal/domain/user"
)

type UserServiceImpl struct {
	user.UserRepository
}

func NewUserService(userRepo user.UserRepository) user.Service {
	return &UserServiceImpl{UserRepository: userRepo}
}

// Get implements user.Service.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (user.UserResponse, error) {
	if uuid.Validate(id) != nil {
		return user.UserResponse{}, user.ErrUserNotFound
	}
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return u.ToResponse(), nil
}

// List implements user.Service.
func (s *UserServiceImpl) List(ctx context.Context, filter user.ListFilter) (user.ListUsersResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 50
	}

	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUsersResponse{}, fmt.Errorf("list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return user.ListUsersResponse{
		Users: responses,
		Pagination: user.Pagination{
			CurrentPage:  filter.Page,
			TotalPages:   totalPages,
			TotalRecords: total,
			Limit:        filter.Limit,
		},
	}, nil
}

// Update implements user.Service. Only the provided fields change.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if uuid.Validate(req.ID) != nil {
		return user.UserResponse{}, user.ErrUserNotFound
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.RFIDTag != nil {
		u.RFIDTag = *req.RFIDTag
	}
	if req.Role != nil {
		u.Role = user.Role(*req.Role)
	}
	if req.Status != nil {
		u.Status = user.Status(*req.Status)
	}
	if req.ProfilePicture != nil {
		u.ProfilePicture = *req.ProfilePicture
	}
	if req.Skills != nil {
		u.Skills = *req.Skills
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}

	if err := s.UserRepository.Update(ctx, u); err != nil {
		return user.UserResponse{}, err
	}
	return u.ToResponse(), nil
}

// Delete implements user.Service. The store removes the user's day
// records in the same transaction.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return user.ErrUserNotFound
	}
	return s.UserRepository.Delete(ctx, id)
}

// StatsOverview implements user.Service.
func (s *UserServiceImpl) StatsOverview(ctx context.Context) (user.StatsOverviewResponse, error) {
	byRole, byStatus, err := s.UserRepository.CountByRoleAndStatus(ctx)
	if err != nil {
		return user.StatsOverviewResponse{}, fmt.Errorf("count users: %w", err)
	}

	resp := user.StatsOverviewResponse{
		ByRole:   make(map[string]int64, len(byRole)),
		ByStatus: make(map[string]int64, len(byStatus)),
	}
	for role, count := range byRole {
		resp.ByRole[string(role)] = count
		resp.TotalUsers += count
	}
	for status, count := range byStatus {
		resp.ByStatus[string(status)] = count
	}
	resp.ActiveMembers = resp.ByStatus[string(user.StatusActive)]
	return resp, nil
}
