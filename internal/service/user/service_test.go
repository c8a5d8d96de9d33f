package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrocketry/attendee-backend-go/internal/domain/user"
)

const testUserID = "6f1f8a4e-9c3b-4d2a-8e5f-1b7c9d0a2e4f"

// fakeUserRepo implements the subset of user.UserRepository the user
// service touches; the embedded interface panics on anything else.
type fakeUserRepo struct {
	user.UserRepository
	byID    map[string]user.User
	updated []user.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u user.User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	r.byID[u.ID] = u
	r.updated = append(r.updated, u)
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func newTestUserService(users ...user.User) (user.Service, *fakeUserRepo) {
	repo := &fakeUserRepo{byID: make(map[string]user.User)}
	for _, u := range users {
		repo.byID[u.ID] = u
	}
	return NewUserService(repo), repo
}

func TestUpdate_PatchesProvidedFields(t *testing.T) {
	svc, repo := newTestUserService(user.User{
		ID:     testUserID,
		Name:   "Asha",
		Email:  "asha@xrocketry.in",
		Role:   user.RoleMember,
		Status: user.StatusActive,
	})

	name := "Asha K"
	status := "inactive"
	resp, err := svc.Update(context.Background(), user.UpdateUserRequest{
		ID:     testUserID,
		Name:   &name,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", resp.Name)
	assert.Equal(t, "inactive", resp.Status)
	// Untouched fields survive the patch.
	assert.Equal(t, "asha@xrocketry.in", resp.Email)
	require.Len(t, repo.updated, 1)
}

// A malformed path id is a lookup miss, not a store error. Get, Update
// and Delete all reject it before the repository sees it.
func TestUpdate_MalformedIDIsNotFound(t *testing.T) {
	svc, repo := newTestUserService()

	name := "X"
	_, err := svc.Update(context.Background(), user.UpdateUserRequest{
		ID:   "not-a-uuid",
		Name: &name,
	})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.Empty(t, repo.updated)
}

func TestGetAndDelete_MalformedIDIsNotFound(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	err = svc.Delete(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUpdate_RejectsUnknownRole(t *testing.T) {
	svc, _ := newTestUserService(user.User{ID: testUserID, Status: user.StatusActive})

	role := "superuser"
	_, err := svc.Update(context.Background(), user.UpdateUserRequest{
		ID:   testUserID,
		Role: &role,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "role")
}
