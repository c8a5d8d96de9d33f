package auth

import "context"

// AuthService issues and verifies credentials. Hashing and token
// mechanics live in internal/pkg; this interface is what handlers see.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (LoginResponse, error)
}
