package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

// Principal is the caller a token resolved to.
type Principal struct {
	Name string `json:"name"`
}

type Provider interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}
