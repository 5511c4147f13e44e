package auth

import (
	"context"
	"crypto/subtle"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
)

// LocalAuthProvider accepts the single API token from the configuration.
type LocalAuthProvider struct {
	Token  string
	logger internal.Logger
}

func NewLocalAuthProvider(token string, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{Token: token, logger: logger}
}

func (a *LocalAuthProvider) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if a.Token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.Token)) == 1 {
		return &Principal{Name: "owner"}, nil
	}
	a.logger.Warnf("auth: rejected token of length %d", len(token))
	return nil, ErrInvalidToken
}

var _ Provider = (*LocalAuthProvider)(nil)
