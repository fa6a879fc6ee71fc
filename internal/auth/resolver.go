package auth

import (
	"context"
	"strings"

	"leadgen-api/internal/domain"
)

// UserLookup loads a user by id. A missing user is reported with a
// domain.KindNotFound error.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Resolver turns a raw Authorization header into a verified user. It reads the
// user from storage on every call.
type Resolver struct {
	codec *TokenCodec
	users UserLookup
}

func NewResolver(codec *TokenCodec, users UserLookup) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// Resolve verifies header and loads the user it names. Failures are one of
// MissingCredential, Expired, InvalidToken, UserNotFound or an upstream error.
func (r *Resolver) Resolve(ctx context.Context, header string) (*domain.User, error) {
	raw, ok := BearerToken(header)
	if !ok {
		return nil, domain.ErrMissingCredential
	}

	userID, err := r.codec.Verify(raw)
	if err != nil {
		return nil, err
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.ErrUpstream("failed to load user", err)
	}
	return user, nil
}

// BearerToken extracts the credential from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
