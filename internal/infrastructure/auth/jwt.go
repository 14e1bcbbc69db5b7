package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	cacheport "github.com/emalsert/sr03devoir2/internal/infrastructure/cache/port"
	repository "github.com/emalsert/sr03devoir2/internal/repository/port"
)

const identityCacheTTL = 5 * time.Minute

// JWTVerifier resolves HMAC-signed bearer tokens whose subject claim is the
// user's email. The email-to-user lookup goes through the user repository
// with an optional cache in front, since the websocket path resolves the
// same identity on every reconnect.
type JWTVerifier struct {
	secret []byte
	users  repository.UserRepository
	cache  cacheport.Cache // nil disables caching
}

// NewJWTVerifier constructs a verifier. cache may be nil.
func NewJWTVerifier(secret string, users repository.UserRepository, cache cacheport.Cache) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), users: users, cache: cache}
}

var _ Verifier = (*JWTVerifier)(nil)

// Resolve parses and validates the token and returns the caller identity.
// Any failure (bad signature, expired token, unknown user) is an error;
// callers decide whether that means rejection or an anonymous session.
func (v *JWTVerifier) Resolve(ctx context.Context, credential string) (Identity, error) {
	if credential == "" {
		return Anonymous, errors.New("auth: empty credential")
	}

	token, err := jwt.ParseWithClaims(credential, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Anonymous, fmt.Errorf("auth: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return Anonymous, errors.New("auth: token missing subject claim")
	}
	email := claims.Subject

	if id, ok := v.cachedUserID(ctx, email); ok {
		return Identity{UserID: id, Email: email}, nil
	}

	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		return Anonymous, fmt.Errorf("auth: resolve %q: %w", email, err)
	}

	v.cacheUserID(ctx, email, user.UserID)
	return Identity{UserID: user.UserID, Email: user.Email, Role: user.Role}, nil
}

func identityCacheKey(email string) string {
	return "auth:user:" + email
}

func (v *JWTVerifier) cachedUserID(ctx context.Context, email string) (int64, bool) {
	if v.cache == nil {
		return 0, false
	}
	raw, err := v.cache.Get(ctx, identityCacheKey(email))
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (v *JWTVerifier) cacheUserID(ctx context.Context, email string, id int64) {
	if v.cache == nil {
		return
	}
	_ = v.cache.Set(ctx, identityCacheKey(email), strconv.FormatInt(id, 10), identityCacheTTL)
}
