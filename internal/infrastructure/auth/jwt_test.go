package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	redis "github.com/redis/go-redis/v9"

	cacheadapter "github.com/emalsert/sr03devoir2/internal/infrastructure/cache/adapter"
	repository "github.com/emalsert/sr03devoir2/internal/repository/port"
)

const testSecret = "unit-test-secret"

type staticUserRepository struct {
	users map[string]repository.User
	calls int
}

func (r *staticUserRepository) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	r.calls++
	u, ok := r.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *staticUserRepository) GetByID(_ context.Context, id int64) (*repository.User, error) {
	for _, u := range r.users {
		if u.UserID == id {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func signToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTVerifierResolve(t *testing.T) {
	ctx := context.Background()
	users := &staticUserRepository{users: map[string]repository.User{
		"alice@example.com": {UserID: 7, Email: "alice@example.com", Role: "USER"},
	}}
	v := NewJWTVerifier(testSecret, users, nil)

	t.Run("valid token resolves the user", func(t *testing.T) {
		identity, err := v.Resolve(ctx, signToken(t, testSecret, "alice@example.com", time.Hour))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if identity.UserID != 7 || identity.Email != "alice@example.com" {
			t.Errorf("identity = %+v", identity)
		}
		if identity.IsAnonymous() {
			t.Error("resolved identity must not be anonymous")
		}
	})

	t.Run("wrong signature", func(t *testing.T) {
		_, err := v.Resolve(ctx, signToken(t, "other-secret", "alice@example.com", time.Hour))
		if err == nil {
			t.Fatal("expected error for forged token")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		_, err := v.Resolve(ctx, signToken(t, testSecret, "alice@example.com", -time.Minute))
		if err == nil {
			t.Fatal("expected error for expired token")
		}
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := v.Resolve(ctx, signToken(t, testSecret, "nobody@example.com", time.Hour))
		if err == nil {
			t.Fatal("expected error for unknown user")
		}
	})

	t.Run("empty credential", func(t *testing.T) {
		identity, err := v.Resolve(ctx, "")
		if err == nil {
			t.Fatal("expected error for empty credential")
		}
		if !identity.IsAnonymous() {
			t.Errorf("expected anonymous identity, got %+v", identity)
		}
	})
}

func TestJWTVerifierCaching(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := cacheadapter.NewRedisCacheFromClient(client)

	users := &staticUserRepository{users: map[string]repository.User{
		"alice@example.com": {UserID: 7, Email: "alice@example.com"},
	}}
	v := NewJWTVerifier(testSecret, users, cache)
	token := signToken(t, testSecret, "alice@example.com", time.Hour)

	t.Run("second resolve hits the cache", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			identity, err := v.Resolve(ctx, token)
			if err != nil {
				t.Fatalf("resolve %d failed: %v", i, err)
			}
			if identity.UserID != 7 {
				t.Errorf("resolve %d identity = %+v", i, identity)
			}
		}
		if users.calls != 1 {
			t.Errorf("expected one repository lookup, got %d", users.calls)
		}
	})

	t.Run("cache expiry falls back to the repository", func(t *testing.T) {
		mr.FastForward(10 * time.Minute)
		if _, err := v.Resolve(ctx, token); err != nil {
			t.Fatalf("resolve after expiry failed: %v", err)
		}
		if users.calls != 2 {
			t.Errorf("expected repository lookup after cache expiry, got %d calls", users.calls)
		}
	})
}
