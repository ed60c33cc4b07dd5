package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"geoquiz-service/internal/domain"
)

// AuthService issues and validates the HMAC tokens that identify players.
type AuthService struct {
	hmac []byte
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{hmac: []byte(secret)}
}

// Claims carry the player identity.
type Claims struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

func (a *AuthService) IssueToken(userID, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:  userID,
		Name: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "geoquiz",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(30 * 24 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ProfileSaver optionally persists guest identities (nil disables it).
type ProfileSaver interface {
	SaveProfile(ctx context.Context, profile domain.Profile) error
}

// GuestLoginHandler mints a fresh guest identity and its bearer token.
// POST /auth/guest -> { access_token, user_id, username }
func GuestLoginHandler(a *AuthService, profiles ProfileSaver) http.HandlerFunc {
	type out struct {
		AccessToken string `json:"access_token"`
		UserID      string `json:"user_id"`
		Username    string `json:"username"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		sfx := strconv.FormatInt(time.Now().UnixNano(), 36)
		userID := "guest-" + sfx
		username := "Guest" + sfx[len(sfx)-4:]

		if profiles != nil {
			_ = profiles.SaveProfile(r.Context(), domain.Profile{
				UserID:    userID,
				Username:  username,
				IsGuest:   true,
				CreatedAt: time.Now(),
			})
		}

		token, err := a.IssueToken(userID, username)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out{AccessToken: token, UserID: userID, Username: username})
	}
}

type contextKey string

const userIDKey contextKey = "userID"

// JWTMiddleware requires a bearer token and stores the player ID in context.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			claims, err := a.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom returns the authenticated player ID, if any.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
