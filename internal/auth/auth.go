package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/golang-jwt/jwt/v5"
)

type GlobalRole string

const (
	GlobalRoleStudent GlobalRole = "STUDENT"
	GlobalRoleAdmin   GlobalRole = "ADMIN"
)

type ClubRole string

const (
	ClubRoleMember    ClubRole = "MEMBER"
	ClubRoleOrganizer ClubRole = "ORGANIZER"
	ClubRoleHead      ClubRole = "HEAD"
)

func (r ClubRole) Valid() bool {
	switch r {
	case ClubRoleMember, ClubRoleOrganizer, ClubRoleHead:
		return true
	}
	return false
}

// Actor is the authenticated caller, freshly loaded from the store for the
// current request.
type Actor struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	GlobalRole GlobalRole `json:"globalRole"`
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.GlobalRole == GlobalRoleAdmin
}

type ctxKey string

const contextActorKey ctxKey = "actor"

func ActorFromContext(ctx context.Context) (*Actor, bool) {
	a, ok := ctx.Value(contextActorKey).(*Actor)
	return a, ok && a != nil
}

func ContextWithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, contextActorKey, a)
}

var (
	ErrUserNotFound = errors.NewNotFoundError("User not found.", errors.ErrCodeUserNotFound)
	ErrEmailInUse   = errors.NewConflictError("Email is already registered.", errors.ErrCodeEmailInUse)
	ErrUserGone     = errors.NewUnauthorizedError("User no longer exists.", errors.ErrCodeUserNotFound)
	ErrMissingToken = errors.NewUnauthorizedError("Missing authorization token.", errors.ErrCodeInvalidToken)
)

// TokenGenerator issues and verifies access tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID string) (string, time.Time, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims only identify the user. Roles are looked up per request.
type Claims struct {
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

type JWTTokenGenerator struct {
	Secret         []byte
	Issuer         string
	AccessTokenTTL time.Duration
}

func NewJWTTokenGenerator(secret, issuer string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:         []byte(secret),
		Issuer:         issuer,
		AccessTokenTTL: ttl,
	}
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.AccessTokenTTL)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, opts...)

	if err != nil {
		if stdErrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.ErrInvalidToken
	}

	return claims, nil
}
