package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/auth"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error)
	ParseAccessToken(tokenString string) (user.Principal, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error) {
	if !role.IsValid() {
		return "", 0, fmt.Errorf("%w: %q", user.ErrInvalidRole, role)
	}
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    tokenTypeAccess,
		"exp":     expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ParseAccessToken verifies tokenString and returns its principal.
func (j *JWTService) ParseAccessToken(tokenString string) (user.Principal, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if errors.Is(err, jwtauth.ErrExpired) {
		return user.Principal{}, auth.ErrTokenExpired
	}
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return user.Principal{}, auth.ErrInvalidToken
	}
	return PrincipalFromClaims(claims)
}

// PrincipalFromClaims reads an access token's claims. Refresh or otherwise
// typed tokens are rejected.
func PrincipalFromClaims(claims map[string]interface{}) (user.Principal, error) {
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != tokenTypeAccess {
		return user.Principal{}, auth.ErrWrongTokenType
	}

	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	roleStr, _ := claims["role"].(string)
	if userID == "" {
		return user.Principal{}, auth.ErrInvalidToken
	}

	role := user.Role(roleStr)
	if !role.IsValid() {
		return user.Principal{}, user.ErrInvalidRole
	}

	return user.Principal{UserID: userID, Email: email, Role: role}, nil
}
