package auth

import "errors"

// Bearer token failures. All map to 401.
var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("token is not an access token")
)
