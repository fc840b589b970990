package auth

import (
	"errors"
	"fmt"
)

// Common authentication service errors. Every access-token failure other
// than expiry matches ErrInvalidToken with errors.Is.
var (
	// ErrInvalidToken is the class of all structurally or cryptographically bad tokens.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrInvalidSignature indicates the token was signed with another key or algorithm.
	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)

	// ErrMalformedToken indicates the token could not be decoded or lacks required claims.
	ErrMalformedToken = fmt.Errorf("%w: malformed token", ErrInvalidToken)

	// ErrTokenNotYetValid indicates the token is not yet valid (iat or nbf in the future)
	ErrTokenNotYetValid = fmt.Errorf("%w: not yet valid", ErrInvalidToken)

	// ErrWrongTokenType indicates a refresh token was used as an access token or vice versa.
	ErrWrongTokenType = fmt.Errorf("%w: wrong token type", ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidRefreshToken indicates the refresh token cannot be used.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired.
	ErrExpiredRefreshToken = errors.New("refresh token has expired")
)
