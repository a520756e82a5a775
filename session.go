package cogauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the three-token bundle returned by a successful
// authentication: identity, access, and refresh tokens. Tokens are opaque
// strings to the core beyond reading their expiry; signatures are never
// verified (the core trusts the TLS channel to the identity provider, not
// the token itself).
type Session struct {
	IDToken      string
	AccessToken  string
	RefreshToken string

	// now overrides the wall clock used by IsValid, for tests. A nil
	// value means time.Now.
	now func() time.Time
}

// NewSession builds a Session from the three raw token strings returned in
// an AuthenticationResult.
func NewSession(idToken, accessToken, refreshToken string) Session {
	return Session{IDToken: idToken, AccessToken: accessToken, RefreshToken: refreshToken}
}

// IsValid reports whether all three tokens are present and the identity
// and access tokens parse as JWTs and have not yet expired. The refresh
// token is only checked for presence; it is never parsed. It never checks
// a signature — only shape and expiry claims.
func (s Session) IsValid() bool {
	if s.IDToken == "" || s.AccessToken == "" || s.RefreshToken == "" {
		return false
	}
	return !s.isExpired(s.IDToken) && !s.isExpired(s.AccessToken)
}

func (s Session) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// isExpired parses token without verifying its signature and reports
// whether its "exp" claim is at or before the current time, or the token
// is unparseable.
func (s Session) isExpired(token string) bool {
	exp, ok := expiry(token)
	if !ok {
		return true
	}
	return !s.clock().Before(exp)
}

// expiry extracts the "exp" claim from an unverified JWT.
func expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil || parsed == nil {
		return time.Time{}, false
	}

	expClaim, err := claims.GetExpirationTime()
	if err != nil || expClaim == nil {
		return time.Time{}, false
	}
	return expClaim.Time, true
}
