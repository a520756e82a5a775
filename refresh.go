package cogauth

import (
	"context"
	"fmt"

	"github.com/kwpark/cogauth/internal/rpc"
	"github.com/kwpark/cogauth/internal/tokenstore"
)

// RefreshSession exchanges refreshToken for a fresh id/access token pair.
// If a device is registered for this user, its device key is included so
// the server can skip re-verifying the device. The caller must have
// already set a username on this User (via Pool.NewUser) before calling
// RefreshSession — unlike the original JS client this was modeled on,
// where the equivalent restore-username step was commented out and
// silently relied on prior state, this implementation rejects an empty
// username outright.
func (u *User) RefreshSession(ctx context.Context, refreshToken string) error {
	if u.username == "" {
		return fmt.Errorf("%w: username must be set before RefreshSession", ErrInvalidArgument)
	}
	if refreshToken == "" {
		return fmt.Errorf("%w: refresh token is required", ErrInvalidArgument)
	}
	if err := u.acquire(); err != nil {
		return err
	}
	defer u.release()

	params := map[string]string{
		"REFRESH_TOKEN": refreshToken,
	}
	if h := u.pool.secretHash(u.username); h != "" {
		params["SECRET_HASH"] = h
	}
	if u.deviceKey != "" {
		params["DEVICE_KEY"] = u.deviceKey
	}

	out, err := u.pool.facade.InitiateAuth(ctx, rpc.InitiateAuthInput{
		ClientID:       u.pool.clientID,
		AuthFlow:       "REFRESH_TOKEN_AUTH",
		AuthParameters: params,
	})
	if err != nil {
		return err
	}
	if out.AuthenticationResult == nil {
		return fmt.Errorf("%w: %q", ErrUnexpectedChallenge, out.ChallengeName)
	}

	ar := out.AuthenticationResult
	newRefresh := ar.RefreshToken
	if newRefresh == "" {
		// The server may omit RefreshToken on a refresh response; the
		// prior token remains valid and must be carried forward.
		newRefresh = refreshToken
	}

	session := u.newSession(ar.IDToken, ar.AccessToken, newRefresh)
	u.setSession(session)

	return tokenstore.PutTokens(ctx, u.pool.store, u.tokenKeys(), tokenstore.CachedTokens{
		IDToken:      session.IDToken,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

// GetSession resolves a usable Session for this user without requiring a
// fresh password-based handshake: (1) the in-memory Session if still
// valid; (2) the persisted tokens from the Pool's TokenStore if those are
// valid; (3) a refresh using the persisted refresh token; (4) failure.
func (u *User) GetSession(ctx context.Context) (Session, error) {
	if s := u.SignInUserSession(); s.IsValid() {
		return s, nil
	}

	cached, ok, err := tokenstore.GetTokens(ctx, u.pool.store, u.tokenKeys())
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrCorruption, err)
	}
	if ok {
		session := u.newSession(cached.IDToken, cached.AccessToken, cached.RefreshToken)
		if session.IsValid() {
			u.setSession(session)
			return session, nil
		}
		if cached.RefreshToken != "" {
			if err := u.RefreshSession(ctx, cached.RefreshToken); err != nil {
				return Session{}, err
			}
			return u.SignInUserSession(), nil
		}
	}

	return Session{}, ErrNotAuthenticated
}
