package cogauth

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/kwpark/cogauth/internal/proof"
	"github.com/kwpark/cogauth/internal/rpc"
	"github.com/kwpark/cogauth/internal/srp"
	"github.com/kwpark/cogauth/internal/tokenstore"
)

// User is the authentication state machine for a single username against
// a Pool. It is not safe to use one User from two goroutines
// concurrently — attempts to start an operation while another is in
// flight fail with ErrBusy.
type User struct {
	username string
	pool     *Pool

	mu   sync.Mutex
	busy bool

	sessionMu     sync.RWMutex
	session       Session
	serverSession string

	// srpUserID is the identifier used in SRP hashing and challenge
	// responses for the remainder of a handshake. It starts empty and is
	// set once the server rewrites USERNAME to USER_ID_FOR_SRP in a
	// PASSWORD_VERIFIER challenge; srpUsername falls back to username
	// until then.
	srpUserID string

	deviceKey      string
	deviceGroupKey string
	randomPassword string

	engine *srp.Engine

	lastDeviceConfirmation *DeviceConfirmationResult

	now func() time.Time
}

// DeviceConfirmationResult reports the outcome of the best-effort
// confirm-device ceremony run after a login that returned
// NewDeviceMetadata. A failed confirmation never fails the login itself.
type DeviceConfirmationResult struct {
	UserConfirmationNecessary bool
	Err                       error
}

// Username returns the username this User was constructed with. The
// identifier used in SRP hashing may differ after the server rewrites it
// to USER_ID_FOR_SRP; Username always reports the caller-facing value.
func (u *User) Username() string { return u.username }

// SignInUserSession returns the current cached Session, which may be the
// zero value if the user has never completed a handshake this process.
func (u *User) SignInUserSession() Session {
	u.sessionMu.RLock()
	defer u.sessionMu.RUnlock()
	return u.session
}

// LastDeviceConfirmation returns the outcome of the most recent
// confirm-device ceremony, or nil if none has run.
func (u *User) LastDeviceConfirmation() *DeviceConfirmationResult {
	return u.lastDeviceConfirmation
}

func (u *User) clock() time.Time {
	if u.now != nil {
		return u.now()
	}
	return time.Now()
}

func (u *User) acquire() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.busy {
		return ErrBusy
	}
	u.busy = true
	return nil
}

func (u *User) release() {
	u.mu.Lock()
	u.busy = false
	u.mu.Unlock()
}

// newSession builds a Session carrying this User's clock override, so
// IsValid checks it against the same time source as the rest of the
// handshake rather than the real wall clock.
func (u *User) newSession(idToken, accessToken, refreshToken string) Session {
	s := NewSession(idToken, accessToken, refreshToken)
	s.now = u.now
	return s
}

func (u *User) setSession(s Session) {
	u.sessionMu.Lock()
	u.session = s
	u.sessionMu.Unlock()
}

func (u *User) setServerSession(s string) {
	u.sessionMu.Lock()
	u.serverSession = s
	u.sessionMu.Unlock()
}

func (u *User) getServerSession() string {
	u.sessionMu.RLock()
	defer u.sessionMu.RUnlock()
	return u.serverSession
}

// resetHandshake clears all transient per-handshake state, as happens on
// any error or at the end of a successful terminus.
func (u *User) resetHandshake() {
	u.setServerSession("")
	u.engine = nil
}

// srpUsername returns the identifier to use in SRP hashing and challenge
// "USERNAME" fields: the server-rewritten USER_ID_FOR_SRP once a
// PASSWORD_VERIFIER challenge has supplied one, the caller-supplied
// username otherwise.
func (u *User) srpUsername() string {
	if u.srpUserID != "" {
		return u.srpUserID
	}
	return u.username
}

func (u *User) tokenKeys() tokenstore.Keys {
	return tokenstore.Keys{ClientID: u.pool.clientID, Username: u.username}
}

// AuthFlow selects which top-level InitiateAuth flow a User drives: the
// password-backed USER_SRP_AUTH handshake, or the passwordless
// CUSTOM_AUTH handshake (the server still runs the SRP exchange, but the
// terminal challenge is a CUSTOM_CHALLENGE rather than PASSWORD_VERIFIER).
type AuthFlow string

const (
	AuthFlowUserSRP AuthFlow = "USER_SRP_AUTH"
	AuthFlowCustom  AuthFlow = "CUSTOM_AUTH"
)

// InitiateAuth begins a fresh SRP handshake with the given password using
// USER_SRP_AUTH. It returns a non-nil ChallengeRequired if the server
// demands a further step, or (nil, nil) once terminal
// AuthenticationResult tokens have been cached.
func (u *User) InitiateAuth(ctx context.Context, password string) (ChallengeRequired, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}
	return u.initiateAuth(ctx, AuthFlowUserSRP, password)
}

// InitiateCustomAuth begins a fresh SRP handshake using CUSTOM_AUTH: the
// server still runs the SRP exchange (CHALLENGE_NAME=SRP_A signals this to
// the server), but the flow terminates in a CUSTOM_CHALLENGE rather than a
// password check, so no password is required from the caller.
func (u *User) InitiateCustomAuth(ctx context.Context) (ChallengeRequired, error) {
	return u.initiateAuth(ctx, AuthFlowCustom, "")
}

func (u *User) initiateAuth(ctx context.Context, flow AuthFlow, password string) (ChallengeRequired, error) {
	if err := u.acquire(); err != nil {
		return nil, err
	}
	defer u.release()

	engine, err := srp.NewEngine(u.pool.realmID, u.pool.paranoia)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	A, err := engine.LargeAValue()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	u.engine = engine

	params := map[string]string{
		"USERNAME": u.username,
		"SRP_A":    A.Text(16),
	}
	if flow == AuthFlowCustom {
		params["CHALLENGE_NAME"] = "SRP_A"
	}
	if h := u.pool.secretHash(u.username); h != "" {
		params["SECRET_HASH"] = h
	}
	if u.deviceKey != "" {
		params["DEVICE_KEY"] = u.deviceKey
	}

	out, err := u.pool.facade.InitiateAuth(ctx, rpc.InitiateAuthInput{
		ClientID:       u.pool.clientID,
		AuthFlow:       string(flow),
		AuthParameters: params,
	})
	if err != nil {
		u.resetHandshake()
		return nil, err
	}

	if out.ChallengeName == "PASSWORD_VERIFIER" {
		return u.respondPasswordVerifier(ctx, password, out)
	}
	challenge, err := u.dispatch(ctx, out)
	if err != nil {
		u.resetHandshake()
	}
	return challenge, err
}

// respondPasswordVerifier computes the HKDF proof from the server's
// challenge parameters and answers with PASSWORD_VERIFIER.
func (u *User) respondPasswordVerifier(ctx context.Context, password string, out rpc.AuthChallengeOutput) (ChallengeRequired, error) {
	params := out.ChallengeParameters
	srpUserID := params["USER_ID_FOR_SRP"]
	if srpUserID == "" {
		srpUserID = u.username
	}
	u.srpUserID = srpUserID

	salt, ok := new(big.Int).SetString(params["SALT"], 16)
	if !ok {
		u.resetHandshake()
		return nil, fmt.Errorf("%w: server returned malformed SALT", ErrCryptoFailure)
	}
	serverB, ok := new(big.Int).SetString(params["SRP_B"], 16)
	if !ok {
		u.resetHandshake()
		return nil, fmt.Errorf("%w: server returned malformed SRP_B", ErrCryptoFailure)
	}
	secretBlockRaw := params["SECRET_BLOCK"]
	secretBlock, err := base64.StdEncoding.DecodeString(secretBlockRaw)
	if err != nil {
		u.resetHandshake()
		return nil, fmt.Errorf("%w: server returned malformed SECRET_BLOCK", ErrCryptoFailure)
	}

	hkdfKey, err := u.engine.PasswordAuthenticationKey(srpUserID, password, serverB, salt)
	if err != nil {
		u.resetHandshake()
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}

	sig, ts := proof.Build(hkdfKey, u.pool.realmID, srpUserID, secretBlock, u.clock())

	responses := map[string]string{
		"USERNAME":                   srpUserID,
		"PASSWORD_CLAIM_SECRET_BLOCK": secretBlockRaw,
		"TIMESTAMP":                  ts,
		"PASSWORD_CLAIM_SIGNATURE":   sig,
	}
	if h := u.pool.secretHash(srpUserID); h != "" {
		responses["SECRET_HASH"] = h
	}
	if u.deviceKey != "" {
		responses["DEVICE_KEY"] = u.deviceKey
	}

	resp, err := u.pool.facade.RespondToAuthChallenge(ctx, rpc.RespondToAuthChallengeInput{
		ClientID:           u.pool.clientID,
		ChallengeName:      "PASSWORD_VERIFIER",
		Session:            out.Session,
		ChallengeResponses: responses,
	})
	if err != nil {
		u.resetHandshake()
		return nil, err
	}

	challenge, err := u.dispatch(ctx, resp)
	if err != nil {
		u.resetHandshake()
	}
	return challenge, err
}

// dispatch inspects an AuthChallengeOutput's ChallengeName and routes to
// the matching handler, or finalizes the session when an
// AuthenticationResult is present.
func (u *User) dispatch(ctx context.Context, out rpc.AuthChallengeOutput) (ChallengeRequired, error) {
	if out.AuthenticationResult != nil {
		return nil, u.finish(ctx, out.AuthenticationResult)
	}

	switch out.ChallengeName {
	case "NEW_PASSWORD_REQUIRED":
		u.setServerSession(out.Session)
		return u.newPasswordChallenge(out.ChallengeParameters), nil
	case "SMS_MFA":
		u.setServerSession(out.Session)
		return MfaRequired{}, nil
	case "CUSTOM_CHALLENGE":
		u.setServerSession(out.Session)
		return CustomChallenge{ChallengeParameters: out.ChallengeParameters}, nil
	case "DEVICE_SRP_AUTH":
		return u.deviceSRPHandshake(ctx, out)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedChallenge, out.ChallengeName)
	}
}

func (u *User) newPasswordChallenge(params map[string]string) NewPasswordRequired {
	attrs := make(map[string]string)
	var required []string
	for k, v := range params {
		switch k {
		case "requiredAttributes":
			for _, raw := range strings.Split(strings.Trim(v, "[]"), ",") {
				name := strings.TrimSpace(strings.Trim(raw, `"`))
				name = strings.TrimPrefix(name, requiredAttributePrefix)
				if name != "" {
					required = append(required, name)
				}
			}
		case "userAttributes":
			// userAttributes is an opaque server-formatted blob in the
			// real response; callers that need structured attributes
			// use GetUser after authenticating. Here it is carried
			// through verbatim under its own key.
			attrs["userAttributes"] = v
		default:
			attrs[k] = v
		}
	}
	return NewPasswordRequired{UserAttributes: attrs, Required: required}
}

// CompleteNewPasswordChallenge answers a NEW_PASSWORD_REQUIRED challenge.
// requiredAttributes maps the unprefixed attribute name (as reported in
// NewPasswordRequired.Required) to its value.
func (u *User) CompleteNewPasswordChallenge(ctx context.Context, newPassword string, requiredAttributes map[string]string) (ChallengeRequired, error) {
	if newPassword == "" {
		return nil, fmt.Errorf("%w: new password is required", ErrInvalidArgument)
	}
	if err := u.acquire(); err != nil {
		return nil, err
	}
	defer u.release()

	responses := map[string]string{
		"NEW_PASSWORD": newPassword,
		"USERNAME":     u.srpUsername(),
	}
	for k, v := range requiredAttributes {
		responses[requiredAttributePrefix+k] = v
	}
	if h := u.pool.secretHash(u.srpUsername()); h != "" {
		responses["SECRET_HASH"] = h
	}

	out, err := u.pool.facade.RespondToAuthChallenge(ctx, rpc.RespondToAuthChallengeInput{
		ClientID:           u.pool.clientID,
		ChallengeName:      "NEW_PASSWORD_REQUIRED",
		Session:            u.getServerSession(),
		ChallengeResponses: responses,
	})
	if err != nil {
		u.resetHandshake()
		return nil, err
	}

	challenge, err := u.dispatch(ctx, out)
	if err != nil {
		u.resetHandshake()
	}
	return challenge, err
}

// SendMFACode answers an SMS_MFA challenge with the one-time code.
func (u *User) SendMFACode(ctx context.Context, code string) (ChallengeRequired, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidArgument)
	}
	if err := u.acquire(); err != nil {
		return nil, err
	}
	defer u.release()

	responses := map[string]string{
		"SMS_MFA_CODE": code,
		"USERNAME":     u.srpUsername(),
	}
	if u.deviceKey != "" {
		responses["DEVICE_KEY"] = u.deviceKey
	}
	if h := u.pool.secretHash(u.srpUsername()); h != "" {
		responses["SECRET_HASH"] = h
	}

	out, err := u.pool.facade.RespondToAuthChallenge(ctx, rpc.RespondToAuthChallengeInput{
		ClientID:           u.pool.clientID,
		ChallengeName:      "SMS_MFA",
		Session:            u.getServerSession(),
		ChallengeResponses: responses,
	})
	if err != nil {
		u.resetHandshake()
		return nil, err
	}

	challenge, err := u.dispatch(ctx, out)
	if err != nil {
		u.resetHandshake()
	}
	return challenge, err
}

// SendCustomChallengeAnswer answers a CUSTOM_CHALLENGE. The server may
// chain another CUSTOM_CHALLENGE in response, which this only ever reads
// off the current response (the original JS client this is modeled on
// referenced a stale out-of-scope variable here; there is no equivalent
// bug possible in Go since dispatch only ever sees the response it was
// just handed).
func (u *User) SendCustomChallengeAnswer(ctx context.Context, answer string) (ChallengeRequired, error) {
	if err := u.acquire(); err != nil {
		return nil, err
	}
	defer u.release()

	responses := map[string]string{
		"ANSWER":   answer,
		"USERNAME": u.srpUsername(),
	}
	if h := u.pool.secretHash(u.srpUsername()); h != "" {
		responses["SECRET_HASH"] = h
	}

	out, err := u.pool.facade.RespondToAuthChallenge(ctx, rpc.RespondToAuthChallengeInput{
		ClientID:           u.pool.clientID,
		ChallengeName:      "CUSTOM_CHALLENGE",
		Session:            u.getServerSession(),
		ChallengeResponses: responses,
	})
	if err != nil {
		u.resetHandshake()
		return nil, err
	}

	challenge, err := u.dispatch(ctx, out)
	if err != nil {
		u.resetHandshake()
	}
	return challenge, err
}

// finish caches a terminal AuthenticationResult as the current Session
// and, best-effort, runs the confirm-device ceremony if the server asked
// for one. It never returns an error for a confirm-device failure; the
// login itself has already succeeded.
func (u *User) finish(ctx context.Context, ar *rpc.AuthenticationResult) error {
	session := u.newSession(ar.IDToken, ar.AccessToken, ar.RefreshToken)
	u.setSession(session)
	u.resetHandshake()

	if err := tokenstore.PutTokens(ctx, u.pool.store, u.tokenKeys(), tokenstore.CachedTokens{
		IDToken:      session.IDToken,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruption, err)
	}

	if ar.NewDeviceMetadata != nil {
		u.confirmDevice(ctx, ar.NewDeviceMetadata.DeviceGroupKey, ar.NewDeviceMetadata.DeviceKey, session.AccessToken)
	}
	return nil
}
