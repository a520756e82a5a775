package cogauth

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/kwpark/cogauth/internal/proof"
	"github.com/kwpark/cogauth/internal/rpc"
	"github.com/kwpark/cogauth/internal/srp"
	"github.com/kwpark/cogauth/internal/tokenstore"
)

// deviceSRPHandshake runs the device-SRP sub-handshake triggered when the
// top-level challenge is DEVICE_SRP_AUTH: a fresh SRP engine scoped to the
// device group key, substituting the device's random password for the
// user's.
func (u *User) deviceSRPHandshake(ctx context.Context, out rpc.AuthChallengeOutput) (ChallengeRequired, error) {
	if u.deviceKey == "" || u.deviceGroupKey == "" || u.randomPassword == "" {
		return nil, fmt.Errorf("%w: device-SRP challenge received but no device is registered", ErrCryptoFailure)
	}

	engine, err := srp.NewEngine(u.deviceGroupKey, u.pool.paranoia)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	A, err := engine.LargeAValue()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	u.engine = engine

	initIn := rpc.RespondToAuthChallengeInput{
		ClientID:      u.pool.clientID,
		ChallengeName: "DEVICE_SRP_AUTH",
		Session:       out.Session,
		ChallengeResponses: map[string]string{
			"USERNAME":   u.srpUsername(),
			"DEVICE_KEY": u.deviceKey,
			"SRP_A":      A.Text(16),
		},
	}
	if h := u.pool.secretHash(u.srpUsername()); h != "" {
		initIn.ChallengeResponses["SECRET_HASH"] = h
	}
	initResp, err := u.pool.facade.RespondToAuthChallenge(ctx, initIn)
	if err != nil {
		return nil, err
	}

	params := initResp.ChallengeParameters
	salt, ok := new(big.Int).SetString(params["SALT"], 16)
	if !ok {
		return nil, fmt.Errorf("%w: server returned malformed SALT", ErrCryptoFailure)
	}
	serverB, ok := new(big.Int).SetString(params["SRP_B"], 16)
	if !ok {
		return nil, fmt.Errorf("%w: server returned malformed SRP_B", ErrCryptoFailure)
	}
	secretBlockRaw := params["SECRET_BLOCK"]
	secretBlock, err := base64.StdEncoding.DecodeString(secretBlockRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: server returned malformed SECRET_BLOCK", ErrCryptoFailure)
	}

	hkdfKey, err := engine.PasswordAuthenticationKey(u.deviceKey, u.randomPassword, serverB, salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}

	sig, ts := proof.Build(hkdfKey, u.deviceGroupKey, u.deviceKey, secretBlock, u.clock())

	verifierIn := rpc.RespondToAuthChallengeInput{
		ClientID:      u.pool.clientID,
		ChallengeName: "DEVICE_PASSWORD_VERIFIER",
		Session:       initResp.Session,
		ChallengeResponses: map[string]string{
			"USERNAME":                   u.srpUsername(),
			"DEVICE_KEY":                 u.deviceKey,
			"PASSWORD_CLAIM_SECRET_BLOCK": secretBlockRaw,
			"TIMESTAMP":                  ts,
			"PASSWORD_CLAIM_SIGNATURE":   sig,
		},
	}
	if h := u.pool.secretHash(u.srpUsername()); h != "" {
		verifierIn.ChallengeResponses["SECRET_HASH"] = h
	}
	resp, err := u.pool.facade.RespondToAuthChallenge(ctx, verifierIn)
	if err != nil {
		return nil, err
	}

	return u.dispatch(ctx, resp)
}

// confirmDevice runs the confirm-device ceremony for a freshly issued
// NewDeviceMetadata, best-effort: failure here never fails the login that
// triggered it, but is recorded for the caller via LastDeviceConfirmation.
func (u *User) confirmDevice(ctx context.Context, deviceGroupKey, deviceKey, accessToken string) {
	result := &DeviceConfirmationResult{}
	defer func() { u.lastDeviceConfirmation = result }()

	dv, err := srp.GenerateHashDevice(deviceGroupKey, deviceKey)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrCryptoFailure, err)
		return
	}

	deviceName := uuid.New().String()

	out, err := u.pool.facade.ConfirmDevice(ctx, rpc.ConfirmDeviceInput{
		AccessToken: accessToken,
		DeviceKey:   deviceKey,
		DeviceSecretVerifierConfig: rpc.DeviceSecretVerifierConfig{
			PasswordVerifier: base64.StdEncoding.EncodeToString(dv.VerifierDevices.Bytes()),
			Salt:             base64.StdEncoding.EncodeToString(dv.SaltDevices.Bytes()),
		},
		DeviceName: deviceName,
	})
	if err != nil {
		result.Err = err
		return
	}
	result.UserConfirmationNecessary = out.UserConfirmationNecessary

	u.deviceKey = deviceKey
	u.deviceGroupKey = deviceGroupKey
	u.randomPassword = dv.RandomPassword

	if err := tokenstore.PutDevice(ctx, u.pool.store, u.tokenKeys(), tokenstore.CachedDevice{
		DeviceKey:      deviceKey,
		DeviceGroupKey: deviceGroupKey,
		RandomPassword: dv.RandomPassword,
	}); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrCorruption, err)
	}
}

// LoadPersistedDevice populates this User's device material from the
// Pool's TokenStore, if any was saved by a prior confirm-device ceremony.
// Callers that want a returning device to answer a DEVICE_SRP_AUTH
// challenge with its device password must call this before InitiateAuth.
// InitiateAuth still requires the user's password; the device-SRP
// sub-handshake itself does not use it.
func (u *User) LoadPersistedDevice(ctx context.Context) error {
	device, ok, err := tokenstore.GetDevice(ctx, u.pool.store, u.tokenKeys())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruption, err)
	}
	if !ok {
		return nil
	}
	u.deviceKey = device.DeviceKey
	u.deviceGroupKey = device.DeviceGroupKey
	u.randomPassword = device.RandomPassword
	return nil
}

// ForgetDevice removes the locally and remotely registered device. Local
// device material is cleared regardless of whether the remote call
// succeeds, since the device secret is unusable either way once the
// caller has asked to forget it.
func (u *User) ForgetDevice(ctx context.Context) error {
	if err := u.acquire(); err != nil {
		return err
	}
	defer u.release()

	session := u.SignInUserSession()
	if !session.IsValid() {
		return ErrNotAuthenticated
	}
	if u.deviceKey == "" {
		return nil
	}

	remoteErr := u.pool.facade.ForgetDevice(ctx, rpc.ForgetDeviceInput{
		AccessToken: session.AccessToken,
		DeviceKey:   u.deviceKey,
	})

	u.deviceKey = ""
	u.deviceGroupKey = ""
	u.randomPassword = ""
	if err := tokenstore.RemoveDevice(ctx, u.pool.store, u.tokenKeys()); err != nil && remoteErr == nil {
		return fmt.Errorf("%w: %v", ErrCorruption, err)
	}
	return remoteErr
}
