package cogauth

import (
	"context"
	"fmt"

	"github.com/kwpark/cogauth/internal/rpc"
	"github.com/kwpark/cogauth/internal/tokenstore"
)

// requireSession returns the current valid Session or ErrNotAuthenticated
// without issuing any RPC — every authenticated administrative operation
// is guarded this way before it touches the network.
func (u *User) requireSession() (Session, error) {
	session := u.SignInUserSession()
	if !session.IsValid() {
		return Session{}, ErrNotAuthenticated
	}
	return session, nil
}

// ChangePassword changes the authenticated user's password.
func (u *User) ChangePassword(ctx context.Context, previousPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidArgument)
	}
	session, err := u.requireSession()
	if err != nil {
		return err
	}
	if err := u.acquire(); err != nil {
		return err
	}
	defer u.release()

	return u.pool.facade.ChangePassword(ctx, rpc.ChangePasswordInput{
		AccessToken:      session.AccessToken,
		PreviousPassword: previousPassword,
		NewPassword:      newPassword,
	})
}

// SignOut invalidates every token issued to the authenticated user and
// clears all locally cached state. It is infallible beyond best-effort
// cache clear: local state is always cleared, and any remote
// GlobalSignOut error is returned to the caller for visibility without
// requiring them to retry the local cleanup themselves (unlike the
// original JS client, which called an undefined `self` receiver here,
// Go's explicit receiver makes that class of bug impossible).
func (u *User) SignOut(ctx context.Context) error {
	session := u.SignInUserSession()

	var remoteErr error
	if session.AccessToken != "" {
		remoteErr = u.pool.facade.GlobalSignOut(ctx, rpc.GlobalSignOutInput{AccessToken: session.AccessToken})
	}

	u.setSession(Session{})
	u.resetHandshake()

	if err := tokenstore.RemoveTokens(ctx, u.pool.store, u.tokenKeys()); err != nil && remoteErr == nil {
		return fmt.Errorf("%w: %v", ErrCorruption, err)
	}
	return remoteErr
}

// ForgotPassword starts an unauthenticated password-reset flow. No
// session is required.
func (u *User) ForgotPassword(ctx context.Context) error {
	return u.pool.facade.ForgotPassword(ctx, rpc.ForgotPasswordInput{
		ClientID:   u.pool.clientID,
		Username:   u.username,
		SecretHash: u.pool.secretHash(u.username),
	})
}

// ConfirmForgotPassword completes an unauthenticated password-reset flow.
// No session is required.
func (u *User) ConfirmForgotPassword(ctx context.Context, code, newPassword string) error {
	if code == "" || newPassword == "" {
		return fmt.Errorf("%w: code and new password are required", ErrInvalidArgument)
	}
	return u.pool.facade.ConfirmForgotPassword(ctx, rpc.ConfirmForgotPasswordInput{
		ClientID:         u.pool.clientID,
		Username:         u.username,
		ConfirmationCode: code,
		NewPassword:      newPassword,
		SecretHash:       u.pool.secretHash(u.username),
	})
}

// SetUserSettings updates MFA delivery preferences for the authenticated
// user.
func (u *User) SetUserSettings(ctx context.Context, options []rpc.MFAOption) error {
	session, err := u.requireSession()
	if err != nil {
		return err
	}
	return u.pool.facade.SetUserSettings(ctx, rpc.SetUserSettingsInput{
		AccessToken: session.AccessToken,
		MFAOptions:  options,
	})
}

// GetUser fetches the authenticated user's profile.
func (u *User) GetUser(ctx context.Context) (rpc.GetUserOutput, error) {
	session, err := u.requireSession()
	if err != nil {
		return rpc.GetUserOutput{}, err
	}
	return u.pool.facade.GetUser(ctx, rpc.GetUserInput{AccessToken: session.AccessToken})
}

// UpdateUserAttributes sets one or more attributes on the authenticated
// user.
func (u *User) UpdateUserAttributes(ctx context.Context, attributes map[string]string) error {
	session, err := u.requireSession()
	if err != nil {
		return err
	}
	attrs := make([]rpc.AttributeKV, 0, len(attributes))
	for name, value := range attributes {
		attrs = append(attrs, rpc.AttributeKV{Name: name, Value: value})
	}
	return u.pool.facade.UpdateUserAttributes(ctx, rpc.UpdateUserAttributesInput{
		AccessToken: session.AccessToken,
		Attributes:  attrs,
	})
}

// DeleteUserAttributes removes one or more attributes from the
// authenticated user by name.
func (u *User) DeleteUserAttributes(ctx context.Context, names []string) error {
	session, err := u.requireSession()
	if err != nil {
		return err
	}
	return u.pool.facade.DeleteUserAttributes(ctx, rpc.DeleteUserAttributesInput{
		AccessToken:    session.AccessToken,
		AttributeNames: names,
	})
}

// GetUserAttributeVerificationCode requests a verification code for a
// single attribute (e.g. "email").
func (u *User) GetUserAttributeVerificationCode(ctx context.Context, attributeName string) (rpc.GetUserAttributeVerificationCodeOutput, error) {
	session, err := u.requireSession()
	if err != nil {
		return rpc.GetUserAttributeVerificationCodeOutput{}, err
	}
	return u.pool.facade.GetUserAttributeVerificationCode(ctx, rpc.GetUserAttributeVerificationCodeInput{
		AccessToken:   session.AccessToken,
		AttributeName: attributeName,
	})
}

// VerifyUserAttribute submits a verification code for a single attribute.
func (u *User) VerifyUserAttribute(ctx context.Context, attributeName, code string) error {
	session, err := u.requireSession()
	if err != nil {
		return err
	}
	return u.pool.facade.VerifyUserAttribute(ctx, rpc.VerifyUserAttributeInput{
		AccessToken:   session.AccessToken,
		AttributeName: attributeName,
		Code:          code,
	})
}

// DeleteUser permanently deletes the authenticated user's account. Unlike
// the original JS client, which resolved with a silently dropped second
// argument, this returns a single error.
func (u *User) DeleteUser(ctx context.Context) error {
	session, err := u.requireSession()
	if err != nil {
		return err
	}
	return u.pool.facade.DeleteUser(ctx, rpc.DeleteUserInput{AccessToken: session.AccessToken})
}

// GetDevice fetches metadata for a registered device. Unlike the original
// JS client, which resolved (rather than rejected) when called
// unauthenticated, this returns ErrNotAuthenticated like every sibling
// method.
func (u *User) GetDevice(ctx context.Context, deviceKey string) (rpc.Device, error) {
	session, err := u.requireSession()
	if err != nil {
		return rpc.Device{}, err
	}
	out, err := u.pool.facade.GetDevice(ctx, rpc.GetDeviceInput{AccessToken: session.AccessToken, DeviceKey: deviceKey})
	return out.Device, err
}

// ListDevices lists devices registered against the authenticated user.
func (u *User) ListDevices(ctx context.Context, limit int32, paginationToken string) (rpc.ListDevicesOutput, error) {
	session, err := u.requireSession()
	if err != nil {
		return rpc.ListDevicesOutput{}, err
	}
	return u.pool.facade.ListDevices(ctx, rpc.ListDevicesInput{
		AccessToken:     session.AccessToken,
		Limit:           limit,
		PaginationToken: paginationToken,
	})
}

// UpdateDeviceStatus marks a device as remembered or not-remembered.
func (u *User) UpdateDeviceStatus(ctx context.Context, deviceKey string, remembered bool) error {
	session, err := u.requireSession()
	if err != nil {
		return err
	}
	status := "not_remembered"
	if remembered {
		status = "remembered"
	}
	return u.pool.facade.UpdateDeviceStatus(ctx, rpc.UpdateDeviceStatusInput{
		AccessToken:            session.AccessToken,
		DeviceKey:              deviceKey,
		DeviceRememberedStatus: status,
	})
}
