// Package rpc adapts the remote identity service's wire operations to a
// small Go interface the rest of the module depends on, so the state
// machine in the root package can be exercised against a hand-written fake
// instead of the network.
package rpc

import "context"

// Facade is the set of remote operations the auth core (and its callers,
// through the authenticated User) need. One interface covers both the SRP
// handshake operations and the administrative passthroughs so a single
// authenticated session is the one seam for all of them.
type Facade interface {
	InitiateAuth(ctx context.Context, in InitiateAuthInput) (AuthChallengeOutput, error)
	RespondToAuthChallenge(ctx context.Context, in RespondToAuthChallengeInput) (AuthChallengeOutput, error)
	ConfirmDevice(ctx context.Context, in ConfirmDeviceInput) (ConfirmDeviceOutput, error)
	ConfirmSignUp(ctx context.Context, in ConfirmSignUpInput) error
	ResendConfirmationCode(ctx context.Context, in ResendConfirmationCodeInput) error
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
	SetUserSettings(ctx context.Context, in SetUserSettingsInput) error
	DeleteUser(ctx context.Context, in DeleteUserInput) error
	UpdateUserAttributes(ctx context.Context, in UpdateUserAttributesInput) error
	GetUser(ctx context.Context, in GetUserInput) (GetUserOutput, error)
	DeleteUserAttributes(ctx context.Context, in DeleteUserAttributesInput) error
	ForgotPassword(ctx context.Context, in ForgotPasswordInput) error
	ConfirmForgotPassword(ctx context.Context, in ConfirmForgotPasswordInput) error
	GetUserAttributeVerificationCode(ctx context.Context, in GetUserAttributeVerificationCodeInput) (GetUserAttributeVerificationCodeOutput, error)
	VerifyUserAttribute(ctx context.Context, in VerifyUserAttributeInput) error
	GetDevice(ctx context.Context, in GetDeviceInput) (GetDeviceOutput, error)
	ForgetDevice(ctx context.Context, in ForgetDeviceInput) error
	UpdateDeviceStatus(ctx context.Context, in UpdateDeviceStatusInput) error
	ListDevices(ctx context.Context, in ListDevicesInput) (ListDevicesOutput, error)
	GlobalSignOut(ctx context.Context, in GlobalSignOutInput) error
}
