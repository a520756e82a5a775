package cogauth

import (
	"context"

	"github.com/kwpark/cogauth/internal/rpc"
)

// fakeFacade is a hand-written stand-in for rpc.Facade, matching the
// teacher repo's mockCognitoClient pattern: one function field per
// operation, nil fields panic if called so a test only wires what it
// actually exercises.
type fakeFacade struct {
	initiateAuthFn                      func(ctx context.Context, in rpc.InitiateAuthInput) (rpc.AuthChallengeOutput, error)
	respondToAuthChallengeFn            func(ctx context.Context, in rpc.RespondToAuthChallengeInput) (rpc.AuthChallengeOutput, error)
	confirmDeviceFn                     func(ctx context.Context, in rpc.ConfirmDeviceInput) (rpc.ConfirmDeviceOutput, error)
	confirmSignUpFn                     func(ctx context.Context, in rpc.ConfirmSignUpInput) error
	resendConfirmationCodeFn            func(ctx context.Context, in rpc.ResendConfirmationCodeInput) error
	changePasswordFn                    func(ctx context.Context, in rpc.ChangePasswordInput) error
	setUserSettingsFn                   func(ctx context.Context, in rpc.SetUserSettingsInput) error
	deleteUserFn                        func(ctx context.Context, in rpc.DeleteUserInput) error
	updateUserAttributesFn              func(ctx context.Context, in rpc.UpdateUserAttributesInput) error
	getUserFn                           func(ctx context.Context, in rpc.GetUserInput) (rpc.GetUserOutput, error)
	deleteUserAttributesFn              func(ctx context.Context, in rpc.DeleteUserAttributesInput) error
	forgotPasswordFn                    func(ctx context.Context, in rpc.ForgotPasswordInput) error
	confirmForgotPasswordFn             func(ctx context.Context, in rpc.ConfirmForgotPasswordInput) error
	getUserAttributeVerificationCodeFn  func(ctx context.Context, in rpc.GetUserAttributeVerificationCodeInput) (rpc.GetUserAttributeVerificationCodeOutput, error)
	verifyUserAttributeFn               func(ctx context.Context, in rpc.VerifyUserAttributeInput) error
	getDeviceFn                         func(ctx context.Context, in rpc.GetDeviceInput) (rpc.GetDeviceOutput, error)
	forgetDeviceFn                      func(ctx context.Context, in rpc.ForgetDeviceInput) error
	updateDeviceStatusFn                func(ctx context.Context, in rpc.UpdateDeviceStatusInput) error
	listDevicesFn                       func(ctx context.Context, in rpc.ListDevicesInput) (rpc.ListDevicesOutput, error)
	globalSignOutFn                     func(ctx context.Context, in rpc.GlobalSignOutInput) error

	// calls records every InitiateAuth/RespondToAuthChallenge input seen,
	// for tests that want to assert on request shape.
	calls []any
}

func (f *fakeFacade) InitiateAuth(ctx context.Context, in rpc.InitiateAuthInput) (rpc.AuthChallengeOutput, error) {
	f.calls = append(f.calls, in)
	return f.initiateAuthFn(ctx, in)
}
func (f *fakeFacade) RespondToAuthChallenge(ctx context.Context, in rpc.RespondToAuthChallengeInput) (rpc.AuthChallengeOutput, error) {
	f.calls = append(f.calls, in)
	return f.respondToAuthChallengeFn(ctx, in)
}
func (f *fakeFacade) ConfirmDevice(ctx context.Context, in rpc.ConfirmDeviceInput) (rpc.ConfirmDeviceOutput, error) {
	return f.confirmDeviceFn(ctx, in)
}
func (f *fakeFacade) ConfirmSignUp(ctx context.Context, in rpc.ConfirmSignUpInput) error {
	return f.confirmSignUpFn(ctx, in)
}
func (f *fakeFacade) ResendConfirmationCode(ctx context.Context, in rpc.ResendConfirmationCodeInput) error {
	return f.resendConfirmationCodeFn(ctx, in)
}
func (f *fakeFacade) ChangePassword(ctx context.Context, in rpc.ChangePasswordInput) error {
	return f.changePasswordFn(ctx, in)
}
func (f *fakeFacade) SetUserSettings(ctx context.Context, in rpc.SetUserSettingsInput) error {
	return f.setUserSettingsFn(ctx, in)
}
func (f *fakeFacade) DeleteUser(ctx context.Context, in rpc.DeleteUserInput) error {
	return f.deleteUserFn(ctx, in)
}
func (f *fakeFacade) UpdateUserAttributes(ctx context.Context, in rpc.UpdateUserAttributesInput) error {
	return f.updateUserAttributesFn(ctx, in)
}
func (f *fakeFacade) GetUser(ctx context.Context, in rpc.GetUserInput) (rpc.GetUserOutput, error) {
	return f.getUserFn(ctx, in)
}
func (f *fakeFacade) DeleteUserAttributes(ctx context.Context, in rpc.DeleteUserAttributesInput) error {
	return f.deleteUserAttributesFn(ctx, in)
}
func (f *fakeFacade) ForgotPassword(ctx context.Context, in rpc.ForgotPasswordInput) error {
	return f.forgotPasswordFn(ctx, in)
}
func (f *fakeFacade) ConfirmForgotPassword(ctx context.Context, in rpc.ConfirmForgotPasswordInput) error {
	return f.confirmForgotPasswordFn(ctx, in)
}
func (f *fakeFacade) GetUserAttributeVerificationCode(ctx context.Context, in rpc.GetUserAttributeVerificationCodeInput) (rpc.GetUserAttributeVerificationCodeOutput, error) {
	return f.getUserAttributeVerificationCodeFn(ctx, in)
}
func (f *fakeFacade) VerifyUserAttribute(ctx context.Context, in rpc.VerifyUserAttributeInput) error {
	return f.verifyUserAttributeFn(ctx, in)
}
func (f *fakeFacade) GetDevice(ctx context.Context, in rpc.GetDeviceInput) (rpc.GetDeviceOutput, error) {
	return f.getDeviceFn(ctx, in)
}
func (f *fakeFacade) ForgetDevice(ctx context.Context, in rpc.ForgetDeviceInput) error {
	return f.forgetDeviceFn(ctx, in)
}
func (f *fakeFacade) UpdateDeviceStatus(ctx context.Context, in rpc.UpdateDeviceStatusInput) error {
	return f.updateDeviceStatusFn(ctx, in)
}
func (f *fakeFacade) ListDevices(ctx context.Context, in rpc.ListDevicesInput) (rpc.ListDevicesOutput, error) {
	return f.listDevicesFn(ctx, in)
}
func (f *fakeFacade) GlobalSignOut(ctx context.Context, in rpc.GlobalSignOutInput) error {
	return f.globalSignOutFn(ctx, in)
}

var _ rpc.Facade = (*fakeFacade)(nil)
