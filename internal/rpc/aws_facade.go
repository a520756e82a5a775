package rpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

// AWSFacade implements Facade against the real AWS SDK for Go v2 Cognito
// Identity Provider client. It is the sole authority on transport; the
// rest of the module never sees sockets.
type AWSFacade struct {
	cip *cip.Client
	log *slog.Logger
}

// NewAWSFacade loads the default AWS config for region and constructs an
// AWSFacade. log may be nil, in which case a discarding logger is used.
func NewAWSFacade(ctx context.Context, region string, log *slog.Logger) (*AWSFacade, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("rpc: load AWS config: %w", err)
	}
	if log == nil {
		log = slog.New(slog.NewJSONHandler(discardWriter{}, nil))
	}
	return &AWSFacade{cip: cip.NewFromConfig(cfg), log: log}, nil
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func (f *AWSFacade) InitiateAuth(ctx context.Context, in InitiateAuthInput) (AuthChallengeOutput, error) {
	f.log.DebugContext(ctx, "rpc InitiateAuth", "auth_flow", in.AuthFlow)

	out, err := f.cip.InitiateAuth(ctx, &cip.InitiateAuthInput{
		ClientId:       aws.String(in.ClientID),
		AuthFlow:       types.AuthFlowType(in.AuthFlow),
		AuthParameters: in.AuthParameters,
	})
	if err != nil {
		return AuthChallengeOutput{}, mapAWSError(err)
	}
	return authChallengeOutputFrom(string(out.ChallengeName), out.Session, out.ChallengeParameters, out.AuthenticationResult), nil
}

func (f *AWSFacade) RespondToAuthChallenge(ctx context.Context, in RespondToAuthChallengeInput) (AuthChallengeOutput, error) {
	f.log.DebugContext(ctx, "rpc RespondToAuthChallenge", "challenge_name", in.ChallengeName)

	out, err := f.cip.RespondToAuthChallenge(ctx, &cip.RespondToAuthChallengeInput{
		ClientId:           aws.String(in.ClientID),
		ChallengeName:      types.ChallengeNameType(in.ChallengeName),
		Session:            aws.String(in.Session),
		ChallengeResponses: in.ChallengeResponses,
	})
	if err != nil {
		return AuthChallengeOutput{}, mapAWSError(err)
	}
	return authChallengeOutputFrom(string(out.ChallengeName), out.Session, out.ChallengeParameters, out.AuthenticationResult), nil
}

func authChallengeOutputFrom(challengeName string, session *string, params map[string]string, result *types.AuthenticationResultType) AuthChallengeOutput {
	out := AuthChallengeOutput{
		ChallengeName:       challengeName,
		Session:             aws.ToString(session),
		ChallengeParameters: params,
	}
	if result != nil {
		ar := &AuthenticationResult{
			IDToken:      aws.ToString(result.IdToken),
			AccessToken:  aws.ToString(result.AccessToken),
			RefreshToken: aws.ToString(result.RefreshToken),
			ExpiresIn:    result.ExpiresIn,
			TokenType:    aws.ToString(result.TokenType),
		}
		if result.NewDeviceMetadata != nil {
			ar.NewDeviceMetadata = &NewDeviceMetadata{
				DeviceGroupKey: aws.ToString(result.NewDeviceMetadata.DeviceGroupKey),
				DeviceKey:      aws.ToString(result.NewDeviceMetadata.DeviceKey),
			}
		}
		out.AuthenticationResult = ar
	}
	return out
}

func (f *AWSFacade) ConfirmDevice(ctx context.Context, in ConfirmDeviceInput) (ConfirmDeviceOutput, error) {
	f.log.DebugContext(ctx, "rpc ConfirmDevice", "device_key", in.DeviceKey)

	out, err := f.cip.ConfirmDevice(ctx, &cip.ConfirmDeviceInput{
		AccessToken: aws.String(in.AccessToken),
		DeviceKey:   aws.String(in.DeviceKey),
		DeviceSecretVerifierConfig: &types.DeviceSecretVerifierConfigType{
			PasswordVerifier: aws.String(in.DeviceSecretVerifierConfig.PasswordVerifier),
			Salt:             aws.String(in.DeviceSecretVerifierConfig.Salt),
		},
		DeviceName: aws.String(in.DeviceName),
	})
	if err != nil {
		return ConfirmDeviceOutput{}, mapAWSError(err)
	}
	return ConfirmDeviceOutput{UserConfirmationNecessary: out.UserConfirmationNecessary}, nil
}

func (f *AWSFacade) ConfirmSignUp(ctx context.Context, in ConfirmSignUpInput) error {
	_, err := f.cip.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(in.ClientID),
		Username:         aws.String(in.Username),
		ConfirmationCode: aws.String(in.ConfirmationCode),
		SecretHash:       optionalString(in.SecretHash),
	})
	return mapAWSError(err)
}

func (f *AWSFacade) ResendConfirmationCode(ctx context.Context, in ResendConfirmationCodeInput) error {
	_, err := f.cip.ResendConfirmationCode(ctx, &cip.ResendConfirmationCodeInput{
		ClientId:   aws.String(in.ClientID),
		Username:   aws.String(in.Username),
		SecretHash: optionalString(in.SecretHash),
	})
	return mapAWSError(err)
}

func (f *AWSFacade) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	_, err := f.cip.ChangePassword(ctx, &cip.ChangePasswordInput{
		AccessToken:      aws.String(in.AccessToken),
		PreviousPassword: aws.String(in.PreviousPassword),
		ProposedPassword: aws.String(in.NewPassword),
	})
	return mapAWSError(err)
}

func (f *AWSFacade) SetUserSettings(ctx context.Context, in SetUserSettingsInput) error {
	opts := make([]types.MFAOptionType, 0, len(in.MFAOptions))
	for _, o := range in.MFAOptions {
		opts = append(opts, types.MFAOptionType{
			DeliveryMedium: types.DeliveryMediumType(o.DeliveryMedium),
			AttributeName:  aws.String(o.AttributeName),
		})
	}
	_, err := f.cip.SetUserSettings(ctx, &cip.SetUserSettingsInput{
		AccessToken: aws.String(in.AccessToken),
		MFAOptions:  opts,
	})
	return mapAWSError(err)
}

func (f *AWSFacade) DeleteUser(ctx context.Context, in DeleteUserInput) error {
	_, err := f.cip.DeleteUser(ctx, &cip.DeleteUserInput{
		AccessToken: aws.String(in.AccessToken),
	})
	return mapAWSError(err)
}

func (f *AWSFacade) UpdateUserAttributes(ctx context.Context, in UpdateUserAttributesInput) error {
	_, err := f.cip.UpdateUserAttributes(ctx, &cip.UpdateUserAttributesInput{
		AccessToken:    aws.String(in.AccessToken),
		UserAttributes: attributeTypesFrom(in.Attributes),
	})
	return mapAWSError(err)
}

func (f *AWSFacade) GetUser(ctx context.Context, in GetUserInput) (GetUserOutput, error) {
	out, err := f.cip.GetUser(ctx, &cip.GetUserInput{
		AccessToken: aws.String(in.AccessToken),
	})
	if err != nil {
		return GetUserOutput{}, mapAWSError(err)
	}

	attrs := make([]AttributeKV, 0, len(out.UserAttributes))
	for _, a := range out.UserAttributes {
		attrs = append(attrs, AttributeKV{Name: aws.ToString(a.Name), Value: aws.ToString(a.Value)})
	}
	opts := make([]MFAOption, 0, len(out.MFAOptions))
	for _, o := range out.MFAOptions {
		opts = append(opts, MFAOption{DeliveryMedium: string(o.DeliveryMedium), AttributeName: aws.ToString(o.AttributeName)})
	}

	return GetUserOutput{
		Username:     aws.ToString(out.Username),
		Attributes:   attrs,
		MFAOptions:   opts,
		PreferredMFA: aws.ToString(out.PreferredMfaSetting),
	}, nil
}

func (f *AWSFacade) DeleteUserAttributes(ctx context.Context, in DeleteUserAttributesInput) error {
	_, err := f.cip.DeleteUserAttributes(ctx, &cip.DeleteUserAttributesInput{
		AccessToken:          aws.String(in.AccessToken),
		UserAttributeNames:   in.AttributeNames,
	})
	return mapAWSError(err)
}

func (f *AWSFacade) ForgotPassword(ctx context.Context, in ForgotPasswordInput) error {
	_, err := f.cip.ForgotPassword(ctx, &cip.ForgotPasswordInput{
		ClientId:   aws.String(in.ClientID),
		Username:   aws.String(in.Username),
		SecretHash: optionalString(in.SecretHash),
	})
	return mapAWSError(err)
}

func (f *AWSFacade) ConfirmForgotPassword(ctx context.Context, in ConfirmForgotPasswordInput) error {
	_, err := f.cip.ConfirmForgotPassword(ctx, &cip.ConfirmForgotPasswordInput{
		ClientId:         aws.String(in.ClientID),
		Username:         aws.String(in.Username),
		ConfirmationCode: aws.String(in.ConfirmationCode),
		Password:         aws.String(in.NewPassword),
		SecretHash:       optionalString(in.SecretHash),
	})
	return mapAWSError(err)
}

func (f *AWSFacade) GetUserAttributeVerificationCode(ctx context.Context, in GetUserAttributeVerificationCodeInput) (GetUserAttributeVerificationCodeOutput, error) {
	out, err := f.cip.GetUserAttributeVerificationCode(ctx, &cip.GetUserAttributeVerificationCodeInput{
		AccessToken:   aws.String(in.AccessToken),
		AttributeName: aws.String(in.AttributeName),
	})
	if err != nil {
		return GetUserAttributeVerificationCodeOutput{}, mapAWSError(err)
	}
	var medium, dest string
	if out.CodeDeliveryDetails != nil {
		medium = string(out.CodeDeliveryDetails.DeliveryMedium)
		dest = aws.ToString(out.CodeDeliveryDetails.Destination)
	}
	return GetUserAttributeVerificationCodeOutput{CodeDeliveryMedium: medium, CodeDeliveryDestination: dest}, nil
}

func (f *AWSFacade) VerifyUserAttribute(ctx context.Context, in VerifyUserAttributeInput) error {
	_, err := f.cip.VerifyUserAttribute(ctx, &cip.VerifyUserAttributeInput{
		AccessToken:   aws.String(in.AccessToken),
		AttributeName: aws.String(in.AttributeName),
		Code:          aws.String(in.Code),
	})
	return mapAWSError(err)
}

func (f *AWSFacade) GetDevice(ctx context.Context, in GetDeviceInput) (GetDeviceOutput, error) {
	out, err := f.cip.GetDevice(ctx, &cip.GetDeviceInput{
		AccessToken: aws.String(in.AccessToken),
		DeviceKey:   aws.String(in.DeviceKey),
	})
	if err != nil {
		return GetDeviceOutput{}, mapAWSError(err)
	}
	return GetDeviceOutput{Device: deviceFrom(out.Device)}, nil
}

func (f *AWSFacade) ForgetDevice(ctx context.Context, in ForgetDeviceInput) error {
	_, err := f.cip.ForgetDevice(ctx, &cip.ForgetDeviceInput{
		AccessToken: aws.String(in.AccessToken),
		DeviceKey:   aws.String(in.DeviceKey),
	})
	return mapAWSError(err)
}

func (f *AWSFacade) UpdateDeviceStatus(ctx context.Context, in UpdateDeviceStatusInput) error {
	_, err := f.cip.UpdateDeviceStatus(ctx, &cip.UpdateDeviceStatusInput{
		AccessToken:            aws.String(in.AccessToken),
		DeviceKey:              aws.String(in.DeviceKey),
		DeviceRememberedStatus: types.DeviceRememberedStatusType(in.DeviceRememberedStatus),
	})
	return mapAWSError(err)
}

func (f *AWSFacade) ListDevices(ctx context.Context, in ListDevicesInput) (ListDevicesOutput, error) {
	out, err := f.cip.ListDevices(ctx, &cip.ListDevicesInput{
		AccessToken:     aws.String(in.AccessToken),
		Limit:           aws.Int32(in.Limit),
		PaginationToken: optionalString(in.PaginationToken),
	})
	if err != nil {
		return ListDevicesOutput{}, mapAWSError(err)
	}

	devices := make([]Device, 0, len(out.Devices))
	for _, d := range out.Devices {
		devices = append(devices, deviceFrom(&d))
	}
	return ListDevicesOutput{Devices: devices, PaginationToken: aws.ToString(out.PaginationToken)}, nil
}

func deviceFrom(d *types.DeviceType) Device {
	if d == nil {
		return Device{}
	}
	attrs := make([]AttributeKV, 0, len(d.DeviceAttributes))
	for _, a := range d.DeviceAttributes {
		attrs = append(attrs, AttributeKV{Name: aws.ToString(a.Name), Value: aws.ToString(a.Value)})
	}
	dev := Device{DeviceKey: aws.ToString(d.DeviceKey), DeviceAttributes: attrs}
	if d.DeviceCreateDate != nil {
		dev.DeviceCreateDate = d.DeviceCreateDate.String()
	}
	if d.DeviceLastModifiedDate != nil {
		dev.DeviceLastModifiedDate = d.DeviceLastModifiedDate.String()
	}
	if d.DeviceLastAuthenticatedDate != nil {
		dev.DeviceLastAuthenticatedDate = d.DeviceLastAuthenticatedDate.String()
	}
	return dev
}

func (f *AWSFacade) GlobalSignOut(ctx context.Context, in GlobalSignOutInput) error {
	_, err := f.cip.GlobalSignOut(ctx, &cip.GlobalSignOutInput{
		AccessToken: aws.String(in.AccessToken),
	})
	return mapAWSError(err)
}

func attributeTypesFrom(attrs []AttributeKV) []types.AttributeType {
	out := make([]types.AttributeType, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, types.AttributeType{Name: aws.String(a.Name), Value: aws.String(a.Value)})
	}
	return out
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

// mapAWSError converts AWS SDK exceptions to the rpc sentinel taxonomy,
// generalizing the teacher's mapAWSError to the wider set of Cognito
// exceptions this facade surfaces.
func mapAWSError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("rpc: %w", err)
	}

	switch apiErr.ErrorCode() {
	case "UserNotFoundException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrUserNotFound)
	case "UserNotConfirmedException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrUserNotConfirmed)
	case "InvalidPasswordException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrInvalidPassword)
	case "CodeMismatchException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrInvalidCode)
	case "ExpiredCodeException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrCodeExpired)
	case "NotAuthorizedException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrNotAuthorized)
	case "TooManyRequestsException", "TooManyFailedAttemptsException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrTooManyRequests)
	case "LimitExceededException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrLimitExceeded)
	case "PasswordResetRequiredException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrPasswordResetRequired)
	case "InvalidParameterException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrInvalidParameter)
	case "ResourceNotFoundException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrResourceNotFound)
	case "AliasExistsException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrAliasExists)
	default:
		return &ServiceError{Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage(), Err: err}
	}
}
