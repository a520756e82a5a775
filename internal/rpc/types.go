package rpc

// AuthenticationResult is the terminal payload of a successful
// InitiateAuth/RespondToAuthChallenge call.
type AuthenticationResult struct {
	IDToken          string
	AccessToken      string
	RefreshToken     string
	ExpiresIn        int32
	TokenType        string
	NewDeviceMetadata *NewDeviceMetadata
}

// NewDeviceMetadata signals the device has not yet been registered and
// must run the confirm-device ceremony.
type NewDeviceMetadata struct {
	DeviceGroupKey string
	DeviceKey      string
}

// AuthChallengeOutput is the union of "authentication completed" and
// "another challenge step is required" responses InitiateAuth and
// RespondToAuthChallenge both return.
type AuthChallengeOutput struct {
	// ChallengeName is empty when AuthenticationResult is populated.
	ChallengeName         string
	Session               string
	ChallengeParameters   map[string]string
	AuthenticationResult  *AuthenticationResult
}

// InitiateAuthInput starts a new authentication flow.
type InitiateAuthInput struct {
	ClientID       string
	AuthFlow       string // "USER_SRP_AUTH" | "CUSTOM_AUTH" | "REFRESH_TOKEN_AUTH"
	AuthParameters map[string]string
}

// RespondToAuthChallengeInput answers the current outstanding challenge.
type RespondToAuthChallengeInput struct {
	ClientID          string
	ChallengeName      string
	Session            string
	ChallengeResponses map[string]string
}

// ConfirmDeviceInput registers a device verifier against the current
// access token.
type ConfirmDeviceInput struct {
	AccessToken               string
	DeviceKey                 string
	DeviceSecretVerifierConfig DeviceSecretVerifierConfig
	DeviceName                string
}

// DeviceSecretVerifierConfig carries the base64-encoded SRP verifier and
// salt generated for a newly registered device.
type DeviceSecretVerifierConfig struct {
	PasswordVerifier string
	Salt             string
}

// ConfirmDeviceOutput reports whether the server wants a secondary
// confirmation prompt in addition to registering the device.
type ConfirmDeviceOutput struct {
	UserConfirmationNecessary bool
}

// ConfirmSignUpInput confirms a just-created account with a verification
// code.
type ConfirmSignUpInput struct {
	ClientID         string
	Username         string
	ConfirmationCode string
	SecretHash       string
}

// ResendConfirmationCodeInput requests a fresh sign-up confirmation code.
type ResendConfirmationCodeInput struct {
	ClientID   string
	Username   string
	SecretHash string
}

// ChangePasswordInput changes the password of the currently authenticated
// user.
type ChangePasswordInput struct {
	AccessToken      string
	PreviousPassword string
	NewPassword      string
}

// SetUserSettingsInput updates MFA delivery preferences for the
// authenticated user.
type SetUserSettingsInput struct {
	AccessToken    string
	MFAOptions     []MFAOption
}

// MFAOption names a delivery medium and destination for an MFA option.
type MFAOption struct {
	DeliveryMedium string
	AttributeName  string
}

// DeleteUserInput deletes the currently authenticated user's account.
type DeleteUserInput struct {
	AccessToken string
}

// AttributeKV is a single user-attribute name/value pair, e.g. "email".
type AttributeKV struct {
	Name  string
	Value string
}

// UpdateUserAttributesInput sets one or more user attributes.
type UpdateUserAttributesInput struct {
	AccessToken string
	Attributes  []AttributeKV
}

// GetUserInput fetches the authenticated user's profile.
type GetUserInput struct {
	AccessToken string
}

// GetUserOutput is the authenticated user's profile.
type GetUserOutput struct {
	Username       string
	Attributes     []AttributeKV
	MFAOptions     []MFAOption
	PreferredMFA   string
}

// DeleteUserAttributesInput removes one or more user attributes by name.
type DeleteUserAttributesInput struct {
	AccessToken    string
	AttributeNames []string
}

// ForgotPasswordInput starts an unauthenticated password-reset flow.
type ForgotPasswordInput struct {
	ClientID   string
	Username   string
	SecretHash string
}

// ConfirmForgotPasswordInput completes an unauthenticated password-reset
// flow.
type ConfirmForgotPasswordInput struct {
	ClientID         string
	Username         string
	ConfirmationCode string
	NewPassword      string
	SecretHash       string
}

// GetUserAttributeVerificationCodeInput requests a verification code for a
// single attribute (e.g. "email", "phone_number").
type GetUserAttributeVerificationCodeInput struct {
	AccessToken   string
	AttributeName string
}

// GetUserAttributeVerificationCodeOutput reports how the code was sent.
type GetUserAttributeVerificationCodeOutput struct {
	CodeDeliveryMedium      string
	CodeDeliveryDestination string
}

// VerifyUserAttributeInput submits a verification code for a single
// attribute.
type VerifyUserAttributeInput struct {
	AccessToken   string
	AttributeName string
	Code          string
}

// GetDeviceInput fetches metadata for a single registered device.
type GetDeviceInput struct {
	AccessToken string
	DeviceKey   string
}

// Device describes a single device registered against the authenticated
// user.
type Device struct {
	DeviceKey             string
	DeviceAttributes      []AttributeKV
	DeviceCreateDate      string
	DeviceLastModifiedDate string
	DeviceLastAuthenticatedDate string
}

// GetDeviceOutput wraps the fetched device.
type GetDeviceOutput struct {
	Device Device
}

// ForgetDeviceInput removes a registered device from the server.
type ForgetDeviceInput struct {
	AccessToken string
	DeviceKey   string
}

// UpdateDeviceStatusInput marks a device as remembered or not-remembered.
type UpdateDeviceStatusInput struct {
	AccessToken       string
	DeviceKey         string
	DeviceRememberedStatus string // "remembered" | "not_remembered"
}

// ListDevicesInput lists devices registered against the authenticated
// user.
type ListDevicesInput struct {
	AccessToken string
	Limit       int32
	PaginationToken string
}

// ListDevicesOutput is the page of devices returned by ListDevices.
type ListDevicesOutput struct {
	Devices         []Device
	PaginationToken string
}

// GlobalSignOutInput invalidates all tokens issued to the authenticated
// user.
type GlobalSignOutInput struct {
	AccessToken string
}
