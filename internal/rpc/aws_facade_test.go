package rpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
)

type fakeAPIError struct {
	code, message string
}

func (e *fakeAPIError) Error() string                     { return e.code + ": " + e.message }
func (e *fakeAPIError) ErrorCode() string                 { return e.code }
func (e *fakeAPIError) ErrorMessage() string               { return e.message }
func (e *fakeAPIError) ErrorFault() smithy.ErrorFault      { return smithy.FaultUnknown }

func TestMapAWSError_KnownExceptions(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"UserNotFoundException", ErrUserNotFound},
		{"UserNotConfirmedException", ErrUserNotConfirmed},
		{"InvalidPasswordException", ErrInvalidPassword},
		{"CodeMismatchException", ErrInvalidCode},
		{"ExpiredCodeException", ErrCodeExpired},
		{"NotAuthorizedException", ErrNotAuthorized},
		{"TooManyRequestsException", ErrTooManyRequests},
		{"LimitExceededException", ErrLimitExceeded},
		{"PasswordResetRequiredException", ErrPasswordResetRequired},
		{"InvalidParameterException", ErrInvalidParameter},
		{"ResourceNotFoundException", ErrResourceNotFound},
		{"AliasExistsException", ErrAliasExists},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := mapAWSError(&fakeAPIError{code: tt.code, message: "boom"})
			if !errors.Is(got, tt.want) {
				t.Errorf("mapAWSError(%s) = %v, want wrapping %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestMapAWSError_UnknownException(t *testing.T) {
	err := mapAWSError(&fakeAPIError{code: "SomeNewException", message: "unexpected"})

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
	if svcErr.Code != "SomeNewException" || svcErr.Message != "unexpected" {
		t.Errorf("unexpected ServiceError contents: %+v", svcErr)
	}
}

func TestMapAWSError_NonAPIError(t *testing.T) {
	wrapped := fmt.Errorf("dial tcp: %w", errors.New("connection refused"))
	got := mapAWSError(wrapped)
	if got == nil {
		t.Fatal("expected non-nil error")
	}
	if errors.Is(got, ErrUserNotFound) {
		t.Error("non-API error should not match any sentinel")
	}
}

func TestMapAWSError_Nil(t *testing.T) {
	if err := mapAWSError(nil); err != nil {
		t.Errorf("mapAWSError(nil) = %v, want nil", err)
	}
}
