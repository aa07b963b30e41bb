package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	// Recoverable, user-facing.
	CodeInsufficientCredits    Code = "INSUFFICIENT_CREDITS"
	CodeEmailAlreadyRegistered Code = "EMAIL_ALREADY_REGISTERED"
	CodeAccountNotFound        Code = "ACCOUNT_NOT_FOUND"
	CodeProviderMismatch       Code = "PROVIDER_MISMATCH"
	CodeInvalidCredentials     Code = "INVALID_CREDENTIALS"
	CodeValidation             Code = "VALIDATION_ERROR"

	// Precondition violations.
	CodeUserNotFound Code = "USER_NOT_FOUND"

	// Engine failures.
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
	CodeWriteConflict      Code = "WRITE_CONFLICT"
	CodeDuplicateKey       Code = "DUPLICATE_KEY"
	CodeDependency         Code = "DEPENDENCY_ERROR"
	CodeInternal           Code = "INTERNAL_ERROR"
)

type Category string

const (
	CategoryValidation     Category = "validation"
	CategoryIntegrity      Category = "integrity"
	CategoryInfrastructure Category = "infrastructure"
)

type Metadata struct {
	Category      Category
	Retryable     bool
	PublicMessage string
	// MessageSafe marks codes whose specific message may be shown verbatim.
	MessageSafe bool
}

var metadataByCode = map[Code]Metadata{
	CodeInsufficientCredits: {
		Category:      CategoryValidation,
		PublicMessage: "You don't have enough credits. Buy a credit pack to keep creating.",
		MessageSafe:   true,
	},
	CodeEmailAlreadyRegistered: {
		Category:      CategoryValidation,
		PublicMessage: "This email is already registered. Try logging in.",
		MessageSafe:   true,
	},
	CodeAccountNotFound: {
		Category:      CategoryValidation,
		PublicMessage: "Account not found. Please sign up first.",
		MessageSafe:   true,
	},
	CodeProviderMismatch: {
		Category:      CategoryValidation,
		PublicMessage: "This account is linked with Google. Please use Continue with Google.",
		MessageSafe:   true,
	},
	CodeInvalidCredentials: {
		Category:      CategoryValidation,
		PublicMessage: "Incorrect password.",
		MessageSafe:   true,
	},
	CodeValidation: {
		Category:      CategoryValidation,
		PublicMessage: "Some of the details you entered are not valid.",
		MessageSafe:   true,
	},
	CodeUserNotFound: {
		Category:      CategoryIntegrity,
		PublicMessage: "We couldn't find your account. Please sign in again.",
	},
	CodeStorageUnavailable: {
		Category:      CategoryInfrastructure,
		Retryable:     true,
		PublicMessage: "Local storage is unavailable right now. Please try again.",
	},
	CodeWriteConflict: {
		Category:      CategoryInfrastructure,
		Retryable:     true,
		PublicMessage: "Another change was being saved at the same time. Please try again.",
	},
	CodeDuplicateKey: {
		Category:      CategoryInfrastructure,
		PublicMessage: "That record already exists.",
	},
	CodeDependency: {
		Category:      CategoryInfrastructure,
		Retryable:     true,
		PublicMessage: "A connected service is unavailable. Please try again.",
	},
	CodeInternal: {
		Category:      CategoryInfrastructure,
		Retryable:     true,
		PublicMessage: "Something went wrong. Please try again.",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error by code, so errors.Is(err, New(code, "")) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.code == t.code
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code carried by err, or CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// UserMessage returns text that can be rendered directly to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	typed := As(err)
	if typed == nil {
		return metadataByCode[CodeInternal].PublicMessage
	}
	meta := MetadataFor(typed.Code())
	if meta.MessageSafe && typed.Message() != "" {
		return typed.Message()
	}
	return meta.PublicMessage
}
