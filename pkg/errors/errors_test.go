package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		category  Category
		retryable bool
	}{
		{code: CodeInsufficientCredits, category: CategoryValidation},
		{code: CodeEmailAlreadyRegistered, category: CategoryValidation},
		{code: CodeAccountNotFound, category: CategoryValidation},
		{code: CodeProviderMismatch, category: CategoryValidation},
		{code: CodeInvalidCredentials, category: CategoryValidation},
		{code: CodeUserNotFound, category: CategoryIntegrity},
		{code: CodeStorageUnavailable, category: CategoryInfrastructure, retryable: true},
		{code: CodeWriteConflict, category: CategoryInfrastructure, retryable: true},
		{code: CodeDuplicateKey, category: CategoryInfrastructure},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.Category != tt.category {
			t.Fatalf("code %s expected category %s got %s", tt.code, tt.category, meta.Category)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.PublicMessage == "" || meta.PublicMessage == string(tt.code) {
			t.Fatalf("code %s needs a human-readable public message, got %q", tt.code, meta.PublicMessage)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta != MetadataFor(CodeInternal) {
		t.Fatalf("expected internal metadata, got %+v", meta)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing email")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing email" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	cause := stdErrors.New("disk I/O error")
	wrapped := Wrap(CodeStorageUnavailable, cause, "open store")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("wrapped error should unwrap to its cause")
	}
	if Wrap(CodeInternal, nil, "x").Unwrap() != nil {
		t.Fatal("wrapping nil should not invent a cause")
	}
}

func TestAsAndCodeOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("debit: %w", New(CodeInsufficientCredits, "Insufficient credits."))

	if CodeOf(err) != CodeInsufficientCredits {
		t.Fatalf("expected insufficient credits code, got %s", CodeOf(err))
	}
	if !HasCode(err, CodeInsufficientCredits) {
		t.Fatal("HasCode should see through fmt wrapping")
	}
	if !stdErrors.Is(err, New(CodeInsufficientCredits, "")) {
		t.Fatal("errors.Is should match by code")
	}
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatal("untyped errors map to internal")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation message is shown verbatim", err: New(CodeInvalidCredentials, "Incorrect password."), want: "Incorrect password."},
		{name: "infrastructure hides engine text", err: Wrap(CodeDuplicateKey, stdErrors.New("UNIQUE constraint failed: users.id"), "add users"), want: MetadataFor(CodeDuplicateKey).PublicMessage},
		{name: "untyped falls back to internal", err: stdErrors.New("boom"), want: MetadataFor(CodeInternal).PublicMessage},
		{name: "validation without message uses public text", err: New(CodeAccountNotFound, ""), want: MetadataFor(CodeAccountNotFound).PublicMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Fatalf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(CodeWriteConflict, stdErrors.New("database is locked"), "put users"))
	d := Dump(err)
	if d.Code != CodeWriteConflict {
		t.Fatalf("expected write conflict code in dump, got %s", d.Code)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(d.Chain), d.Chain)
	}
	if empty := Dump(nil); empty.TopMessage != "" || empty.Chain != nil {
		t.Fatal("nil error should produce an empty dump")
	}
}
