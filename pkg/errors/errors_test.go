package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	meta := MetadataFor(CodeStateConflict)
	if meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("expected details allowed for state conflicts")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "saving offer")
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := New(CodeConflict, "duplicate offer")
	wrapped := fmt.Errorf("create offer: %w", inner)
	typed := As(wrapped)
	if typed == nil || typed.Code() != CodeConflict {
		t.Fatalf("unexpected typed error %v", typed)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeValidation, stdErrors.New("fee negative"), "create offer")
	dump := Dump(err)
	if dump.Code != CodeValidation {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain entries got %d", len(dump.Chain))
	}
}
