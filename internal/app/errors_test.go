package app

import (
	"errors"
	"testing"

	"github.com/tdavis6/myqrkit/internal/contract"
)

func TestExitCode(t *testing.T) {
	if code := ExitCode(nil); code != 0 {
		t.Fatalf("expected 0, got %d", code)
	}
	if code := ExitCode(errors.New("x")); code != 1 {
		t.Fatalf("expected 1, got %d", code)
	}
	if code := ExitCode(Wrap(exitPayloadTooLarge, errors.New("x"))); code != 5 {
		t.Fatalf("expected 5, got %d", code)
	}
}

func TestErrorCodeForExit(t *testing.T) {
	cases := map[int]contract.ErrorCode{
		exitGeneric:         contract.ErrGeneric,
		exitInvalidUsage:    contract.ErrInvalidUsage,
		exitPayloadTooLarge: contract.ErrPayloadTooLarge,
	}
	for code, want := range cases {
		if got := errorCodeForExit(code); got != want {
			t.Fatalf("errorCodeForExit(%d) = %s, want %s", code, got, want)
		}
	}
}

func TestWrapPrintedUnwraps(t *testing.T) {
	base := errors.New("boom")
	if !errors.Is(WrapPrinted(2, base), base) {
		t.Fatalf("expected wrapped error to match base")
	}
}
