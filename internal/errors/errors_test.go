package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

func TestError_Is(t *testing.T) {
	err := Provider(503, "tmdb returned 503")
	if !Is(err, ErrProvider) {
		t.Error("Provider error should match ErrProvider sentinel")
	}
	if Is(err, ErrNetwork) {
		t.Error("Provider error should not match ErrNetwork")
	}
}

func TestError_WrapPreservesCode(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := ErrNetwork.WithCause(cause)

	if !Is(err, ErrNetwork) {
		t.Error("wrapped error should still match its sentinel")
	}
	if Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
	want := "network error: connection reset"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeInsufficientContent, http.StatusNotFound},
		{CodeProvider, http.StatusBadGateway},
		{CodeNetwork, http.StatusBadGateway},
		{CodeValidation, http.StatusBadRequest},
		{CodeCancelled, 499},
		{CodeUnknownCategory, http.StatusBadRequest},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := FromContext(ctx.Err())
	if err == nil {
		t.Fatal("expected Cancelled error for context.Canceled")
	}
	if !Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}

	if FromContext(fmt.Errorf("boom")) != nil {
		t.Error("non-context error should map to nil")
	}
}

func TestProvider_CarriesStatus(t *testing.T) {
	err := Providerf(502, "shikimori API error: %d", 502)
	if err.Status != 502 {
		t.Errorf("Status = %d, want 502", err.Status)
	}
}
