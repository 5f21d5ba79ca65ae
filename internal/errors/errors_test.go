package errors

import (
	"fmt"
	"testing"
)

func TestTypeOfUnwraps(t *testing.T) {
	base := NotFound("region", "atlantis")
	wrapped := fmt.Errorf("lookup failed: %w", base)

	tests := []struct {
		name string
		err  error
		want Type
	}{
		{"direct", base, TypeNotFound},
		{"fmt wrapped", wrapped, TypeNotFound},
		{"outermost wins", Wrap(TypeInvalidInput, "unknown region", base), TypeInvalidInput},
		{"plain error", fmt.Errorf("boom"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.err); got != tt.want {
				t.Errorf("TypeOf = %q, want %q", got, tt.want)
			}
		})
	}

	if IsType(nil, TypeNotFound) {
		t.Error("nil error should match no type")
	}
}

func TestErrorMessage(t *testing.T) {
	err := Config("bad file", fmt.Errorf("eof"))
	if got, want := err.Error(), "[CONFIG_ERROR] bad file: eof"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got, want := InvalidInput("kWh %d", 0).Error(), "[INVALID_INPUT] kWh 0"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err.WithContext("path", "x.json").Context["path"] != "x.json" {
		t.Error("context not stored")
	}
}
