package model

import (
	"testing"

	"github.com/Iron-Ham/finishcopy/internal/errors"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Level 1 finish", false},
		{"Plâtre - étage 2", false},
		{"(A) 50%", false},
		{"", true},
		{"   ", true},
		{"Finish {A}", true},
		{"Finish: A", true},
		{`back\slash`, true},
		{"tab\there", true},
		{"what?", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("error %v does not match ErrInvalidInput", err)
			}
		})
	}
}
