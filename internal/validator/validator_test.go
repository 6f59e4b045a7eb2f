package validator

import (
	"strings"
	"testing"
)

type payload struct {
	Name   string `json:"name" validate:"required"`
	Kind   string `json:"kind" validate:"omitempty,oneof=order ticket"`
	Amount int    `yaml:"amount" validate:"gte=0"`
	Email  string `validate:"omitempty,email"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      payload
		wantErr []string
	}{
		{"valid", payload{Name: "x", Kind: "order"}, nil},
		{"missing name", payload{}, []string{"name is required"}},
		{"bad kind", payload{Name: "x", Kind: "refund"}, []string{`"refund" for kind`}},
		{"negative amount", payload{Name: "x", Amount: -1}, []string{"amount cannot be less than 0"}},
		{"bad email", payload{Name: "x", Email: "nope"}, []string{"Email must be a valid email"}},
		{"two errors", payload{Amount: -1}, []string{"name is required", " and ", "amount"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not contain %q", err, want)
				}
			}
		})
	}
}

func TestOneOf(t *testing.T) {
	if err := OneOf("", "page", "matched"); err != nil {
		t.Errorf("empty value: %v", err)
	}
	if err := OneOf("page", "page", "matched"); err != nil {
		t.Errorf("valid value: %v", err)
	}
	if err := OneOf("all", "page", "matched"); err == nil {
		t.Error("expected error")
	}
}
