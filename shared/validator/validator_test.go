package validator_test

import (
	"strings"
	"testing"

	"shareit/shared/validator"
)

type testPayload struct {
	Name      string `validate:"required,max=255" json:"name"`
	Email     string `validate:"required,email"   json:"email"`
	Available *bool  `validate:"required"         json:"available"`
}

func boolPtr(b bool) *bool {
	return &b
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *testPayload
		expectError bool
	}{
		{
			name: "valid struct",
			data: &testPayload{
				Name:      "Drill",
				Email:     "alice@example.com",
				Available: boolPtr(true),
			},
			expectError: false,
		},
		{
			name: "missing required field",
			data: &testPayload{
				Email:     "alice@example.com",
				Available: boolPtr(true),
			},
			expectError: true,
		},
		{
			name: "invalid email",
			data: &testPayload{
				Name:      "Drill",
				Email:     "invalid-email",
				Available: boolPtr(true),
			},
			expectError: true,
		},
		{
			name: "required pointer distinguishes false from missing",
			data: &testPayload{
				Name:      "Drill",
				Email:     "alice@example.com",
				Available: boolPtr(false),
			},
			expectError: false,
		},
		{
			name: "nil required pointer",
			data: &testPayload{
				Name:  "Drill",
				Email: "alice@example.com",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:        "valid JSON",
			jsonBody:    `{"name":"Drill","email":"alice@example.com","available":true}`,
			expectError: false,
		},
		{
			name:        "invalid value",
			jsonBody:    `{"name":"Drill","email":"invalid-email","available":true}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"name":"Drill","email":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data testPayload
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	data := &testPayload{}
	err := validator.ValidateStruct(data)

	if err == nil {
		t.Fatal("expected validation error for empty struct")
	}

	if !strings.Contains(err.Error(), "required") {
		t.Errorf("expected descriptive error message containing 'required', got: %s", err.Error())
	}
}
