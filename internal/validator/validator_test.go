package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/rewards-service/internal/model"
)

// TestNew verifies that New() returns a properly configured validator
func TestNew(t *testing.T) {
	v := New()
	require.NotNil(t, v, "New() should return a non-nil validator")
}

// TestNotblankValidator tests the custom notblank validation
func TestNotblankValidator(t *testing.T) {
	v := New()

	type TestStruct struct {
		Name string `validate:"notblank"`
	}

	testCases := []struct {
		name        string
		input       string
		expectError bool
		description string
	}{
		{
			name:        "valid_string",
			input:       "Campus Hoodie",
			expectError: false,
			description: "Normal string should pass",
		},
		{
			name:        "valid_with_spaces",
			input:       "  Campus Hoodie  ",
			expectError: false,
			description: "String with leading/trailing spaces should pass (has content)",
		},
		{
			name:        "whitespace_only_spaces",
			input:       "   ",
			expectError: true,
			description: "Whitespace-only (spaces) should fail",
		},
		{
			name:        "whitespace_only_tabs",
			input:       "\t\t",
			expectError: true,
			description: "Whitespace-only (tabs) should fail",
		},
		{
			name:        "whitespace_mixed",
			input:       " \t\n ",
			expectError: true,
			description: "Mixed whitespace-only should fail",
		},
		{
			name:        "empty_string",
			input:       "",
			expectError: true,
			description: "Empty string should fail (TrimSpace returns empty)",
		},
		{
			name:        "unicode_content",
			input:       "日本語",
			expectError: false,
			description: "Unicode content should pass",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := TestStruct{Name: tc.input}
			err := v.Struct(ts)

			if tc.expectError {
				assert.Error(t, err, tc.description)
			} else {
				assert.NoError(t, err, tc.description)
			}
		})
	}
}

// TestCreateRewardRequestValidation exercises the tags on the catalog's
// create request as a whole.
func TestCreateRewardRequestValidation(t *testing.T) {
	v := New()

	cost := func(n int) *int { return &n }

	testCases := []struct {
		name        string
		req         model.CreateRewardRequest
		expectError bool
	}{
		{
			name:        "valid",
			req:         model.CreateRewardRequest{Name: "Campus Hoodie", Cost: cost(100)},
			expectError: false,
		},
		{
			name:        "valid_with_optional_fields",
			req:         model.CreateRewardRequest{Name: "Campus Hoodie", Cost: cost(100), Description: "Warm and comfy", ImageURL: "https://cdn.example.com/hoodie.png"},
			expectError: false,
		},
		{
			name:        "missing_name",
			req:         model.CreateRewardRequest{Cost: cost(100)},
			expectError: true,
		},
		{
			name:        "blank_name",
			req:         model.CreateRewardRequest{Name: "   ", Cost: cost(100)},
			expectError: true,
		},
		{
			name:        "missing_cost",
			req:         model.CreateRewardRequest{Name: "Campus Hoodie"},
			expectError: true,
		},
		{
			name:        "zero_cost",
			req:         model.CreateRewardRequest{Name: "Campus Hoodie", Cost: cost(0)},
			expectError: true,
		},
		{
			name:        "negative_cost",
			req:         model.CreateRewardRequest{Name: "Campus Hoodie", Cost: cost(-10)},
			expectError: true,
		},
		{
			name:        "invalid_image_url",
			req:         model.CreateRewardRequest{Name: "Campus Hoodie", Cost: cost(100), ImageURL: "not a url"},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.req)

			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestNotblankOnNonStringField tests that notblank handles non-string fields gracefully
func TestNotblankOnNonStringField(t *testing.T) {
	v := New()

	// notblank on int should pass (returns true for non-string types)
	type TestStructInt struct {
		Value int `validate:"notblank"`
	}

	ts := TestStructInt{Value: 0}
	err := v.Struct(ts)
	assert.NoError(t, err, "notblank should pass for non-string types")
}
