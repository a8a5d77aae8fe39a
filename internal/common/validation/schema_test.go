package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func ptr[T any](v T) *T { return &v }

func hasFieldError(result *ValidationResult, field string) bool {
	for _, e := range result.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

var leadSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"type":   {Type: "string", Enum: []string{"chat", "quote", "booking", "feedback"}},
		"name":   {Type: "string", MinLength: Int(1), MaxLength: Int(5)},
		"rating": {Type: "integer", Minimum: ptr(1.0), Maximum: ptr(5.0)},
		"slot":   {Type: "string", Pattern: ptr(`^\d{2}:\d{2}$`)},
		"meta": {Type: "object", Required: []string{"source"}, Properties: map[string]Property{
			"source": {Type: "string"},
		}},
	},
	Required: []string{"type"},
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantValid  bool
		wantFields []string
	}{
		{name: "valid", input: `{"type":"chat","name":"Anna","rating":4,"slot":"08:45"}`, wantValid: true},
		{name: "json integer accepted", input: `{"type":"feedback","rating":5}`, wantValid: true},
		{name: "fractional integer rejected", input: `{"type":"feedback","rating":4.5}`, wantFields: []string{"rating"}},
		{name: "rating out of range", input: `{"type":"feedback","rating":6}`, wantFields: []string{"rating"}},
		{name: "missing type", input: `{"name":"A"}`, wantFields: []string{"type"}},
		{name: "bad enum", input: `{"type":"call"}`, wantFields: []string{"type"}},
		{name: "extra field", input: `{"type":"chat","foo":1}`, wantFields: []string{"foo"}},
		{name: "name too long", input: `{"type":"chat","name":"Alexander"}`, wantFields: []string{"name"}},
		{name: "pattern", input: `{"type":"booking","slot":"8:45"}`, wantFields: []string{"slot"}},
		{name: "nested required", input: `{"type":"chat","meta":{}}`, wantFields: []string{"meta.source"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(decode(t, tt.input), leadSchema)
			assert.Equal(t, tt.wantValid, result.Valid, result.Summary())
			for _, f := range tt.wantFields {
				assert.True(t, hasFieldError(result, f), "expected error for %s, got %v", f, result.GetErrorMessages())
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	schema := `{
		"type": "object",
		"additionalProperties": false,
		"properties": {
			"slotDuration": {"enum": [15, 30, 45]},
			"blockedDays": {"type": "array", "items": {"type": "integer", "minimum": 0, "maximum": 6}}
		}
	}`

	result, err := ValidateDocument(schema, []byte(`{"slotDuration": 30, "blockedDays": [0, 6]}`))
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = ValidateDocument(schema, []byte(`{"slotDuration": 20, "blockedDays": [7], "extra": true}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 3)
	assert.NotEmpty(t, result.Summary())

	_, err = ValidateDocument(schema, []byte(`{not json`))
	assert.Error(t, err)
}

func TestFormatValidators(t *testing.T) {
	assert.True(t, ValidateEmail("dennis@simontowsky.com"))
	assert.False(t, ValidateEmail("dennis@"))
	assert.True(t, ValidatePhone("+4917621280315"))
	assert.True(t, ValidatePhone("030 / 123 456"))
	assert.False(t, ValidatePhone("abc"))
	assert.True(t, ValidateClock("08:00"))
	assert.True(t, ValidateClock("23:59"))
	assert.False(t, ValidateClock("8:00"))
	assert.False(t, ValidateClock("24:00"))
}
