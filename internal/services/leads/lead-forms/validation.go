// internal/services/leads/lead-forms/validation.go
package leadforms

import (
	"strings"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/validation"
)

var contactSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"name":  {Type: "string", MinLength: validation.Int(1), MaxLength: validation.Int(200)},
		"phone": {Type: "string", MaxLength: validation.Int(50)},
		"email": {Type: "string", MaxLength: validation.Int(254)},
	},
	Required: []string{"name"},
}

// validateContact checks the name and contact fields shared by all forms.
// requirePhone and requireEmail mirror which inputs the form marks required.
func validateContact(name, phone, email string, requirePhone, requireEmail bool) error {
	input := map[string]interface{}{
		"name":  strings.TrimSpace(name),
		"phone": strings.TrimSpace(phone),
		"email": strings.TrimSpace(email),
	}
	result := validation.ValidateInput(input, contactSchema)
	messages := result.GetErrorMessages()

	if requirePhone && strings.TrimSpace(phone) == "" {
		messages = append(messages, "phone: required field missing")
	}
	if requireEmail && strings.TrimSpace(email) == "" {
		messages = append(messages, "email: required field missing")
	}
	if p := strings.TrimSpace(phone); p != "" && !validation.ValidatePhone(p) {
		messages = append(messages, "phone: invalid phone number")
	}
	if e := strings.TrimSpace(email); e != "" && !validation.ValidateEmail(e) {
		messages = append(messages, "email: invalid email address")
	}

	if len(messages) > 0 {
		return apperrors.NewValidationError(strings.Join(messages, "; "))
	}
	return nil
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationError(field + ": required field missing")
	}
	return nil
}
