// internal/services/site/config-store/schema.go
package configstore

// businessConfigSchema is applied to every candidate config before it is
// stored. Unknown fields and wrong types are rejected.
const businessConfigSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "required": [
    "companyName", "contact", "niche", "primaryColor",
    "heroButtonType", "navbarButtonType",
    "consultationButtonLocation", "quoteButtonLocation",
    "navLinks", "aboutSection", "servicesList", "reviews",
    "ownerNotificationType", "slotDuration", "availableHours", "blockedDays"
  ],
  "definitions": {
    "buttonType": {"type": "string", "enum": ["Consultation", "Quote", "Both"]},
    "ctaLocation": {"type": "string", "enum": ["Header", "Navbar", "Both", "None"]},
    "clock": {"type": "string", "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"}
  },
  "properties": {
    "companyName": {"type": "string"},
    "slogan": {"type": "string"},
    "address": {"type": "string"},
    "contact": {
      "type": "object",
      "additionalProperties": false,
      "required": ["phone", "email"],
      "properties": {
        "phone": {"type": "string"},
        "email": {"type": "string"}
      }
    },
    "smsSenderName": {"type": "string", "pattern": "^[A-Za-z0-9]{0,11}$"},
    "telegramChatId": {"type": "string"},
    "niche": {"type": "string", "enum": ["General", "PlumbingOnly", "HeatingOnly"]},
    "primaryColor": {"type": "string", "pattern": "^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"},
    "heroButtonType": {"$ref": "#/definitions/buttonType"},
    "navbarButtonType": {"$ref": "#/definitions/buttonType"},
    "navbarButtonText": {"type": "string"},
    "consultationButtonText": {"type": "string"},
    "quoteButtonText": {"type": "string"},
    "consultationButtonLocation": {"$ref": "#/definitions/ctaLocation"},
    "quoteButtonLocation": {"$ref": "#/definitions/ctaLocation"},
    "showNavbarCta": {"type": "boolean"},
    "showHeaderCta": {"type": "boolean"},
    "navLinks": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "services": {"type": "boolean"},
        "about": {"type": "boolean"},
        "contact": {"type": "boolean"}
      }
    },
    "heroImage": {"type": "string"},
    "heroImagePrompt": {"type": "string"},
    "aboutSection": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "show": {"type": "boolean"},
        "title": {"type": "string"},
        "text": {"type": "string"},
        "imageUrl": {"type": "string"},
        "imagePrompt": {"type": "string"}
      }
    },
    "servicesList": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["id", "name"],
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "imageUrl": {"type": "string"},
          "imagePrompt": {"type": "string"}
        }
      }
    },
    "reviews": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["id", "author", "rating", "text"],
        "properties": {
          "id": {"type": "string"},
          "author": {"type": "string"},
          "rating": {"type": "integer", "minimum": 1, "maximum": 5},
          "text": {"type": "string"},
          "date": {"type": "string"},
          "imageUrl": {"type": "string"}
        }
      }
    },
    "enableChatWidget": {"type": "boolean"},
    "enableBookingSystem": {"type": "boolean"},
    "enableReputationPage": {"type": "boolean"},
    "ownerNotificationType": {"type": "string", "enum": ["Email", "SMS", "Both"]},
    "googleReviewLink": {"type": "string"},
    "githubRepo": {"type": "string"},
    "slotDuration": {"type": "integer", "enum": [15, 30, 45]},
    "availableHours": {
      "type": "object",
      "additionalProperties": false,
      "required": ["start", "end"],
      "properties": {
        "start": {"$ref": "#/definitions/clock"},
        "end": {"$ref": "#/definitions/clock"}
      }
    },
    "blockedDays": {
      "type": "array",
      "uniqueItems": true,
      "items": {"type": "integer", "minimum": 0, "maximum": 6}
    }
  }
}`

// objectFields are the BusinessConfig keys UpdateNested can merge into.
var objectFields = map[string]bool{
	"contact":        true,
	"navLinks":       true,
	"aboutSection":   true,
	"availableHours": true,
}
