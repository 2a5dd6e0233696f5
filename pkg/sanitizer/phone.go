package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	reValidPhone = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

	// Regions tried for inputs that arrive without a country prefix.
	fallbackRegions = []string{"US", "GB", "DE"}
)

// SanitizePhone normalizes a phone number to E.164. Inputs already in E.164
// pass through reformatted; anything unparseable comes back empty so the
// validator rejects it with a field-level message.
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	if reValidPhone.MatchString(phone) {
		if parsed, err := phonenumbers.Parse(phone, ""); err == nil {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
		return phone
	}

	for _, region := range fallbackRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}
