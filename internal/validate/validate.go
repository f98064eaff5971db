package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// emailPattern is a shallow shape check. Deliverability and full RFC
// compliance are out of scope.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email rejects addresses without exactly one @ and a dotted domain.
func Email(s string) error {
	addr := strings.TrimSpace(s)
	if addr == "" {
		return fmt.Errorf("email address is required")
	}
	if strings.Count(addr, "@") != 1 || !emailPattern.MatchString(addr) {
		return fmt.Errorf("invalid email address %q", addr)
	}
	return nil
}

// NonEmpty rejects blank required fields.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// Features rejects empty feature lists and blank entries.
func Features(features []string) error {
	if len(features) == 0 {
		return fmt.Errorf("at least one feature is required")
	}
	for _, f := range features {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("feature names must not be blank")
		}
	}
	return nil
}
