// internal/app/system/validators/validators.go

// Package validators holds input validation for registration and
// login. All functions expect already-normalized input (see the
// normalize package).
package validators

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/campuschat/campuschat/internal/domain/models"
)

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8
	// MaxNameLength bounds display names.
	MaxNameLength = 100
	// MaxMessageLength bounds a single chat message.
	MaxMessageLength = 2000
)

// Email checks that s is a well-formed address within the required
// institutional domain (e.g. "thapar.edu"). An empty domain disables
// the domain restriction.
func Email(s, domain string) error {
	if s == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return fmt.Errorf("invalid email address")
	}
	if domain != "" && !strings.HasSuffix(s, "@"+domain) {
		return fmt.Errorf("only @%s emails are allowed", domain)
	}
	return nil
}

// Branch checks that s is one of the allowed academic branches.
func Branch(s string) error {
	if s == "" {
		return fmt.Errorf("branch is required")
	}
	if !models.IsValidBranch(s) {
		return fmt.Errorf("branch must be one of: %s", strings.Join(models.AllowedBranches, ", "))
	}
	return nil
}

// Password checks minimum password requirements.
func Password(s string) error {
	if len(s) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// DisplayName checks a user's display name.
func DisplayName(s string) error {
	if s == "" {
		return fmt.Errorf("name is required")
	}
	if len(s) > MaxNameLength {
		return fmt.Errorf("name must be at most %d characters", MaxNameLength)
	}
	return nil
}
