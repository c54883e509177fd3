package gateway

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minNameLength     = 2
	minPasswordLength = 8
	passwordSpecials  = "@$!%*?&"
)

var passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(c.Email) == "" {
		v.add("email", "email is required")
	}
	if c.Password == "" {
		v.add("password", "password is required")
	}
	return v.orNil()
}

// Validate applies the sign-up form rules and reports every failing field.
func (r Registration) Validate() error {
	v := &ValidationError{}

	validateName(v, "firstName", r.FirstName)
	validateName(v, "lastName", r.LastName)

	switch {
	case strings.TrimSpace(r.Email) == "":
		v.add("email", "email is required")
	case !isEmail(r.Email):
		v.add("email", "email is not valid")
	}

	if strings.TrimSpace(r.Address) == "" {
		v.add("address", "address is required")
	}

	if msg := passwordProblem(r.Password); msg != "" {
		v.add("password", msg)
	}

	switch {
	case r.ConfirmPassword == "":
		v.add("confirmPassword", "password confirmation is required")
	case r.ConfirmPassword != r.Password:
		v.add("confirmPassword", "passwords do not match")
	}

	if !r.AcceptTerms {
		v.add("acceptTerms", "terms must be accepted")
	}
	return v.orNil()
}

func validateName(v *ValidationError, field, value string) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		v.add(field, field+" is required")
	case utf8.RuneCountInString(value) < minNameLength:
		v.add(field, field+" must be at least 2 characters")
	}
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// passwordProblem returns why password is unacceptable, or "".
func passwordProblem(password string) string {
	if password == "" {
		return "password is required"
	}
	if len(password) < minPasswordLength {
		return "password must be at least 8 characters long"
	}
	if !passwordCharset.MatchString(password) {
		return "password may only contain letters, digits and " + passwordSpecials
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, c):
			hasSpecial = true
		}
	}
	switch {
	case !hasLower:
		return "password must contain at least one lowercase letter"
	case !hasUpper:
		return "password must contain at least one uppercase letter"
	case !hasDigit:
		return "password must contain at least one number"
	case !hasSpecial:
		return "password must contain at least one of " + passwordSpecials
	}
	return ""
}
