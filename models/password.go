package models

import (
	"errors"
	"regexp"
	"unicode/utf8"

	goval "github.com/go-passwd/validator"
)

const minPasswordLength = 8

var (
	specialPattern = regexp.MustCompile(`[^A-Za-z0-9]`)

	lengthRule  = goval.New(minRunes(minPasswordLength, errors.New("password too short")))
	upperRule   = goval.New(goval.ContainsAtLeast("ABCDEFGHIJKLMNOPQRSTUVWXYZ", 1, errors.New("no uppercase letter")))
	lowerRule   = goval.New(goval.ContainsAtLeast("abcdefghijklmnopqrstuvwxyz", 1, errors.New("no lowercase letter")))
	digitRule   = goval.New(goval.ContainsAtLeast("0123456789", 1, errors.New("no digit")))
	specialRule = goval.New(func(password string) error {
		if !specialPattern.MatchString(password) {
			return errors.New("no special character")
		}
		return nil
	})
)

// minRunes counts characters, not bytes, so "éééé" is four long.
func minRunes(length int, err error) goval.ValidateFunc {
	return func(password string) error {
		if utf8.RuneCountInString(password) < length {
			return err
		}
		return nil
	}
}

type PasswordCheck struct {
	Label string `json:"label"`
	Met   bool   `json:"met"`
}

// PasswordStrength is the live checklist shown next to the password field.
type PasswordStrength struct {
	Checks  []PasswordCheck `json:"checks"`
	Met     int             `json:"met"`
	Percent int             `json:"percent"`
	Label   string          `json:"label"`
}

func (p PasswordStrength) Satisfied() bool {
	return p.Met == len(p.Checks)
}

func CheckPassword(password string) PasswordStrength {
	checks := []PasswordCheck{
		{Label: "At least 8 characters", Met: lengthRule.Validate(password) == nil},
		{Label: "At least 1 uppercase letter", Met: upperRule.Validate(password) == nil},
		{Label: "At least 1 lowercase letter", Met: lowerRule.Validate(password) == nil},
		{Label: "At least 1 digit", Met: digitRule.Validate(password) == nil},
		{Label: "At least 1 special character", Met: specialRule.Validate(password) == nil},
	}

	met := 0
	for _, c := range checks {
		if c.Met {
			met++
		}
	}
	percent := met * 100 / len(checks)

	return PasswordStrength{
		Checks:  checks,
		Met:     met,
		Percent: percent,
		Label:   strengthLabel(percent),
	}
}

func strengthLabel(percent int) string {
	switch {
	case percent == 100:
		return "Strong"
	case percent >= 60:
		return "Good"
	case percent >= 40:
		return "Fair"
	default:
		return "Weak"
	}
}
