package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPassword(t *testing.T) {
	strong := CheckPassword("Abcd123!")
	assert.True(t, strong.Satisfied())
	assert.Equal(t, 5, strong.Met)
	assert.Equal(t, 100, strong.Percent)
	assert.Equal(t, "Strong", strong.Label)

	weak := CheckPassword("abcdefgh")
	require.Len(t, weak.Checks, 5)
	assert.True(t, weak.Checks[0].Met)
	assert.False(t, weak.Checks[1].Met)
	assert.True(t, weak.Checks[2].Met)
	assert.False(t, weak.Checks[3].Met)
	assert.False(t, weak.Checks[4].Met)
	assert.Equal(t, 40, weak.Percent)
	assert.Equal(t, "Fair", weak.Label)
	assert.False(t, weak.Satisfied())
}

func TestPasswordLengthCountsCharacters(t *testing.T) {
	short := CheckPassword("éééé")
	assert.False(t, short.Checks[0].Met)

	long := CheckPassword("Ab1!éééé")
	assert.True(t, long.Checks[0].Met)
	assert.True(t, long.Satisfied())
}

func TestStrengthLabels(t *testing.T) {
	assert.Equal(t, "Weak", CheckPassword("").Label)
	assert.Equal(t, "Weak", CheckPassword("a").Label)
	assert.Equal(t, "Good", CheckPassword("abcdefg1").Label)
	assert.Equal(t, "Good", CheckPassword("Abcdefg1").Label)
}

func TestValidateSignupReportsAllFields(t *testing.T) {
	req := &SignupRequest{}
	fields := ValidateStruct(req)

	assert.Equal(t, map[string]string{
		"name":     "Name is required",
		"email":    "Email is required",
		"mobile":   "Mobile number is required",
		"password": "Password is required",
	}, fields)
}

func TestValidateSignupFormats(t *testing.T) {
	req := &SignupRequest{
		Name:     "  Ada  ",
		Email:    "ada@example",
		Mobile:   "12-34",
		Password: "short",
	}
	fields := ValidateStruct(req)

	assert.Equal(t, "Please enter a valid email address", fields["email"])
	assert.Equal(t, "Please enter a valid 10-digit mobile number", fields["mobile"])
	assert.Equal(t, "Password does not meet requirements", fields["password"])
	assert.NotContains(t, fields, "name")
	assert.Equal(t, "Ada", req.Name)
	assert.Equal(t, "1234", req.Mobile)
}

func TestValidateSignupAccepts(t *testing.T) {
	req := &SignupRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Mobile:   "(555) 123-4567",
		Password: "Abcd123!",
	}
	assert.Nil(t, ValidateStruct(req))
	assert.Equal(t, "5551234567", req.Mobile)
}

func TestValidateLogin(t *testing.T) {
	fields := ValidateStruct(&LoginRequest{})
	assert.Equal(t, "Username is required", fields["username"])
	assert.Equal(t, "Password is required", fields["password"])

	assert.Nil(t, ValidateStruct(&LoginRequest{Username: "user1", Password: "password123"}))
}

func TestUsernameFromEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", UsernameFromEmail(" Ada@Example.com"))
	assert.NotEqual(t, UsernameFromEmail("bob@a.com"), UsernameFromEmail("bob@b.com"))
	for _, demo := range DemoAccounts {
		assert.NotEqual(t, demo.Username, UsernameFromEmail(demo.Username+"@evil.example"))
	}
}
