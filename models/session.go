package models

import "time"

// Session is the record of the currently logged in user.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DemoAccount is a built in login. There is no account store; these are the
// only credentials that can log in.
type DemoAccount struct {
	Username string
	Password string
	Name     string
	Mobile   string
}

var DemoAccounts = []DemoAccount{
	{Username: "user1", Password: "password123", Name: "John Doe", Mobile: "1234567890"},
	{Username: "user2", Password: "password123", Name: "Jane Smith", Mobile: "0987654321"},
}

// DemoOTP is the one-time code accepted at signup.
const DemoOTP = "123456"

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	Session     *Session `json:"user"`
}
