package users

import "time"

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"isActive"`
	IsVerified     bool      `json:"isVerified"`
	OAuthProvider  string    `json:"-"`
	OAuthID        string    `json:"-"`
	GithubToken    string    `json:"-"`
	GithubUsername string    `json:"githubUsername,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
