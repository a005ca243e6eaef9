package github

import "time"

// Repo is a synced GitHub repository owned by a user.
type Repo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	RepoID      string    `json:"repoId"`
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Language    string    `json:"language"`
	Languages   []string  `json:"languages"`
	Topics      []string  `json:"topics"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	IsPrivate   bool      `json:"isPrivate"`
	IsSelected  bool      `json:"isSelected"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
