package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// APIClient talks to the GitHub OAuth and REST endpoints. The base URLs are
// swappable for tests.
type APIClient struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	OAuthBaseURL string
	APIBaseURL   string
	HTTPClient   *http.Client
}

func NewAPIClient(clientID, clientSecret, redirectURL string) *APIClient {
	return &APIClient{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		OAuthBaseURL: "https://github.com",
		APIBaseURL:   "https://api.github.com",
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether OAuth credentials are present.
func (c *APIClient) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// AuthorizeURL builds the GitHub OAuth authorize URL.
func (c *APIClient) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.RedirectURL)
	q.Set("scope", "read:user,repo")
	q.Set("state", state)
	return c.OAuthBaseURL + "/login/oauth/authorize?" + q.Encode()
}

// ExchangeCode trades the OAuth code for an access token.
func (c *APIClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", c.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.OAuthBaseURL+"/login/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github token exchange status %d", resp.StatusCode)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("github token exchange: %s", parsed.Error)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("github token exchange: no access token received")
	}
	return parsed.AccessToken, nil
}

// Account is the authenticated GitHub user.
type Account struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// GetUser fetches the account the token belongs to.
func (c *APIClient) GetUser(ctx context.Context, token string) (Account, error) {
	var account Account
	if err := c.getJSON(ctx, token, c.APIBaseURL+"/user", &account); err != nil {
		return Account{}, err
	}
	if account.Login == "" {
		return Account{}, fmt.Errorf("github user: empty login")
	}
	return account, nil
}

type apiRepo struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	Description     string   `json:"description"`
	HTMLURL         string   `json:"html_url"`
	Language        string   `json:"language"`
	LanguagesURL    string   `json:"languages_url"`
	Topics          []string `json:"topics"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	Private         bool     `json:"private"`
}

// SyncedRepo is a repository fetched from the GitHub API.
type SyncedRepo struct {
	RepoID      string
	Name        string
	FullName    string
	Description string
	URL         string
	Language    string
	Languages   []string
	Topics      []string
	Stars       int
	Forks       int
	IsPrivate   bool
}

// ListRepos fetches up to 100 of the user's repositories, most recently
// updated first. Language breakdowns are fetched best-effort.
func (c *APIClient) ListRepos(ctx context.Context, token string) ([]SyncedRepo, error) {
	var repos []apiRepo
	listURL := c.APIBaseURL + "/user/repos?per_page=100&sort=updated"
	if err := c.getJSON(ctx, token, listURL, &repos); err != nil {
		return nil, err
	}

	out := make([]SyncedRepo, 0, len(repos))
	for _, repo := range repos {
		synced := SyncedRepo{
			RepoID:      fmt.Sprintf("%d", repo.ID),
			Name:        repo.Name,
			FullName:    repo.FullName,
			Description: repo.Description,
			URL:         repo.HTMLURL,
			Language:    repo.Language,
			Topics:      repo.Topics,
			Stars:       repo.StargazersCount,
			Forks:       repo.ForksCount,
			IsPrivate:   repo.Private,
		}
		if repo.LanguagesURL != "" {
			if languages, err := c.getLanguages(ctx, token, repo.LanguagesURL); err == nil {
				synced.Languages = languages
			}
		}
		out = append(out, synced)
	}
	return out, nil
}

// getLanguages returns language names ordered by bytes of code, descending.
func (c *APIClient) getLanguages(ctx context.Context, token, languagesURL string) ([]string, error) {
	var breakdown map[string]int64
	if err := c.getJSON(ctx, token, languagesURL, &breakdown); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if breakdown[names[i]] != breakdown[names[j]] {
			return breakdown[names[i]] > breakdown[names[j]]
		}
		return names[i] < names[j]
	})
	return names, nil
}

func (c *APIClient) getJSON(ctx context.Context, token, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github api %s: status %d: %s", rawURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
