package model

import (
	"time"

	"github.com/google/go-github/v66/github"
)

// RepositoryRecord is the public metadata of a single repository, as mirrored
// from the upstream API. Records are immutable once fetched.
type RepositoryRecord struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     *string   `json:"description"` // can be nil for repositories without description
	HTMLURL         string    `json:"html_url"`
	Homepage        *string   `json:"homepage"`
	Language        *string   `json:"language"` // primary language, nil when github detected none
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	WatchersCount   int       `json:"watchers_count"`
	Topics          []string  `json:"topics"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	PushedAt        time.Time `json:"pushed_at"`
	Fork            bool      `json:"fork"`
	Archived        bool      `json:"archived"`
	Visibility      string    `json:"visibility"`
}

// UserProfile is a snapshot of the account owner public profile
type UserProfile struct {
	Login       string    `json:"login"`
	ID          int64     `json:"id"`
	AvatarURL   string    `json:"avatar_url"`
	HTMLURL     string    `json:"html_url"`
	Name        *string   `json:"name"`
	Company     *string   `json:"company"`
	Blog        *string   `json:"blog"`
	Location    *string   `json:"location"`
	Bio         *string   `json:"bio"`
	PublicRepos int       `json:"public_repos"`
	PublicGists int       `json:"public_gists"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
}

// AggregateResponse is the unit exchanged with clients: the profile plus the
// complete repository list, replaced wholesale on every successful fetch
type AggregateResponse struct {
	User  UserProfile        `json:"user"`
	Repos []RepositoryRecord `json:"repos"`
}

// NewRepositoryRecord builds a RepositoryRecord from the go-github type
func NewRepositoryRecord(r *github.Repository) RepositoryRecord {
	return RepositoryRecord{
		ID:              r.GetID(),
		Name:            r.GetName(),
		FullName:        r.GetFullName(),
		Description:     r.Description,
		HTMLURL:         r.GetHTMLURL(),
		Homepage:        r.Homepage,
		Language:        r.Language,
		StargazersCount: r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
		WatchersCount:   r.GetWatchersCount(),
		Topics:          r.Topics,
		CreatedAt:       r.GetCreatedAt().Time,
		UpdatedAt:       r.GetUpdatedAt().Time,
		PushedAt:        r.GetPushedAt().Time,
		Fork:            r.GetFork(),
		Archived:        r.GetArchived(),
		Visibility:      r.GetVisibility(),
	}
}

// NewUserProfile builds a UserProfile from the go-github type
func NewUserProfile(u *github.User) UserProfile {
	return UserProfile{
		Login:       u.GetLogin(),
		ID:          u.GetID(),
		AvatarURL:   u.GetAvatarURL(),
		HTMLURL:     u.GetHTMLURL(),
		Name:        u.Name,
		Company:     u.Company,
		Blog:        u.Blog,
		Location:    u.Location,
		Bio:         u.Bio,
		PublicRepos: u.GetPublicRepos(),
		PublicGists: u.GetPublicGists(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		CreatedAt:   u.GetCreatedAt().Time,
	}
}
