// Package github lists the repositories of a GitHub owner so they can be
// brought down in bulk.
package github

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/NicabarNimble/go-gitproject/internal/errors"
	"github.com/NicabarNimble/go-gitproject/internal/token"
)

const perPage = 100

// Repository is the subset of a GitHub repository gitproject needs.
type Repository struct {
	Owner    string
	Name     string
	Archived bool
	Fork     bool
	// SSHURL and CloneURL carry the host the API reported, which differs
	// from github.com on GitHub Enterprise.
	SSHURL   string
	CloneURL string
}

// Slug returns owner/name.
func (r Repository) Slug() string {
	return r.Owner + "/" + r.Name
}

// Identifier returns the project identifier to clone r with, over HTTPS when
// https is set and over SSH otherwise.
func (r Repository) Identifier(https bool) string {
	if https {
		if r.CloneURL != "" {
			return r.CloneURL
		}
		return "https://github.com/" + r.Slug()
	}
	if r.SSHURL != "" {
		return r.SSHURL
	}
	return r.Slug()
}

// ListOptions filter the repositories returned by ListRepositories.
type ListOptions struct {
	IncludeArchived bool
	IncludeForks    bool
}

// Client handles GitHub API operations
type Client struct {
	gh *gh.Client
}

// NewClient creates a client authenticated with tok. An empty token gives
// anonymous access, which only sees public repositories. baseURL selects a
// GitHub Enterprise API root; empty means api.github.com.
func NewClient(ctx context.Context, tok, baseURL string) (*Client, error) {
	var httpClient *http.Client
	if tok != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok}))
	}
	return newClientWithBaseURL(httpClient, baseURL)
}

func newClientWithBaseURL(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if baseURL == "" {
		return &Client{gh: client}, nil
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Errorf("github client", "invalid base URL %q: %w", baseURL, err)
	}
	client.BaseURL = u
	return &Client{gh: client}, nil
}

// ListRepositories returns every repository owned by owner, which may be an
// organization or a user.
func (c *Client) ListRepositories(ctx context.Context, owner string, opts ListOptions) ([]Repository, error) {
	repos, err := c.listByOrg(ctx, owner)
	if isNotFound(err) {
		repos, err = c.listByUser(ctx, owner)
	}
	if err != nil {
		return nil, errors.New("list repositories of "+owner, err)
	}

	var out []Repository
	for _, repo := range repos {
		r := Repository{
			Owner:    repo.GetOwner().GetLogin(),
			Name:     repo.GetName(),
			Archived: repo.GetArchived(),
			Fork:     repo.GetFork(),
			SSHURL:   repo.GetSSHURL(),
			CloneURL: repo.GetCloneURL(),
		}
		if r.Owner == "" {
			r.Owner = owner
		}
		if r.Archived && !opts.IncludeArchived {
			continue
		}
		if r.Fork && !opts.IncludeForks {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *Client) listByOrg(ctx context.Context, org string) ([]*gh.Repository, error) {
	options := &gh.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var all []*gh.Repository
	for {
		repos, resp, err := c.gh.Repositories.ListByOrg(ctx, org, options)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)

		if resp.NextPage == 0 {
			break
		}
		options.Page = resp.NextPage
	}
	return all, nil
}

func (c *Client) listByUser(ctx context.Context, user string) ([]*gh.Repository, error) {
	options := &gh.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var all []*gh.Repository
	for {
		repos, resp, err := c.gh.Repositories.ListByUser(ctx, user, options)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)

		if resp.NextPage == 0 {
			break
		}
		options.Page = resp.NextPage
	}
	return all, nil
}

func isNotFound(err error) bool {
	var respErr *gh.ErrorResponse
	return stderrors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound
}

// ResolveToken picks the configured token when set and falls back to src.
// Having no token at all is not an error.
func ResolveToken(ctx context.Context, configured string, src token.Source) (string, error) {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured, nil
	}
	t, err := src.Retrieve(ctx, token.ProviderGitHub)
	if stderrors.Is(err, token.ErrTokenNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return t.Value, nil
}
