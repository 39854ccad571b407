package forge

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
	"git.home.luguber.info/inful/remotedocs/internal/logfields"
)

// GitHubClient lists repository trees through the GitHub git/trees API.
type GitHubClient struct {
	client *github.Client
	apiURL string
}

// GitHubOption customizes a GitHubClient.
type GitHubOption func(*githubOptions)

type githubOptions struct {
	httpClient *http.Client
}

// WithHTTPClient sets the base http.Client (e.g. in tests). Token auth is layered on top.
func WithHTTPClient(hc *http.Client) GitHubOption {
	return func(o *githubOptions) { o.httpClient = hc }
}

// NewGitHubClient creates a new GitHub tree client. An empty token yields
// anonymous (rate limited) access.
func NewGitHubClient(gh config.GitHubConfig, opts ...GitHubOption) (*GitHubClient, error) {
	var o githubOptions
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if gh.Token != "" {
		ctx := context.Background()
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: gh.Token}))
	}

	apiURL := gh.APIURL
	if apiURL == "" {
		apiURL = config.DefaultAPIURL
	}
	base, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
	if err != nil {
		return nil, rderrors.ValidationFailed("github.api_url", err.Error())
	}

	client := github.NewClient(httpClient)
	client.BaseURL = base
	return &GitHubClient{client: client, apiURL: base.String()}, nil
}

// Name returns the lister name.
func (c *GitHubClient) Name() string { return string(config.TreeSourceAPI) }

// ListTree fetches repos/{author}/{repo}/git/trees/{branch}?recursive=1.
func (c *GitHubClient) ListTree(ctx context.Context, d config.Descriptor) (*Tree, error) {
	tree, resp, err := c.client.Git.GetTree(ctx, d.Author, d.Repo, d.Branch, true)
	if err != nil {
		return nil, c.classify(d, resp, err)
	}
	if tree == nil || tree.Entries == nil {
		return nil, rderrors.DecodeError(d.FullName(), stdErrors.New("response has no tree array"))
	}

	out := &Tree{
		Entries:   make([]TreeEntry, 0, len(tree.Entries)),
		Truncated: tree.GetTruncated(),
	}
	for _, e := range tree.Entries {
		if e == nil {
			continue
		}
		out.Entries = append(out.Entries, TreeEntry{Path: e.GetPath(), Type: EntryType(e.GetType())})
	}
	slog.Debug("Fetched repository tree",
		logfields.Repository(d.FullName()),
		logfields.Branch(d.Branch),
		slog.Int("entries", len(out.Entries)),
		slog.Bool("truncated", out.Truncated))
	return out, nil
}

// classify maps go-github failures onto the error taxonomy.
func (c *GitHubClient) classify(d config.Descriptor, resp *github.Response, err error) error {
	repo := d.FullName()

	var rateErr *github.RateLimitError
	if stdErrors.As(err, &rateErr) {
		return rderrors.ForgeStatus(repo, http.StatusTooManyRequests, err)
	}
	var abuseErr *github.AbuseRateLimitError
	if stdErrors.As(err, &abuseErr) {
		return rderrors.ForgeStatus(repo, http.StatusTooManyRequests, err)
	}
	var ghErr *github.ErrorResponse
	if stdErrors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return rderrors.ForgeAuthError(repo, err)
		default:
			return rderrors.ForgeStatus(repo, ghErr.Response.StatusCode, err)
		}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if stdErrors.As(err, &syntaxErr) || stdErrors.As(err, &typeErr) {
		return rderrors.DecodeError(repo, err)
	}
	if resp != nil && resp.StatusCode >= 300 {
		return rderrors.ForgeStatus(repo, resp.StatusCode, err)
	}
	return rderrors.NetworkError(c.apiURL, err).WithContext("repository", repo)
}
