package forge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
)

var widgets = config.Descriptor{Author: "acme", Repo: "widgets", Branch: "main"}

func newTestGitHubClient(t *testing.T, token string, h http.HandlerFunc) *GitHubClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewGitHubClient(config.GitHubConfig{APIURL: srv.URL, Token: token}, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestGitHubClient_ListTree(t *testing.T) {
	var gotAuth, gotPath, gotRecursive string
	c := newTestGitHubClient(t, "test-token", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotRecursive = r.URL.Query().Get("recursive")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"sha": "abc",
			"truncated": false,
			"tree": [
				{"path": "README.md", "type": "blob"},
				{"path": "docs", "type": "tree"},
				{"path": "docs/intro", "type": "tree"},
				{"path": "docs/intro/page.md", "type": "blob"}
			]
		}`))
	})

	tree, err := c.ListTree(context.Background(), widgets)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/repos/acme/widgets/git/trees/main", gotPath)
	assert.Equal(t, "1", gotRecursive)
	assert.False(t, tree.Truncated)
	assert.Equal(t, []TreeEntry{
		{Path: "README.md", Type: EntryBlob},
		{Path: "docs", Type: EntryTree},
		{Path: "docs/intro", Type: EntryTree},
		{Path: "docs/intro/page.md", Type: EntryBlob},
	}, tree.Entries)
	assert.Equal(t, "api", c.Name())
}

func TestGitHubClient_AnonymousWithoutToken(t *testing.T) {
	var gotAuth string
	c := newTestGitHubClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"tree": []}`))
	})

	tree, err := c.ListTree(context.Background(), widgets)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Empty(t, tree.Entries)
}

func TestGitHubClient_TruncatedFlag(t *testing.T) {
	c := newTestGitHubClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"truncated": true, "tree": [{"path": "docs", "type": "tree"}]}`))
	})

	tree, err := c.ListTree(context.Background(), widgets)
	require.NoError(t, err)
	assert.True(t, tree.Truncated)
}

func TestGitHubClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		headers   map[string]string
		body      string
		category  rderrors.ErrorCategory
		retryable bool
	}{
		{"not found", http.StatusNotFound, nil, `{"message": "Not Found"}`, rderrors.CategoryForge, false},
		{"server error", http.StatusBadGateway, nil, `{"message": "bad gateway"}`, rderrors.CategoryForge, true},
		{"bad credentials", http.StatusUnauthorized, nil, `{"message": "Bad credentials"}`, rderrors.CategoryAuth, false},
		{
			"rate limited", http.StatusForbidden,
			map[string]string{
				"X-RateLimit-Limit":     "60",
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10),
			},
			`{"message": "API rate limit exceeded"}`, rderrors.CategoryForge, true,
		},
		{"html instead of json", http.StatusOK, nil, `<html>oops</html>`, rderrors.CategoryDecode, false},
		{"missing tree array", http.StatusOK, nil, `{"sha": "abc"}`, rderrors.CategoryDecode, false},
		{"tree of wrong type", http.StatusOK, nil, `{"tree": "nope"}`, rderrors.CategoryDecode, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestGitHubClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			tree, err := c.ListTree(context.Background(), widgets)
			require.Error(t, err)
			assert.Nil(t, tree)
			assert.Equal(t, tt.category, rderrors.GetCategory(err), "err: %v", err)
			assert.Equal(t, tt.retryable, rderrors.IsRetryable(err))
		})
	}
}

func TestGitHubClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c, err := NewGitHubClient(config.GitHubConfig{APIURL: srv.URL}, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	srv.Close()

	_, err = c.ListTree(context.Background(), widgets)
	require.Error(t, err)
	assert.True(t, rderrors.IsCategory(err, rderrors.CategoryNetwork))
	assert.True(t, rderrors.IsRetryable(err))
}

func TestNewTreeLister(t *testing.T) {
	api, err := NewTreeLister(config.GitHubConfig{Source: config.TreeSourceAPI, APIURL: "https://api.example.com"})
	require.NoError(t, err)
	assert.IsType(t, &GitHubClient{}, api)

	git, err := NewTreeLister(config.GitHubConfig{Source: config.TreeSourceGit, GitURL: "https://example.com"})
	require.NoError(t, err)
	assert.IsType(t, &GitClient{}, git)

	_, err = NewTreeLister(config.GitHubConfig{Source: "svn"})
	require.Error(t, err)
	assert.True(t, rderrors.IsCategory(err, rderrors.CategoryValidation))
}
