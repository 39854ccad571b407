package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
)

func TestParse_AppliesDefaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	cfg, err := Parse([]byte("site:\n  title: Team Docs\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.GitHub.APIURL)
	assert.Equal(t, DefaultRawURL, cfg.GitHub.RawURL)
	assert.Equal(t, TreeSourceAPI, cfg.GitHub.Source)
	assert.Equal(t, DefaultConcurrency, cfg.Resolver.Concurrency)
	assert.Equal(t, DefaultTimeout, cfg.Resolver.TimeoutDuration())
	assert.Equal(t, RetryBackoffLinear, cfg.Resolver.Retry.Backoff)
	assert.Equal(t, 0, cfg.Resolver.Retry.MaxRetries)
	assert.Equal(t, DefaultOutputPath, cfg.Output.Path)
	assert.Equal(t, DefaultInterval, cfg.Serve.IntervalDuration())
	assert.Equal(t, "Team Docs", cfg.Site.Title)
	assert.Equal(t, "Team Docs", cfg.Site.ThemeConfig.Navbar.Title)
	assert.Equal(t, "/", cfg.Site.BaseURL)
	assert.Equal(t, []string{"en"}, cfg.Site.I18n.Locales)
	assert.Empty(t, cfg.GitHub.Token)
}

func TestParse_ExpandsEnvironmentToken(t *testing.T) {
	t.Setenv("DOCS_PAT", "s3cret")

	cfg, err := Parse([]byte("github:\n  token: ${DOCS_PAT}\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.GitHub.Token)
}

func TestParse_TokenFallsBackToGitHubToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-env")

	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GitHub.Token)
}

func TestParse_InlineDescriptorsNormalized(t *testing.T) {
	cfg, err := Parse([]byte(`
descriptors:
  - author: acme
    repo: widgets
  - author: " acme "
    repo: gadgets
    branch: develop
`))
	require.NoError(t, err)
	require.Len(t, cfg.Descriptors, 2)
	assert.Equal(t, Descriptor{Author: "acme", Repo: "widgets", Branch: "main"}, cfg.Descriptors[0])
	assert.Equal(t, Descriptor{Author: "acme", Repo: "gadgets", Branch: "develop"}, cfg.Descriptors[1])
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"bad source", "github:\n  source: svn\n", "github.source"},
		{"bad api url", "github:\n  api_url: not-a-url\n", "github.api_url"},
		{"bad timeout", "resolver:\n  timeout: soon\n", "resolver.timeout"},
		{"negative retries", "resolver:\n  retry:\n    max_retries: -1\n", "resolver.retry.max_retries"},
		{"bad backoff", "resolver:\n  retry:\n    backoff: random\n", "resolver.retry.backoff"},
		{"bad interval", "serve:\n  interval: -5m\n", "serve.interval"},
		{"descriptor without repo", "descriptors:\n  - author: acme\n", "repo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, rderrors.IsCategory(err, rderrors.CategoryValidation), "got %v", err)
			rde, ok := rderrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, rde.Context["field"])
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("github: [unterminated"))
	require.Error(t, err)
	assert.True(t, rderrors.IsCategory(err, rderrors.CategoryConfig))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, rderrors.IsCategory(err, rderrors.CategoryConfig))
}

func TestLoad_ResolvesDescriptorFileRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remotedocs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("descriptors_file: remoteContent.json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "remoteContent.json"), cfg.DescriptorsFile)
}

func TestInit_WritesLoadableExample(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "remotedocs.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "second init without force must fail")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My Site", cfg.Site.Title)
	assert.Equal(t, RetryBackoffExponential, cfg.Resolver.Retry.Backoff)

	descs, err := cfg.AllDescriptors()
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, "develop", descs[1].Branch)
}

func TestPresetsMarshalAsTuples(t *testing.T) {
	p := PresetsConfig{
		Classic: ClassicPreset{Docs: DocsOptions{SidebarPath: "./sidebars.js"}},
		Redoc: &RedocPreset{
			Specs: []RedocSpec{{ID: "api", Spec: "openapi.yaml", Route: "/api"}},
		},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Contains(t, string(decoded[0]), `"classic"`)
	assert.Contains(t, string(decoded[0]), `"sidebarPath":"./sidebars.js"`)
	assert.Contains(t, string(decoded[1]), `"redocusaurus"`)
	assert.Contains(t, string(decoded[1]), `"route":"/api"`)

	data, err = json.Marshal(PresetsConfig{})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "redocusaurus")
}

func TestDurationFallbacks(t *testing.T) {
	assert.Equal(t, DefaultTimeout, ResolverConfig{Timeout: "garbage"}.TimeoutDuration())
	assert.Equal(t, 5*time.Second, ResolverConfig{Timeout: "5s"}.TimeoutDuration())
	assert.Equal(t, DefaultInterval, ServeConfig{}.IntervalDuration())
}
