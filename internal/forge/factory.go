package forge

import (
	"fmt"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
)

// NewTreeLister creates the tree lister selected by github.source.
func NewTreeLister(gh config.GitHubConfig, opts ...GitHubOption) (TreeLister, error) {
	switch gh.Source {
	case config.TreeSourceAPI, "":
		return NewGitHubClient(gh, opts...)
	case config.TreeSourceGit:
		return NewGitClient(gh.GitURL, gh.Token, gh.CloneDepth), nil
	default:
		return nil, rderrors.ValidationFailed("github.source", fmt.Sprintf("unsupported tree source %q", gh.Source))
	}
}
