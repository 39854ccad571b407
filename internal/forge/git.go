package forge

import (
	"context"
	stdErrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
	"git.home.luguber.info/inful/remotedocs/internal/logfields"
)

// GitClient lists repository trees by cloning the branch into memory. It avoids
// the API's tree size limit at the cost of transferring objects.
type GitClient struct {
	baseURL string
	token   string
	depth   int
}

// NewGitClient creates a clone-based tree lister. depth <= 0 clones full history.
func NewGitClient(baseURL, token string, depth int) *GitClient {
	return &GitClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		depth:   depth,
	}
}

// Name returns the lister name.
func (c *GitClient) Name() string { return string(config.TreeSourceGit) }

func (c *GitClient) cloneURL(d config.Descriptor) string {
	return c.baseURL + "/" + d.Author + "/" + d.Repo + ".git"
}

// ListTree clones the descriptor's branch without a worktree and walks its HEAD tree.
func (c *GitClient) ListTree(ctx context.Context, d config.Descriptor) (*Tree, error) {
	opts := &git.CloneOptions{
		URL:           c.cloneURL(d),
		ReferenceName: plumbing.NewBranchReferenceName(d.Branch),
		SingleBranch:  true,
		Tags:          git.NoTags,
	}
	if c.depth > 0 {
		opts.Depth = c.depth
	}
	if c.token != "" && strings.HasPrefix(opts.URL, "http") {
		opts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: c.token}
	}

	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, opts)
	if err != nil {
		return nil, c.classify(d, err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, rderrors.GitListError(d.FullName(), err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, rderrors.GitListError(d.FullName(), err)
	}
	root, err := commit.Tree()
	if err != nil {
		return nil, rderrors.GitListError(d.FullName(), err)
	}

	entries, err := walkTree(root)
	if err != nil {
		return nil, rderrors.GitListError(d.FullName(), err)
	}
	slog.Debug("Listed repository tree from clone",
		logfields.Repository(d.FullName()),
		logfields.Branch(d.Branch),
		slog.Int("entries", len(entries)))
	return &Tree{Entries: entries}, nil
}

// walkTree flattens a git tree into API-style entries in pre-order.
func walkTree(root *object.Tree) ([]TreeEntry, error) {
	walker := object.NewTreeWalker(root, true, nil)
	defer walker.Close()

	var entries []TreeEntry
	for {
		name, entry, err := walker.Next()
		if stdErrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, TreeEntry{Path: name, Type: entryTypeFor(entry.Mode)})
	}
	return entries, nil
}

func entryTypeFor(mode filemode.FileMode) EntryType {
	switch mode {
	case filemode.Dir:
		return EntryTree
	case filemode.Submodule:
		return EntryCommit
	default:
		return EntryBlob
	}
}

func (c *GitClient) classify(d config.Descriptor, err error) error {
	switch {
	case stdErrors.Is(err, git.NoMatchingRefSpecError{}),
		stdErrors.Is(err, plumbing.ErrReferenceNotFound),
		stdErrors.Is(err, transport.ErrRepositoryNotFound),
		stdErrors.Is(err, transport.ErrEmptyRemoteRepository):
		return rderrors.ForgeStatus(d.FullName(), http.StatusNotFound, err)
	case stdErrors.Is(err, transport.ErrAuthenticationRequired),
		stdErrors.Is(err, transport.ErrAuthorizationFailed):
		return rderrors.ForgeAuthError(d.FullName(), err)
	default:
		return rderrors.GitListError(d.FullName(), err)
	}
}
