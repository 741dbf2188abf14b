// Package gitsource materializes remote deck repositories locally so the
// importer can walk them like any other directory of markdown decks.
package gitsource

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// IsGitURL reports whether the import source looks like a git remote rather
// than a local path.
func IsGitURL(source string) bool {
	return strings.HasSuffix(source, ".git") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "http://")
}

// Materialize clones the repository into a cache directory under baseDir, or
// pulls the latest changes if a previous clone exists, and returns the local
// path to walk.
func Materialize(ctx context.Context, baseDir, repoURL string) (string, error) {
	localPath, err := localPathFor(baseDir, repoURL)
	if err != nil {
		return "", err
	}

	_, statErr := os.Stat(localPath)
	switch {
	case os.IsNotExist(statErr):
		slog.Info("cloning deck repository", "url", repoURL, "path", localPath)
		_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
			URL: repoURL,
		})
		if err != nil {
			return "", fmt.Errorf("failed to clone repo %s: %w", repoURL, err)
		}
	case statErr == nil:
		slog.Info("pulling deck repository", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return "", fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return "", fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}
		err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return "", fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
	default:
		return "", fmt.Errorf("error checking path %s: %w", localPath, statErr)
	}

	return localPath, nil
}

// localPathFor maps a git URL onto a stable cache path under baseDir, so
// repeated imports of the same repository reuse the clone.
func localPathFor(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err != nil || (parsed.Scheme != "https" && parsed.Scheme != "http") {
		// scp-like syntax: git@host:user/repo.git
		if strings.Contains(repoURL, "@") {
			parts := strings.SplitN(repoURL, ":", 2)
			if len(parts) == 2 {
				hostAndUser := strings.SplitN(parts[0], "@", 2)
				if len(hostAndUser) == 2 {
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, hostAndUser[1], repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitized := strings.TrimSuffix(parsed.Path, ".git")
	return filepath.Join(baseDir, parsed.Host, sanitized), nil
}
