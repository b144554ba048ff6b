// Package revision finds the commit the working tree is on, when there is one.
package revision

import (
	"path/filepath"

	"kioku/log"

	"github.com/go-git/go-git/v5"
)

// Probe returns the HEAD commit hash of the git repository enclosing dir.
// Any failure (no repository, unborn HEAD, unreadable refs) yields ok == false.
func Probe(dir string) (hash string, ok bool) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		log.Debug("revision probe: abs path of %s: %v", dir, err)
		absPath = dir
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		log.Debug("revision probe: no repository at %s: %v", absPath, err)
		return "", false
	}

	head, err := repo.Head()
	if err != nil {
		log.Debug("revision probe: reading HEAD in %s: %v", absPath, err)
		return "", false
	}
	return head.Hash().String(), true
}
