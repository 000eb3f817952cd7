// Package gitrepo derives a store name from the enclosing git
// repository, so repo-scoped stores can key their memory tree off the
// project being worked on.
package gitrepo

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNotARepo is returned when no enclosing git repository is found.
var ErrNotARepo = errors.New("gitrepo: not inside a git repository")

var originURLPattern = regexp.MustCompile(`(?m)^\s*url\s*=\s*(.+)$`)

// findGitDir walks up from dir looking for a .git directory (or the
// .git file a worktree leaves behind).
func findGitDir(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ".git")
		if info, err := os.Stat(candidate); err == nil {
			if info.IsDir() {
				return candidate, nil
			}
			// Worktree: .git is a file containing "gitdir: <path>".
			b, err := os.ReadFile(candidate)
			if err != nil {
				return "", err
			}
			line := strings.TrimSpace(string(b))
			if target, ok := strings.CutPrefix(line, "gitdir: "); ok {
				if !filepath.IsAbs(target) {
					target = filepath.Join(dir, target)
				}
				return target, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotARepo
		}
		dir = parent
	}
}

// slugify lowercases s and collapses anything outside [a-z0-9] into
// single hyphens, producing a valid category segment.
func slugify(s string) string {
	var sb strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(sb.String(), "-")
}

// commonDir resolves the repository's common git directory. For a
// linked worktree, findGitDir lands in .git/worktrees/<name>, which
// holds a "commondir" pointer back to the shared .git directory where
// config lives.
func commonDir(gitDir string) string {
	b, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if err != nil {
		return gitDir
	}
	target := strings.TrimSpace(string(b))
	if target == "" {
		return gitDir
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(gitDir, target)
	}
	return filepath.Clean(target)
}

// nameFromURL extracts the repository name from a remote URL, handling
// both https and scp-like ssh forms.
func nameFromURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), ".git")
	url = strings.TrimSuffix(url, "/")
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	return slugify(url)
}

// DetectName returns a slug-safe store name for the repository
// enclosing dir: the origin remote's repository name when one is
// configured, else the repository directory's own name. Returns
// ErrNotARepo when dir is not inside a repository.
func DetectName(dir string) (string, error) {
	gitDir, err := findGitDir(dir)
	if err != nil {
		return "", err
	}
	gitDir = commonDir(gitDir)
	if b, err := os.ReadFile(filepath.Join(gitDir, "config")); err == nil {
		if m := originURLPattern.FindSubmatch(b); m != nil {
			if name := nameFromURL(string(m[1])); name != "" {
				return name, nil
			}
		}
	}
	name := slugify(filepath.Base(filepath.Dir(gitDir)))
	if name == "" {
		return "", ErrNotARepo
	}
	return name, nil
}
