// Package puppet finds puppet scripts on disk and runs them as child processes.
package puppet

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	theatererrors "github.com/AndreyAkinshin/theater/internal/errors"
)

// GlobOptions tunes how discovery patterns are matched.
type GlobOptions struct {
	// Dot allows matches whose path (below the pattern base) has a hidden component.
	Dot bool
	// OnlyFiles drops directories from the result.
	OnlyFiles bool
	// CaseInsensitive matches names regardless of case.
	CaseInsensitive bool
	// FollowSymlinks lets "**" descend into symlinked directories.
	FollowSymlinks bool
	// Ignore lists patterns whose matches are removed from the result.
	Ignore []string
}

// Discover expands patterns into a de-duplicated list of slash-separated paths.
// Relative patterns are rooted at baseDir when it is non-empty. The first
// pattern to produce a path decides its position in the result; each
// pattern contributes its matches in lexical order.
func Discover(patterns []string, opts GlobOptions, baseDir string) ([]string, error) {
	for _, ig := range opts.Ignore {
		if !doublestar.ValidatePattern(filepath.ToSlash(ig)) {
			return nil, theatererrors.Configf("invalid ignore pattern %q", ig)
		}
	}

	seen := make(map[string]struct{})
	var found []string
	for _, pattern := range patterns {
		full := rootPattern(pattern, baseDir)
		if !doublestar.ValidatePattern(full) {
			return nil, theatererrors.Configf("invalid pattern %q", pattern)
		}

		matches, err := doublestar.FilepathGlob(filepath.FromSlash(full), globOptions(opts)...)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}

		sort.Strings(matches)
		base, _ := doublestar.SplitPattern(full)
		for _, m := range matches {
			m = filepath.ToSlash(m)
			if _, dup := seen[m]; dup {
				continue
			}
			if !opts.Dot && hasHiddenComponent(relativeTo(base, m)) {
				continue
			}
			if ignored(m, baseDir, opts.Ignore) {
				continue
			}
			seen[m] = struct{}{}
			found = append(found, m)
		}
	}
	return found, nil
}

// Relative returns puppetPath relative to dir when puppetPath lies below it,
// otherwise puppetPath unchanged. The result always uses forward slashes.
func Relative(dir, puppetPath string) string {
	if dir == "" {
		return filepath.ToSlash(puppetPath)
	}
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(puppetPath))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(puppetPath)
	}
	return filepath.ToSlash(rel)
}

func globOptions(opts GlobOptions) []doublestar.GlobOption {
	out := []doublestar.GlobOption{doublestar.WithFailOnIOErrors()}
	if opts.OnlyFiles {
		out = append(out, doublestar.WithFilesOnly())
	}
	if opts.CaseInsensitive {
		out = append(out, doublestar.WithCaseInsensitive())
	}
	if !opts.FollowSymlinks {
		out = append(out, doublestar.WithNoFollow())
	}
	return out
}

func rootPattern(pattern, baseDir string) string {
	p := filepath.ToSlash(pattern)
	if baseDir == "" || path.IsAbs(p) || filepath.IsAbs(pattern) {
		return path.Clean(p)
	}
	return path.Join(filepath.ToSlash(baseDir), p)
}

func relativeTo(base, p string) string {
	if base == "." || base == "" {
		return p
	}
	return strings.TrimPrefix(strings.TrimPrefix(p, base), "/")
}

func hasHiddenComponent(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}

func ignored(match, baseDir string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel := Relative(baseDir, match)
	for _, ig := range patterns {
		ig = strings.TrimPrefix(filepath.ToSlash(ig), "./")
		if ok, _ := doublestar.Match(ig, match); ok {
			return true
		}
		if ok, _ := doublestar.Match(ig, rel); ok {
			return true
		}
	}
	return false
}
