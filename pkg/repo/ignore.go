package repo

import (
	"path"
	"path/filepath"
	"strings"
)

// reservedNames are never snapshotted, cleared or walked.
var reservedNames = []string{DirName, ".git"}

// IgnoreChecker decides whether a working-tree path is excluded. A path is
// ignored when any of its components equals a reserved name or matches one
// of the configured patterns.
type IgnoreChecker struct {
	names    map[string]struct{}
	patterns []string
}

// NewIgnoreChecker builds a checker from the reserved names plus extra
// patterns. Patterns without glob metacharacters match names exactly;
// others use path.Match syntax against a single component.
func NewIgnoreChecker(patterns ...string) *IgnoreChecker {
	ic := &IgnoreChecker{names: make(map[string]struct{})}
	for _, n := range reservedNames {
		ic.names[n] = struct{}{}
	}
	for _, p := range patterns {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		if strings.ContainsAny(p, "*?[") {
			if _, err := path.Match(p, ""); err != nil {
				continue
			}
			ic.patterns = append(ic.patterns, p)
			continue
		}
		ic.names[p] = struct{}{}
	}
	return ic
}

// IsIgnored reports whether rel, a path relative to the working-tree root,
// is excluded.
func (ic *IgnoreChecker) IsIgnored(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "" || part == "." {
			continue
		}
		if _, ok := ic.names[part]; ok {
			return true
		}
		for _, p := range ic.patterns {
			if ok, _ := path.Match(p, part); ok {
				return true
			}
		}
	}
	return false
}
