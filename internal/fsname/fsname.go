// SPDX-License-Identifier: MPL-2.0

// Package fsname decides whether resource names can be used as file names and
// detects two resources being written to the same path.
//
// Names are never rewritten: a name that is unsafe on any common host file
// system is rejected with an InvalidName error, because a silently altered
// name would not survive the way back into the archive.
package fsname

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/platform"

	"golang.org/x/text/cases"
)

// reservedChars are rejected anywhere in a name.
const reservedChars = `<>:"/\|?*`

// ToFilename returns name unchanged if it is usable as a file or directory
// name, or an InvalidName error saying why not.
func ToFilename(name string) (string, error) {
	if reason := check(name); reason != "" {
		return "", issue.New(issue.InvalidName, "%s", reason).WithResource("", name)
	}
	return name, nil
}

// IsGoodFilename reports whether ToFilename accepts name.
func IsGoodFilename(name string) bool {
	return check(name) == ""
}

func check(name string) string {
	if strings.TrimSpace(name) == "" {
		return "name is empty"
	}
	if name == "." || name == ".." {
		return "name is a relative path element"
	}
	if strings.HasPrefix(name, ".") {
		return "name starts with a dot and would be hidden"
	}
	if i := strings.IndexAny(name, reservedChars); i >= 0 {
		return fmt.Sprintf("name contains reserved character %q", name[i])
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Sprintf("name contains control character %U", r)
		}
	}
	if last := name[len(name)-1]; last == '.' || last == ' ' {
		return "name ends with a dot or a space"
	}
	if platform.IsWindowsReservedName(name) {
		return "name is a reserved device name"
	}
	return ""
}

// PathSet records the paths written by one decomposition. Paths are compared
// after Unicode case folding, so two names that differ only in case collide
// just as they would on a case-insensitive file system.
type PathSet struct {
	root   string
	fold   cases.Caser
	owners map[string]string
}

// NewPathSet creates an empty set for paths below root.
func NewPathSet(root string) *PathSet {
	return &PathSet{
		root:   root,
		fold:   cases.Fold(),
		owners: make(map[string]string),
	}
}

// Claim records that owner writes path. It fails with PathCollision if a
// path equal under case folding was claimed before.
func (s *PathSet) Claim(path, owner string) error {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	key := s.fold.String(rel)
	if prev, ok := s.owners[key]; ok {
		return issue.New(issue.PathCollision, "already written by %s", prev).WithPath(rel)
	}
	s.owners[key] = owner
	return nil
}

// Len returns the number of claimed paths.
func (s *PathSet) Len() int { return len(s.owners) }
