package processor

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// compileFilter anchors pattern at the start of the file name only, so
// "IMG_" matches "IMG_0001_a.jpg" and a trailing part may follow the match.
func compileFilter(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, errors.Wrapf(err, "invalid filter pattern %q", pattern)
	}
	return re, nil
}

// ListInputs returns the paths of the files in dir whose names match,
// sorted by file name. Sorting happens before filtering and decides frame order.
func ListInputs(dir string, matcher *regexp.Regexp) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)

	files := make([]string, 0, len(names))
	for _, name := range names {
		if matcher.MatchString(name) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}
