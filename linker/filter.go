package linker

import (
	"github.com/dotforge/dotkit/errors"
	"github.com/moby/patternmatcher"
)

// filter selects locations entries by destination using dockerignore-style
// patterns, including ! exceptions. A nil matcher places no constraint.
type filter struct {
	only *patternmatcher.PatternMatcher
	skip *patternmatcher.PatternMatcher
}

func newFilter(only, skip []string) (*filter, error) {
	f := &filter{}

	var err error
	if len(only) > 0 {
		f.only, err = patternmatcher.New(only)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid only pattern")
		}
	}
	if len(skip) > 0 {
		f.skip, err = patternmatcher.New(skip)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid skip pattern")
		}
	}

	return f, nil
}

// Match reports whether a destination passes the only and skip patterns.
// Matching a parent directory counts, so "only .config" keeps everything
// under .config/.
func (f *filter) Match(dst string) bool {
	if f.only != nil {
		ok, err := f.only.MatchesOrParentMatches(dst)
		if err != nil || !ok {
			return false
		}
	}
	if f.skip != nil {
		skip, err := f.skip.MatchesOrParentMatches(dst)
		if err == nil && skip {
			return false
		}
	}
	return true
}
