package linker

import (
	"os"

	"github.com/dotforge/dotkit/pkg/profiling"
)

// LinkStatus describes how a destination compares to its locations entry.
type LinkStatus string

const (
	// StatusOK means the destination matches the locations file.
	StatusOK LinkStatus = "ok"
	// StatusMissing means the destination does not exist yet.
	StatusMissing LinkStatus = "missing"
	// StatusWrongTarget means the destination links somewhere else.
	StatusWrongTarget LinkStatus = "wrong-target"
	// StatusNotALink means a regular file or directory occupies the destination.
	StatusNotALink LinkStatus = "not-a-link"
	// StatusPendingRemoval means an empty-source destination still exists.
	StatusPendingRemoval LinkStatus = "pending-removal"
)

// StatusEntry is the state of one locations row.
type StatusEntry struct {
	Key    string     `json:"key"`
	Dst    string     `json:"destination"`
	Src    string     `json:"source,omitempty"`
	Status LinkStatus `json:"status"`
	Target string     `json:"target,omitempty"`
}

// Status compares every locations row against the filesystem without
// changing anything.
func (l *Linker) Status(locations Locations) ([]StatusEntry, error) {
	defer profiling.Start("linker.Status").Stop()

	entries, err := l.resolve(locations)
	if err != nil {
		return nil, err
	}

	result := make([]StatusEntry, 0, len(entries))
	for _, e := range entries {
		se := StatusEntry{Key: e.key, Dst: e.dst, Src: e.src}

		if e.src == "" {
			if _, err := os.Lstat(e.dst); err == nil {
				se.Status = StatusPendingRemoval
			} else {
				se.Status = StatusOK
			}
			result = append(result, se)
			continue
		}

		target, err := os.Readlink(e.dst)
		switch {
		case err == nil && target == e.src:
			se.Status = StatusOK
		case err == nil:
			se.Status = StatusWrongTarget
			se.Target = target
		default:
			if _, lerr := os.Lstat(e.dst); lerr != nil {
				se.Status = StatusMissing
			} else {
				se.Status = StatusNotALink
			}
		}

		result = append(result, se)
	}

	return result, nil
}
