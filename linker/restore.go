package linker

import (
	"os"
	"sort"

	"github.com/dotforge/dotkit/errors"
	"github.com/dotforge/dotkit/pkg/profiling"
)

// Restore undoes recorded installs: managed symlinks are removed and the
// recorded backup, if any, is moved back into place. Destinations the user
// has since replaced are left alone and keep their record.
func (l *Linker) Restore() ([]Event, error) {
	defer profiling.Start("linker.Restore").Stop()

	manifest, err := loadManifest(l.srcDir)
	if err != nil {
		return nil, err
	}

	dsts := make([]string, 0, len(manifest))
	for dst := range manifest {
		dsts = append(dsts, dst)
	}
	sort.Strings(dsts)

	l.logger.Debugf("Restoring %d recorded links under %s", len(dsts), l.dstDir)

	var events []Event
	emit := func(ev Event) {
		events = append(events, ev)
		l.report(ev)
	}

	for _, dst := range dsts {
		restored, err := l.restoreEntry(dst, manifest[dst], emit)
		if err != nil {
			return events, err
		}
		if restored {
			delete(manifest, dst)
		}
	}

	if !l.dryRun {
		if err := saveManifest(l.srcDir, manifest); err != nil {
			return events, err
		}
	}

	return events, nil
}

func (l *Linker) restoreEntry(dst string, rec Record, emit func(Event)) (bool, error) {
	removedLink := false
	if rec.Source != "" {
		target, err := os.Readlink(dst)
		if err == nil && target != rec.Source {
			// The user re-pointed the link; not ours to undo.
			emit(Event{Type: EventSkip, Dst: dst, Src: rec.Source})
			return false, nil
		}
		if err == nil {
			if !l.dryRun {
				if err := os.Remove(dst); err != nil {
					return false, errors.Wrap(err, errors.ErrCodeInternal, "failed to remove link").
						WithDetail("destination", dst)
				}
			}
			removedLink = true
			emit(Event{Type: EventRemove, Dst: dst, Src: rec.Source})
		}
	}

	if rec.Backup != "" {
		if _, err := os.Lstat(rec.Backup); err == nil {
			// Under dry run the link "removed" above still occupies dst.
			if _, err := os.Lstat(dst); err == nil && !(l.dryRun && removedLink) {
				// Something occupies the destination; never clobber it.
				emit(Event{Type: EventSkip, Dst: dst, Backup: rec.Backup})
				return false, nil
			}
			if !l.dryRun {
				if err := os.Rename(rec.Backup, dst); err != nil {
					return false, errors.Wrap(err, errors.ErrCodeInternal, "failed to restore backup").
						WithDetail("destination", dst)
				}
			}
			emit(Event{Type: EventRestore, Dst: dst, Backup: rec.Backup})
		}
	}

	return true, nil
}
