// Package linker installs symbolic links from a dotfiles directory into an
// install root, following the locations.toml map. Whatever occupies a
// destination is renamed to a .bkp_N backup first, never deleted.
package linker

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dotforge/dotkit/errors"
	"github.com/dotforge/dotkit/logging"
	"github.com/dotforge/dotkit/pkg/profiling"
	"github.com/dotforge/dotkit/util/pathutil"
	"github.com/sirupsen/logrus"
)

// EventType classifies a linker operation.
type EventType string

const (
	// EventLink reports a symlink being created.
	EventLink EventType = "link"
	// EventBackup reports an existing path renamed to a .bkp_N name.
	EventBackup EventType = "rename"
	// EventOK reports a destination already in its desired state.
	EventOK EventType = "exists"
	// EventRemove reports a destination backed up away for an empty-source
	// entry, or a managed link removed during restore.
	EventRemove EventType = "remove"
	// EventSkip reports an entry excluded by the only/skip filters, or a
	// destination restore refused to touch.
	EventSkip EventType = "skip"
	// EventRestore reports a backup moved back into place.
	EventRestore EventType = "restore"
)

// Event describes a single linker operation on a destination.
type Event struct {
	Type   EventType
	Dst    string // absolute destination path
	Src    string // absolute source path, empty for removal entries
	Backup string // backup path for rename/remove/restore events
	IsDir  bool   // source is a directory
}

// Reporter receives linker events as they happen.
type Reporter func(Event)

// Options configure a Linker.
type Options struct {
	// SrcDir is the dotfiles directory holding the link sources.
	SrcDir string
	// DstDir is the directory links are installed into. Empty means the
	// user's home directory.
	DstDir string
	// DryRun reports operations without touching the filesystem.
	DryRun bool
	// Only keeps entries whose destination matches these patterns.
	Only []string
	// Skip drops entries whose destination matches these patterns.
	Skip []string
	// Report receives operation events. Optional.
	Report Reporter
}

// Linker applies a locations map to the filesystem.
type Linker struct {
	srcDir string
	dstDir string
	dryRun bool
	filter *filter
	report Reporter
	logger *logrus.Entry
}

// New creates a Linker. Both base directories are expanded and made absolute.
func New(opts Options) (*Linker, error) {
	srcDir, err := pathutil.Expand(opts.SrcDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid source directory")
	}

	dstDir := opts.DstDir
	if dstDir == "" {
		dstDir = "~"
	}
	dstDir, err = pathutil.Expand(dstDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid destination directory")
	}

	f, err := newFilter(opts.Only, opts.Skip)
	if err != nil {
		return nil, err
	}

	report := opts.Report
	if report == nil {
		report = func(Event) {}
	}

	return &Linker{
		srcDir: srcDir,
		dstDir: dstDir,
		dryRun: opts.DryRun,
		filter: f,
		report: report,
		logger: logging.NewLogger("linker"),
	}, nil
}

// SrcDir returns the absolute source directory.
func (l *Linker) SrcDir() string { return l.srcDir }

// DstDir returns the absolute destination directory.
func (l *Linker) DstDir() string { return l.dstDir }

// entry is one resolved locations row.
type entry struct {
	key string // destination as written in the locations file
	dst string // absolute destination
	src string // absolute source, empty for removal entries
}

// resolve expands every locations row against the base directories and
// rejects paths escaping them. The whole map is checked before anything
// touches the filesystem.
func (l *Linker) resolve(locations Locations) ([]entry, error) {
	entries := make([]entry, 0, len(locations))

	for _, key := range locations.SortedDests() {
		dst, err := pathutil.ExpandHome(key)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid destination").
				WithDetail("destination", key)
		}
		if !filepath.IsAbs(dst) {
			dst = filepath.Join(l.dstDir, dst)
		}
		inside, err := pathutil.ContainsPath(l.dstDir, dst)
		if err != nil {
			return nil, err
		}
		if !inside {
			return nil, errors.PathEscape(dst, l.dstDir)
		}

		src := locations[key]
		if src != "" {
			if !filepath.IsAbs(src) {
				src = filepath.Join(l.srcDir, src)
			}
			inside, err := pathutil.ContainsPath(l.srcDir, src)
			if err != nil {
				return nil, err
			}
			if !inside {
				return nil, errors.PathEscape(src, l.srcDir)
			}
		}

		entries = append(entries, entry{key: key, dst: dst, src: src})
	}

	return entries, nil
}

// Install applies the locations map in sorted destination order: creates
// links, backs up whatever is in the way, and backs up destinations whose
// source is empty. Returns the events it reported.
func (l *Linker) Install(locations Locations) ([]Event, error) {
	defer profiling.Start("linker.Install").Stop()

	entries, err := l.resolve(locations)
	if err != nil {
		return nil, err
	}

	manifest, err := loadManifest(l.srcDir)
	if err != nil {
		return nil, err
	}

	l.logger.Debugf("Installing %d locations from %s into %s (dry-run=%v)",
		len(entries), l.srcDir, l.dstDir, l.dryRun)

	var events []Event
	emit := func(ev Event) {
		events = append(events, ev)
		l.report(ev)
	}

	for _, e := range entries {
		if !l.filter.Match(e.key) {
			emit(Event{Type: EventSkip, Dst: e.dst, Src: e.src})
			continue
		}

		if e.src == "" {
			err = l.removeEntry(e, manifest, emit)
		} else {
			err = l.linkEntry(e, manifest, emit)
		}
		if err != nil {
			return events, err
		}
	}

	if !l.dryRun {
		if err := saveManifest(l.srcDir, manifest); err != nil {
			return events, err
		}
	}

	return events, nil
}

func (l *Linker) linkEntry(e entry, manifest map[string]Record, emit func(Event)) error {
	info, err := os.Stat(e.src)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.SourceMissing(e.src)
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to stat link source").
			WithDetail("source", e.src)
	}
	isDir := info.IsDir()

	if target, err := os.Readlink(e.dst); err == nil && target == e.src {
		emit(Event{Type: EventOK, Dst: e.dst, Src: e.src, IsDir: isDir})
		return nil
	}

	var backup string
	if _, err := os.Lstat(e.dst); err == nil {
		backup, err = l.backup(e.dst)
		if err != nil {
			return err
		}
		emit(Event{Type: EventBackup, Dst: e.dst, Src: e.src, Backup: backup, IsDir: isDir})
	}

	emit(Event{Type: EventLink, Dst: e.dst, Src: e.src, IsDir: isDir})
	if !l.dryRun {
		if err := os.MkdirAll(filepath.Dir(e.dst), 0755); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to create parent directory").
				WithDetail("destination", e.dst)
		}
		if err := os.Symlink(e.src, e.dst); err != nil {
			return errors.Wrap(err, errors.ErrCodeLinkConflict, "failed to create symlink").
				WithDetail("destination", e.dst)
		}
	}

	rec := Record{
		Source:   e.src,
		Backup:   backup,
		LinkedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if backup == "" {
		// A relink after the user removed the symlink must not lose the
		// original backup reference.
		if prev, ok := manifest[e.dst]; ok && prev.Backup != "" {
			rec.Backup = prev.Backup
		}
	}
	manifest[e.dst] = rec

	return nil
}

func (l *Linker) removeEntry(e entry, manifest map[string]Record, emit func(Event)) error {
	if _, err := os.Lstat(e.dst); err != nil {
		if os.IsNotExist(err) {
			emit(Event{Type: EventOK, Dst: e.dst})
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to inspect destination").
			WithDetail("destination", e.dst)
	}

	backup, err := l.backup(e.dst)
	if err != nil {
		return err
	}
	emit(Event{Type: EventRemove, Dst: e.dst, Backup: backup})

	manifest[e.dst] = Record{
		Backup:   backup,
		LinkedAt: time.Now().UTC().Format(time.RFC3339),
	}

	return nil
}

// backup renames path to the first unused <path>.bkp_N name and returns the
// backup path. Dry-run picks the name without renaming.
func (l *Linker) backup(path string) (string, error) {
	var backup string
	for i := 0; ; i++ {
		candidate := fmt.Sprintf("%s.bkp_%d", path, i)
		if _, err := os.Lstat(candidate); err != nil {
			if os.IsNotExist(err) {
				backup = candidate
				break
			}
			return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to probe backup name").
				WithDetail("path", candidate)
		}
	}

	if l.dryRun {
		return backup, nil
	}

	if err := os.Rename(path, backup); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to back up existing path").
			WithDetail("path", path)
	}

	return backup, nil
}
