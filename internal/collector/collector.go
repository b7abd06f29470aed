// Package collector walks a data directory and turns every file named in
// the mapping table into an igv.js track, ordered by the mapping's order
// tokens.
package collector

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/specialistvlad/hpcigv/internal/ctxlog"
	"github.com/specialistvlad/hpcigv/internal/fsutil"
	"github.com/specialistvlad/hpcigv/internal/igvconfig"
	"github.com/specialistvlad/hpcigv/internal/mapping"
	"github.com/specialistvlad/hpcigv/internal/trackformat"
	"github.com/spf13/afero"
)

// URLRoot is where the data directory is mounted inside the web app.
const URLRoot = "data"

// sourceType is the igv.js source for tracks served as static files.
const sourceType = "file"

// Option tunes a Collect call.
type Option func(*options)

type options struct {
	checkAlignments bool
}

// WithAlignmentCheck makes Collect open every matched BAM file and decode
// its header, failing the collection if a header cannot be read.
func WithAlignmentCheck() Option {
	return func(o *options) { o.checkAlignments = true }
}

// Collect walks root and builds one track per file whose base name is a key
// in table. Files outside the table are ignored. A matched file with an
// unsupported extension aborts the walk.
func Collect(ctx context.Context, fsys afero.Fs, root string, table *mapping.Table, genome string, opts ...Option) ([]igvconfig.Track, error) {
	logger := ctxlog.FromContext(ctx)
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	logger.Debug("Collecting tracks.", "root", root, "mapped_files", table.Len())

	var tracks []igvconfig.Track
	err := fsutil.WalkFiles(fsys, root, func(p string, _ os.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := filepath.Base(p)
		entry, ok := table.Lookup(name)
		if !ok {
			return nil
		}

		kind, err := trackformat.Classify(name)
		if err != nil {
			return err
		}
		if kind == trackformat.Alignment && o.checkAlignments {
			if err := checkAlignment(ctx, fsys, p); err != nil {
				return err
			}
		}

		rel, err := fsutil.RelativeSlashPath(root, p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s against %s: %w", p, root, err)
		}

		logger.Debug("Matched data file.", "path", rel, "name", entry.DisplayName, "kind", kind.String())
		tracks = append(tracks, igvconfig.Track{
			SourceType:  sourceType,
			Name:        entry.DisplayName,
			Color:       entry.Color,
			URL:         path.Join(URLRoot, rel),
			Description: name,
			Genome:      genome,
			Format:      kind.Format(),
			Type:        kind.TrackType(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect tracks under %s: %w", root, err)
	}

	Sort(tracks, table.Ranking())
	logger.Debug("Tracks collected.", "count", len(tracks))
	return tracks, nil
}

// Sort orders tracks by the rank of their display name. Tracks with equal
// rank keep their relative order.
func Sort(tracks []igvconfig.Track, ranking *mapping.Ranking) {
	sort.SliceStable(tracks, func(i, j int) bool {
		return ranking.Rank(tracks[i].Name) < ranking.Rank(tracks[j].Name)
	})
}

func checkAlignment(ctx context.Context, fsys afero.Fs, p string) error {
	f, err := fsys.Open(p)
	if err != nil {
		return fmt.Errorf("failed to open alignment %s: %w", p, err)
	}
	defer f.Close()

	refs, err := trackformat.InspectAlignment(f)
	if err != nil {
		return fmt.Errorf("alignment %s: %w", p, err)
	}
	ctxlog.FromContext(ctx).Debug("Alignment header readable.", "path", p, "references", len(refs))
	return nil
}
