// Package project turns discovered manifest files into project records.
package project

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/dex/internal/logging"
)

// UnknownLanguage is used when a manifest does not declare a language.
const UnknownLanguage = "UNKNOWN"

// Record is one discovered project.
type Record struct {
	Name      string
	Language  string
	Directory string
}

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	// Concurrency caps the number of manifests read at once.
	Concurrency int
	Logger      *zap.Logger
}

// Resolve reads every manifest and returns the resulting records in the order
// of paths. Manifests that cannot be read or parsed are dropped with a
// warning; they never stop the others from resolving.
func Resolve(ctx context.Context, paths []string, opts ResolveOptions) []Record {
	logger := logging.OrNop(opts.Logger)
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0) * 4
	}

	slots := make([]*Record, len(paths))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	for i, path := range paths {
		group.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			m, err := ReadManifest(path)
			if err != nil {
				logger.Warn("skipping manifest", zap.String("path", path), zap.Error(err))
				return nil
			}
			rec := FromManifest(path, m)
			slots[i] = &rec
			return nil
		})
	}
	_ = group.Wait()

	records := make([]Record, 0, len(paths))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records
}

// FromManifest builds the record for the manifest found at manifestPath,
// deriving the name from the containing directory when the manifest has none.
func FromManifest(manifestPath string, m Manifest) Record {
	dir := filepath.Dir(manifestPath)
	name := strings.TrimSpace(m.Name)
	if name == "" {
		name = filepath.Base(dir)
	}
	return Record{
		Name:      name,
		Language:  NormalizeLanguage(m.Language),
		Directory: dir,
	}
}

// NormalizeLanguage upper-cases a language label, mapping blanks to
// UnknownLanguage.
func NormalizeLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return UnknownLanguage
	}
	return strings.ToUpper(language)
}
