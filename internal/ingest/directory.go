package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docextract/internal/async"
)

type dupRef struct {
	idx, first int
}

// IngestDirectory walks root, filters by the allowed extensions, skips hidden
// entries if requested, and runs every distinct file through the pipeline in
// chunks of MaxConcurrent. Files with identical content are processed once.
// Returns per-file results in walk order plus aggregate stats.
func (u *Usecase) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	var (
		results []IngestionResult
		stats   DirStats
		sources []source
		slots   []int // results index of each source
		dups    []dupRef
	)
	seen := map[string]int{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			return nil // continue walking
		}
		// skip hidden dirs/files if requested
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path), u.AllowedExts) {
			return nil
		}
		stats.Matched++

		src, err := readSource(root, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: err.Error()})
			return nil
		}
		placeholder := IngestionResult{SourcePath: src.path, DocumentID: src.id, HashHex: src.hash}
		if first, ok := seen[src.hash]; ok {
			dups = append(dups, dupRef{idx: len(results), first: first})
			results = append(results, placeholder)
			return nil
		}
		seen[src.hash] = len(results)
		slots = append(slots, len(results))
		sources = append(sources, src)
		results = append(results, placeholder)
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}

	_, runErr := async.RunChunked(ctx, len(sources), u.MaxConcurrent, func(ctx context.Context, i int) error {
		res := u.process(ctx, sources[i])
		results[slots[i]] = res
		if res.Err != "" {
			return errors.New(res.Err)
		}
		return nil
	})

	for _, d := range dups {
		r := results[d.first]
		r.SourcePath, r.DocumentID, r.Deduplicated = results[d.idx].SourcePath, results[d.idx].DocumentID, true
		results[d.idx] = r
	}
	for _, r := range results {
		switch {
		case r.Err != "":
			stats.Failed++
		case r.JobID != "":
			stats.Succeeded++
		}
		if r.Deduplicated {
			stats.Deduplicated++
		}
	}

	u.Logger.Info("ingest.directory.done",
		"root", root,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"deduplicated", stats.Deduplicated,
	)
	if runErr != nil {
		return results, stats, fmt.Errorf("ingest: %w", runErr)
	}
	return results, stats, nil
}
