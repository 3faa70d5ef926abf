// Package isdlite reads ISD-Lite observation shards from a local
// directory. Each shard is a plain or gzip-compressed text file named
// <usaf>-<wban>-<year> with one fixed-width observation row per line.
package isdlite

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/couchcryptid/storm-wind-scan/internal/domain"
)

// Source lists and reads shards under a single directory. It is safe
// for concurrent use; each Read opens its own file handle.
type Source struct {
	dir string
}

// NewSource creates a Source over the given shard directory.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// List returns the shards in the directory that belong to the given
// stations, sorted by shard ID. Subdirectories are ignored.
func (s *Source) List(_ context.Context, stationIDs map[string]struct{}) ([]domain.Shard, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read shard directory %s: %w", s.dir, err)
	}

	var shards []domain.Shard
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id := domain.ShardID(entry.Name())
		if _, ok := stationIDs[domain.ShardStationID(id)]; !ok {
			continue
		}
		shards = append(shards, domain.Shard{
			ID:   id,
			Path: filepath.Join(s.dir, entry.Name()),
		})
	}

	sort.Slice(shards, func(i, j int) bool { return shards[i].ID < shards[j].ID })
	return shards, nil
}

// Read streams every record in the shard through fn. Blank lines are
// skipped; a malformed line aborts the read with its line number.
func (s *Source) Read(ctx context.Context, shard domain.Shard, fn func(domain.Record) error) error {
	f, err := os.Open(shard.Path)
	if err != nil {
		return fmt.Errorf("open shard: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(shard.Path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	stationID := domain.ShardStationID(shard.ID)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, err := domain.ParseRecord(stationID, text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan shard: %w", err)
	}
	return nil
}
