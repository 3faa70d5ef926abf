package domain

import (
	"path/filepath"
	"strings"
)

// Shard identifies one station-year observation file.
type Shard struct {
	ID   string // filename without path or extension, e.g. "716230-99999-2010"
	Path string
}

// ShardID derives a shard identifier from a source filename: the base
// name stripped of path and extension.
func ShardID(path string) string {
	name := filepath.Base(path)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}

// ShardStationID strips the trailing year from a shard identifier,
// leaving the "USAF-WBAN" station identifier that keys the catalog.
func ShardStationID(shardID string) string {
	if i := strings.LastIndexByte(shardID, '-'); i >= 0 {
		return shardID[:i]
	}
	return shardID
}
