package domain

import (
	"cmp"
	"strings"
)

// Candidate pairs an observation whose wind speed exceeded the outlier
// threshold with its resolved station metadata.
type Candidate struct {
	Record  Record  `json:"record"`
	Station Station `json:"station"`
}

// CompareCandidates orders candidates by observation time, ties broken
// by station identifier. The order is total: the archive holds at most
// one record per station-hour, so no two distinct candidates compare equal.
func CompareCandidates(a, b Candidate) int {
	if c := cmp.Compare(a.Record.Year, b.Record.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Record.Month, b.Record.Month); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Record.Day, b.Record.Day); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Record.Hour, b.Record.Hour); c != 0 {
		return c
	}
	return strings.Compare(a.Record.StationID, b.Record.StationID)
}
