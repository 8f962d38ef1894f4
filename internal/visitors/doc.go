// Package visitors maintains the cumulative visitor count of the site.
//
// Each run finalizes every completed day since the last finalized one, folding its count
// into the cumulative total and the day-indexed history, then refreshes the live count for
// today. The persisted State is the only source of truth between runs.
package visitors
