package dedupe

// Package dedupe provides the shared singleflight group used to
// deduplicate concurrent creature fetches. Using a centralized
// singleflight.Group ensures that only one upstream request runs for a
// given creature while other callers wait for the result.

import "golang.org/x/sync/singleflight"

// CreatureGroup deduplicates creature fetch requests keyed by
// "creature:<id>" or "creature:<name>".
var CreatureGroup singleflight.Group
