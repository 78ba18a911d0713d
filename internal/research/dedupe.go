// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import "github.com/pdiddy/prospect-engine/pkg/types"

// Dedupe removes duplicate sources by URL. It is stable and O(n): the
// first occurrence of each URL wins and input order is preserved.
// Records with an empty URL can never be deduplicated meaningfully and
// are dropped as noise.
func Dedupe(sources []types.SourceRecord) []types.SourceRecord {
	seen := make(map[string]bool, len(sources))
	var unique []types.SourceRecord
	for _, s := range sources {
		if s.URL == "" || seen[s.URL] {
			continue
		}
		seen[s.URL] = true
		unique = append(unique, s)
	}
	return unique
}
