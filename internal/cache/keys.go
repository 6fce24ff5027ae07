package cache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key joins parts into a cache key with ":" separators. Parts are not
// escaped, so a part containing ":" can collide with a differently split
// key; callers pass trusted internal strings only.
func Key(parts ...any) string {
	strs := make([]string, len(parts))
	for i, part := range parts {
		strs[i] = fmt.Sprint(part)
	}
	return strings.Join(strs, ":")
}

// QueryKey derives the canonical key for a cached read:
// query:{table}:{operation}, suffixed with the JSON encoding of params when
// present. encoding/json writes map keys in sorted order, so identical
// logical reads always map to identical keys.
func QueryKey(table, operation string, params map[string]any) string {
	key := "query:" + table + ":" + operation
	if len(params) == 0 {
		return key
	}
	encoded, err := json.Marshal(params)
	if err != nil {
		// Unencodable params (channels, funcs) are a programming error;
		// degrade to a non-colliding literal rather than panic.
		return key + ":" + fmt.Sprintf("%+v", params)
	}
	return key + ":" + string(encoded)
}
