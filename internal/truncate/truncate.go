// Package truncate bounds tool response payloads to a serialized-size
// ceiling so they fit in a model's context window.
//
// The algorithm is a recursive budgeted copy over decoded JSON values.
// Each nesting level hands every child one tenth of its own remaining
// budget, which biases large nested structures toward uniform per-item
// shrinkage instead of spending the whole budget on the first few items.
// Combined with the unconditional long-string cap this makes the ceiling a
// soft target rather than a proven bound: pathological inputs with many
// small deeply-nested siblings can land somewhat above it, but the output
// is always a structurally valid document.
package truncate

import (
	"encoding/json"
	"fmt"
	"sort"
)

const (
	// MaxResponseChars is the hard ceiling on the pretty-printed JSON
	// size of any tool response.
	MaxResponseChars = 3_000_000

	// budgetRatio is the working share of the ceiling used when
	// truncation fires, leaving headroom for truncation metadata.
	budgetRatio = 0.8

	// childBudgetDivisor splits a level's remaining budget among its
	// children.
	childBudgetDivisor = 10

	// MaxStringLength caps any single string value, regardless of the
	// remaining budget. A partial text field is more useful than a
	// missing one.
	MaxStringLength = 10_000

	// StringSuffix marks a hard-truncated string value.
	StringSuffix = "... [truncated]"
)

// advisory messages attached to truncated structures
const (
	mapTruncatedMessage = "Response truncated due to size limits. Use pagination parameters to retrieve the remaining data."
	infoMessage         = "Response truncated to fit the model context window. Use page and page_size parameters to retrieve the data in smaller chunks."
)

// Result reports the outcome of bounding one payload.
type Result struct {
	// Data is the payload, mutated only when Truncated is true.
	Data interface{}

	// Truncated reports whether any part of the payload was cut.
	Truncated bool

	// OriginalSize is the pretty-printed size of the untruncated payload.
	OriginalSize int
}

// Truncate bounds a decoded JSON payload to the response ceiling. Payloads
// already under the ceiling are returned untouched.
func Truncate(v interface{}) Result {
	original := serializedLen(v)
	if original <= MaxResponseChars {
		return Result{Data: v, Truncated: false, OriginalSize: original}
	}

	budget := int(float64(MaxResponseChars) * budgetRatio)
	bounded := truncateValue(v, budget)

	if m, ok := bounded.(map[string]interface{}); ok {
		truncatedSize := serializedLen(m)
		m["_truncation_info"] = map[string]interface{}{
			"truncated":      true,
			"original_size":  original,
			"truncated_size": truncatedSize,
			"message":        infoMessage,
		}
	}

	return Result{Data: bounded, Truncated: true, OriginalSize: original}
}

// truncateValue copies v while keeping its serialized size near budget.
func truncateValue(v interface{}, budget int) interface{} {
	switch value := v.(type) {
	case string:
		return capString(value)
	case []interface{}:
		return truncateSlice(value, budget)
	case map[string]interface{}:
		return truncateMap(value, budget)
	default:
		// Numbers, booleans and null pass through verbatim.
		return v
	}
}

// capString bounds a single string value independent of the budget.
func capString(s string) string {
	if len(s) <= MaxStringLength {
		return s
	}
	return s[:MaxStringLength] + StringSuffix
}

// truncateSlice copies elements in order until the next element would
// exceed the budget, then appends one synthetic marker element recording
// the cut.
func truncateSlice(items []interface{}, budget int) []interface{} {
	childBudget := budget / childBudgetDivisor
	used := 0
	out := make([]interface{}, 0, len(items))

	for i, item := range items {
		bounded := truncateValue(item, childBudget)
		size := serializedLen(bounded)
		if used+size > budget {
			out = append(out, map[string]interface{}{
				"_truncated":      true,
				"_original_count": len(items),
				"_remaining":      len(items) - i,
				"_message":        fmt.Sprintf("Array truncated at item %d of %d; %d items omitted", i, len(items), len(items)-i),
			})
			return out
		}
		out = append(out, bounded)
		used += size
	}
	return out
}

// truncateMap copies entries until the next entry would exceed the budget.
// The offending and all later entries are dropped and two synthetic keys
// record the cut. Iteration is in sorted key order, matching the order
// encoding/json serializes maps in.
func truncateMap(m map[string]interface{}, budget int) map[string]interface{} {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	childBudget := budget / childBudgetDivisor
	used := 0
	out := make(map[string]interface{}, len(m))

	for _, k := range keys {
		bounded := truncateValue(m[k], childBudget)
		// Key, quotes, separator and indentation overhead.
		size := serializedLen(bounded) + len(k) + 6
		if used+size > budget {
			out["_truncated"] = true
			out["_message"] = mapTruncatedMessage
			return out
		}
		out[k] = bounded
		used += size
	}
	return out
}

// serializedLen measures a value's pretty-printed JSON size.
func serializedLen(v interface{}) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return 0
	}
	return len(data)
}
