package truncate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestTruncateUnderBudgetReturnsUnchanged(t *testing.T) {
	payload := map[string]interface{}{
		"companies": []interface{}{
			map[string]interface{}{"id": float64(1), "name": "Acme"},
			map[string]interface{}{"id": float64(2), "name": "Globex"},
		},
		"summary": "Retrieved 2 companies",
	}

	result := Truncate(payload)

	if result.Truncated {
		t.Error("Expected truncated=false for a payload under the ceiling")
	}
	if !reflect.DeepEqual(result.Data, payload) {
		t.Error("Expected data to be returned unchanged")
	}
	if result.OriginalSize <= 0 {
		t.Errorf("Expected positive original size, got %d", result.OriginalSize)
	}
}

func TestTruncateIsIdempotentUnderBudget(t *testing.T) {
	payload := map[string]interface{}{"key": "value"}

	first := Truncate(payload)
	second := Truncate(first.Data)

	if second.Truncated {
		t.Error("Expected second truncation pass to report truncated=false")
	}
	if !reflect.DeepEqual(first.Data, second.Data) {
		t.Error("Expected repeated truncation to leave data unchanged")
	}
}

func TestTruncateOversizedPayloadShrinksAndStaysValid(t *testing.T) {
	// Build a payload whose pretty-printed form clearly exceeds the
	// ceiling: 800 items of ~5 KB each is ~4 MB.
	items := make([]interface{}, 800)
	for i := range items {
		items[i] = map[string]interface{}{
			"id":      float64(i),
			"details": strings.Repeat("x", 5000),
		}
	}
	payload := map[string]interface{}{
		"assets":  items,
		"summary": "Retrieved 800 assets",
	}

	result := Truncate(payload)

	if !result.Truncated {
		t.Fatal("Expected truncated=true for an oversized payload")
	}
	if result.OriginalSize <= MaxResponseChars {
		t.Fatalf("Test payload too small: original size %d", result.OriginalSize)
	}

	serialized, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		t.Fatalf("Truncated data is not serializable: %v", err)
	}
	if len(serialized) >= result.OriginalSize {
		t.Errorf("Expected truncated size < original size %d, got %d",
			result.OriginalSize, len(serialized))
	}

	// The result must remain parseable structured data.
	var roundTrip map[string]interface{}
	if err := json.Unmarshal(serialized, &roundTrip); err != nil {
		t.Fatalf("Truncated output does not parse: %v", err)
	}
}

func TestTruncateAttachesTruncationInfo(t *testing.T) {
	payload := map[string]interface{}{
		"blob": strings.Repeat("y", MaxResponseChars+100),
	}

	result := Truncate(payload)
	if !result.Truncated {
		t.Fatal("Expected truncated=true")
	}

	m, ok := result.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map result, got %T", result.Data)
	}
	info, ok := m["_truncation_info"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected _truncation_info object on truncated result")
	}
	if info["truncated"] != true {
		t.Error("Expected _truncation_info.truncated=true")
	}
	if info["original_size"] != result.OriginalSize {
		t.Errorf("Expected original_size=%d, got %v", result.OriginalSize, info["original_size"])
	}
	if msg, ok := info["message"].(string); !ok || msg == "" {
		t.Error("Expected a non-empty advisory message")
	}
}

func TestSequenceMarkerReportsRemaining(t *testing.T) {
	const total = 200
	items := make([]interface{}, total)
	for i := range items {
		items[i] = map[string]interface{}{
			"index":   float64(i),
			"payload": strings.Repeat("z", 50),
		}
	}

	// Each item serializes to roughly 90 bytes and fits its child budget
	// intact, so the cut must come from the sequence-level accumulator.
	out := truncateSlice(items, 10000)

	if len(out) >= total {
		t.Fatalf("Expected the sequence to be cut, got %d of %d items", len(out), total)
	}

	kept := len(out) - 1
	marker, ok := out[len(out)-1].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected final element to be a marker map, got %T", out[len(out)-1])
	}
	if marker["_truncated"] != true {
		t.Error("Expected marker _truncated=true")
	}
	if marker["_original_count"] != total {
		t.Errorf("Expected _original_count=%d, got %v", total, marker["_original_count"])
	}
	if marker["_remaining"] != total-kept {
		t.Errorf("Expected _remaining=%d, got %v", total-kept, marker["_remaining"])
	}

	// Every kept element must be a real input element, in order.
	for i := 0; i < kept; i++ {
		item, ok := out[i].(map[string]interface{})
		if !ok || item["index"] != float64(i) {
			t.Errorf("Element %d out of order or mutated: %v", i, out[i])
		}
	}
}

func TestMapTruncationAttachesSyntheticKeys(t *testing.T) {
	m := map[string]interface{}{}
	for i := 0; i < 40; i++ {
		m[fmt.Sprintf("key_%02d", i)] = strings.Repeat("v", 1000)
	}

	out := truncateMap(m, 5000)

	if out["_truncated"] != true {
		t.Fatal("Expected _truncated=true on a cut mapping")
	}
	if msg, ok := out["_message"].(string); !ok || msg == "" {
		t.Error("Expected a non-empty _message on a cut mapping")
	}
	// The cut drops the offending and all later keys entirely.
	realKeys := 0
	for k := range out {
		if k != "_truncated" && k != "_message" {
			realKeys++
		}
	}
	if realKeys == 0 || realKeys >= len(m) {
		t.Errorf("Expected a strict subset of entries, got %d of %d", realKeys, len(m))
	}
}

func TestLongStringCapAppliesAtAnyDepth(t *testing.T) {
	long := strings.Repeat("a", MaxStringLength+500)
	payload := map[string]interface{}{
		"outer": []interface{}{
			map[string]interface{}{
				"inner": map[string]interface{}{
					"notes": long,
				},
			},
		},
	}

	out := truncateValue(payload, MaxResponseChars)

	notes := out.(map[string]interface{})["outer"].([]interface{})[0].(map[string]interface{})["inner"].(map[string]interface{})["notes"].(string)
	if !strings.HasSuffix(notes, StringSuffix) {
		t.Errorf("Expected capped string to end with %q", StringSuffix)
	}
	if len(notes) != MaxStringLength+len(StringSuffix) {
		t.Errorf("Expected capped length %d, got %d", MaxStringLength+len(StringSuffix), len(notes))
	}
	if notes[:MaxStringLength] != long[:MaxStringLength] {
		t.Error("Expected the cap to preserve the string's prefix")
	}
}

func TestShortStringsPassThroughVerbatim(t *testing.T) {
	s := strings.Repeat("b", MaxStringLength)
	if got := capString(s); got != s {
		t.Error("Expected string at exactly the cap to pass through unchanged")
	}
}

func TestScalarsPassThroughVerbatim(t *testing.T) {
	values := []interface{}{float64(42), true, nil, "short"}
	for _, v := range values {
		if got := truncateValue(v, 100); !reflect.DeepEqual(got, v) {
			t.Errorf("Expected %v to pass through, got %v", v, got)
		}
	}
}
