// Package params validates and normalizes caller-supplied tool arguments
// before they reach the Hudu API.
//
// Validation follows a lenient-unknown, strict-declared policy: fields that
// are not declared in a tool's schema are dropped, while declared fields that
// are present must match their declared type. Pagination fields are the one
// exception to strictness; they are coerced and clamped rather than rejected,
// because the remote API hard-fails on out-of-range page sizes.
package params

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/hudulabs/hudumcp/internal/errortypes"
)

// Pagination bounds accepted by the Hudu API.
const (
	MinPage     = 1
	MinPageSize = 1
	MaxPageSize = 100
)

// FieldType identifies the declared type of a schema field.
type FieldType string

// Supported field types
const (
	TypeString FieldType = "string"
	TypeInt    FieldType = "integer"
	TypeNumber FieldType = "number"
	TypeBool   FieldType = "boolean"
)

// FieldSpec declares a single argument field for a tool.
type FieldSpec struct {
	// Type is the declared type the value must satisfy.
	Type FieldType

	// Required marks the field as mandatory; a missing required field is
	// a validation failure.
	Required bool

	// Description documents the field in the advertised tool schema.
	Description string

	// Enum restricts a string field to a fixed set of values.
	Enum []string

	// Clamp marks an integer field as a pagination-style bound: the value
	// is coerced to an integer and clamped into [Min, Max] instead of
	// being rejected. Unparseable values are dropped so the remote
	// service applies its own default.
	Clamp bool

	// Min and Max are the inclusive clamp bounds. Max of zero means
	// unbounded above.
	Min int
	Max int
}

// Schema declares the accepted argument fields for one tool.
type Schema map[string]FieldSpec

// WithPagination returns a copy of the schema extended with the standard
// page and page_size fields.
func (s Schema) WithPagination() Schema {
	out := make(Schema, len(s)+2)
	for name, spec := range s {
		out[name] = spec
	}
	out["page"] = FieldSpec{
		Type:        TypeInt,
		Description: "Page number to retrieve (1-based)",
		Clamp:       true,
		Min:         MinPage,
	}
	out["page_size"] = FieldSpec{
		Type:        TypeInt,
		Description: fmt.Sprintf("Number of results per page (%d-%d)", MinPageSize, MaxPageSize),
		Clamp:       true,
		Min:         MinPageSize,
		Max:         MaxPageSize,
	}
	return out
}

// Normalize validates raw arguments against the schema and returns the
// normalized subset. Every declared field that fails validation contributes
// one message; all messages are joined into a single validation error.
// Undeclared fields are dropped without error.
func (s Schema) Normalize(raw map[string]interface{}) (map[string]interface{}, error) {
	normalized := make(map[string]interface{})
	var violations []string

	for _, name := range s.sortedFieldNames() {
		spec := s[name]
		value, present := raw[name]

		if !present || value == nil {
			if spec.Required {
				violations = append(violations, fmt.Sprintf("%s: required field is missing", name))
			}
			continue
		}

		if spec.Clamp {
			n, ok := coerceInt(value)
			if !ok {
				// Unparseable pagination value; let the remote
				// service fall back to its default.
				continue
			}
			normalized[name] = clamp(n, spec.Min, spec.Max)
			continue
		}

		out, violation := checkType(name, spec, value)
		if violation != "" {
			violations = append(violations, violation)
			continue
		}
		normalized[name] = out
	}

	if len(violations) > 0 {
		return nil, errortypes.ValidationError(
			errors.New(strings.Join(violations, "; ")), "invalid parameters")
	}
	return normalized, nil
}

// checkType validates a present value against its declared type, returning
// the accepted value or a per-field violation message.
func checkType(name string, spec FieldSpec, value interface{}) (interface{}, string) {
	switch spec.Type {
	case TypeString:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Sprintf("%s: expected string, got %s", name, jsonTypeName(value))
		}
		if len(spec.Enum) > 0 && !contains(spec.Enum, str) {
			return nil, fmt.Sprintf("%s: must be one of [%s]", name, strings.Join(spec.Enum, ", "))
		}
		return str, ""
	case TypeInt:
		n, ok := coerceStrictInt(value)
		if !ok {
			return nil, fmt.Sprintf("%s: expected integer, got %s", name, jsonTypeName(value))
		}
		return n, ""
	case TypeNumber:
		switch v := value.(type) {
		case float64:
			return v, ""
		case int:
			return float64(v), ""
		}
		return nil, fmt.Sprintf("%s: expected number, got %s", name, jsonTypeName(value))
	case TypeBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Sprintf("%s: expected boolean, got %s", name, jsonTypeName(value))
		}
		return b, ""
	}
	return nil, fmt.Sprintf("%s: unsupported field type %q", name, spec.Type)
}

// ToQuery converts a normalized parameter set into URL query values for the
// outbound API request.
func ToQuery(normalized map[string]interface{}) url.Values {
	query := url.Values{}
	for name, value := range normalized {
		switch v := value.(type) {
		case string:
			query.Set(name, v)
		case int:
			query.Set(name, strconv.Itoa(v))
		case float64:
			query.Set(name, strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			query.Set(name, strconv.FormatBool(v))
		default:
			query.Set(name, fmt.Sprintf("%v", v))
		}
	}
	return query
}

// JSONSchema renders the schema as a JSON Schema object for tool listing.
func (s Schema) JSONSchema() *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(s))
	var required []string

	for _, name := range s.sortedFieldNames() {
		spec := s[name]
		prop := &jsonschema.Schema{
			Type:        string(spec.Type),
			Description: spec.Description,
		}
		for _, v := range spec.Enum {
			prop.Enum = append(prop.Enum, v)
		}
		properties[name] = prop
		if spec.Required {
			required = append(required, name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func (s Schema) sortedFieldNames() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// coerceInt accepts anything reasonably interpretable as an integer,
// including numeric strings. Used only for clamped pagination fields.
func coerceInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// coerceStrictInt accepts only JSON numbers with no fractional part.
func coerceStrictInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

func clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// jsonTypeName names a decoded JSON value's type the way a caller would
// recognize it from the wire format.
func jsonTypeName(value interface{}) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", value)
}
