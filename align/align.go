// Package align provides the per-column alignment vector stored on table
// nodes. The vector always has one entry per table column; Create resizes
// a vector while preserving the tags that already exist.
package align

// Alignment represents a column alignment tag
type Alignment string

const (
	Default Alignment = ""
	Left    Alignment = "left"
	Center  Alignment = "center"
	Right   Alignment = "right"
)

func (a Alignment) String() string {
	if a == Default {
		return "default"
	}
	return string(a)
}

// DataKey is the key under which a table node's data map stores its
// alignment vector, as a []Alignment.
const DataKey = "align"

// Create returns an alignment vector of the given width. Positions covered
// by existing copy its values; the rest fill with Default. An existing
// vector longer than width is truncated. A width of zero yields an empty
// vector.
func Create(width int, existing []Alignment) []Alignment {
	if width < 0 {
		width = 0
	}
	out := make([]Alignment, width)
	for i := 0; i < width && i < len(existing); i++ {
		out[i] = existing[i]
	}
	return out
}

// FromData extracts the alignment vector from a table node's data map,
// returning nil when absent or of an unexpected shape.
func FromData(data map[string]any) []Alignment {
	if data == nil {
		return nil
	}
	v, ok := data[DataKey].([]Alignment)
	if !ok {
		return nil
	}
	return v
}

// WithVector returns a copy of data with the alignment vector set. A nil
// data map is allocated.
func WithVector(data map[string]any, v []Alignment) map[string]any {
	out := make(map[string]any, len(data)+1)
	for k, val := range data {
		out[k] = val
	}
	out[DataKey] = v
	return out
}
