// Package format holds the catalog of known statement layouts and picks the
// best match for an input's header. Bank quirks live here as data entries,
// not as per-bank parser code.
package format

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/statemint-dev/statemint/internal/normalize"
)

// Field is a semantic column role in a statement layout.
type Field string

const (
	FieldDate        Field = "date"
	FieldValueDate   Field = "value_date"
	FieldDescription Field = "description"
	FieldAmount      Field = "amount"
	FieldDebit       Field = "debit"
	FieldCredit      Field = "credit"
	FieldBalance     Field = "balance"
	FieldReference   Field = "reference"
	// FieldType is a DR/CR indicator column. When present it overrides the
	// sign-derived direction.
	FieldType Field = "type"
)

// Descriptor describes one known statement layout. Immutable after
// registration.
type Descriptor struct {
	Name      string              `yaml:"name"`
	Region    string              `yaml:"region"`
	DateOrder normalize.DateOrder `yaml:"date_order"`
	Currency  string              `yaml:"currency"` // ISO code
	Symbol    string              `yaml:"symbol"`   // currency symbol to strip from amounts
	Columns   map[Field]int       `yaml:"columns"`
}

// MinFields is the smallest record length that can satisfy this layout.
func (d Descriptor) MinFields() int {
	max := -1
	for _, idx := range d.Columns {
		if idx > max {
			max = idx
		}
	}
	return max + 1
}

// Col returns the column index for a field, or -1 if the layout lacks it.
func (d Descriptor) Col(f Field) int {
	if idx, ok := d.Columns[f]; ok {
		return idx
	}
	return -1
}

// Registry is an ordered catalog of descriptors. Declaration order is the
// tie-break order for detection.
type Registry struct {
	descriptors []Descriptor
	byName      map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds a descriptor. Panics on duplicate name.
func (r *Registry) Register(d Descriptor) {
	key := strings.ToLower(d.Name)
	if _, ok := r.byName[key]; ok {
		panic("duplicate format name: " + key)
	}
	r.byName[key] = len(r.descriptors)
	r.descriptors = append(r.descriptors, d)
}

// Get returns the descriptor with the given name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	idx, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return Descriptor{}, false
	}
	return r.descriptors[idx], true
}

// All returns the descriptors in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Builtin returns a registry preloaded with the supported layouts.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(Descriptor{
		Name:      "icici-in",
		Region:    "IN",
		DateOrder: normalize.DayFirst,
		Currency:  "INR",
		Symbol:    "₹",
		Columns: map[Field]int{
			FieldDate:        0,
			FieldValueDate:   1,
			FieldDescription: 2,
			FieldType:        3,
			FieldReference:   4,
			FieldAmount:      5,
			FieldBalance:     7,
		},
	})
	r.Register(Descriptor{
		Name:      "hdfc-in",
		Region:    "IN",
		DateOrder: normalize.DayFirst,
		Currency:  "INR",
		Symbol:    "₹",
		Columns: map[Field]int{
			FieldDate:        0,
			FieldDescription: 1,
			FieldReference:   2,
			FieldValueDate:   3,
			FieldDebit:       4,
			FieldCredit:      5,
			FieldBalance:     6,
		},
	})
	r.Register(Descriptor{
		Name:      "chase-us",
		Region:    "US",
		DateOrder: normalize.MonthFirst,
		Currency:  "USD",
		Symbol:    "$",
		Columns: map[Field]int{
			FieldType:        0,
			FieldDate:        1,
			FieldDescription: 2,
			FieldAmount:      3,
			FieldBalance:     5,
			FieldReference:   6,
		},
	})
	r.Register(Descriptor{
		Name:      "monzo-uk",
		Region:    "GB",
		DateOrder: normalize.DayFirst,
		Currency:  "GBP",
		Symbol:    "£",
		Columns: map[Field]int{
			FieldDate:        0,
			FieldDescription: 1,
			FieldAmount:      2,
			FieldBalance:     3,
		},
	})
	return r
}

// catalogFile is the YAML shape for drop-in descriptor files.
type catalogFile struct {
	Formats []Descriptor `yaml:"formats"`
}

// LoadFile registers every descriptor from a YAML catalog file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading format catalog: %w", err)
	}
	var cat catalogFile
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return fmt.Errorf("parsing format catalog %s: %w", path, err)
	}
	for _, d := range cat.Formats {
		if d.Name == "" {
			return fmt.Errorf("format catalog %s: descriptor without a name", path)
		}
		if d.DateOrder == "" {
			d.DateOrder = normalize.DayFirst
		}
		r.Register(d)
	}
	return nil
}
