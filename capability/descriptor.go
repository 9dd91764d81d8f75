package capability

import (
	"encoding/json"

	"github.com/wippyai/oci-wasm/errors"
)

// Descriptor is the capability summary of a component or package.
// Target is a downstream hint; extraction never sets it.
type Descriptor struct {
	Exports Set     `json:"exports" yaml:"exports"`
	Imports Set     `json:"imports" yaml:"imports"`
	Target  *string `json:"target" yaml:"target"`
}

// Equal reports whether both descriptors hold the same export and import
// sets. Target does not take part.
func (d *Descriptor) Equal(o *Descriptor) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Exports.Equal(o.Exports) && d.Imports.Equal(o.Imports)
}

// WithTarget returns a copy of d with Target set.
func (d *Descriptor) WithTarget(target string) *Descriptor {
	return &Descriptor{
		Exports: d.Exports.Union(nil),
		Imports: d.Imports.Union(nil),
		Target:  &target,
	}
}

// Parse decodes the JSON form of a descriptor. Missing sets decode as empty.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "parse capability descriptor")
	}
	if d.Exports == nil {
		d.Exports = Set{}
	}
	if d.Imports == nil {
		d.Imports = Set{}
	}
	return &d, nil
}
