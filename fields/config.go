package fields

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wudi/pdffield/geom"
)

// Overrides replaces the box tables of named registry fields. Unknown
// names are ignored so a single config file can serve mixed catalogs.
type Overrides map[string][]geom.Rect

type fileConfig struct {
	Fields map[string]fieldConfig `yaml:"fields"`
}

type fieldConfig struct {
	// Boxes are [x0, y0, x1, y1] quadruples in image pixels at 300 DPI.
	Boxes [][]float64 `yaml:"boxes"`
}

// LoadOverrides reads a YAML box-table override file.
//
//	fields:
//	  HWT Nummer:
//	    boxes:
//	      - [90, 858, 552, 901]
func LoadOverrides(path string) (Overrides, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse field config %s: %w", path, err)
	}

	out := make(Overrides, len(cfg.Fields))
	for name, fc := range cfg.Fields {
		boxes := make([]geom.Rect, 0, len(fc.Boxes))
		for i, b := range fc.Boxes {
			if len(b) != 4 {
				return nil, fmt.Errorf("field %q box %d: want 4 coordinates, got %d", name, i, len(b))
			}
			boxes = append(boxes, geom.NewRect(b[0], b[1], b[2], b[3]))
		}
		if len(boxes) == 0 {
			return nil, fmt.Errorf("field %q: override declares no boxes", name)
		}
		out[name] = boxes
	}
	return out, nil
}

// Apply returns a copy of descs with overridden box tables swapped in.
func (o Overrides) Apply(descs []Descriptor) []Descriptor {
	if len(o) == 0 {
		return descs
	}
	out := make([]Descriptor, len(descs))
	copy(out, descs)
	for i := range out {
		if boxes, ok := o[out[i].Name]; ok {
			out[i].Boxes = boxes
		}
	}
	return out
}
