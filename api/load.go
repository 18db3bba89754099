package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/ohler55/ojg/oj"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

var (
	ErrUnsupportedFormat  = errors.New("unsupported description format")
	ErrUnsupportedVersion = errors.New("unsupported description version")
)

// hclDescription is the HCL shape of Description. Data is an HCL object
// expression, converted to plain JSON values after decoding.
type hclDescription struct {
	Version   string    `hcl:"version,optional"`
	Namespace string    `hcl:"namespace,optional"`
	Data      cty.Value `hcl:"data,optional"`
	DataFile  string    `hcl:"data_file,optional"`
	Rules     []Rule    `hcl:"rule,block"`
}

// LoadDescription reads a .json or .hcl description from path.
func LoadDescription(path string) (*Description, error) {
	var (
		d   *Description
		err error
	)
	switch filepath.Ext(path) {
	case ".json":
		d, err = loadJSON(path)
	case ".hcl":
		d, err = loadHCL(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}

	if d.Data == nil && d.DataFile != "" {
		dataPath := d.DataFile
		if !filepath.IsAbs(dataPath) {
			dataPath = filepath.Join(filepath.Dir(path), dataPath)
		}
		raw, err := os.ReadFile(dataPath)
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
		if d.Data, err = oj.Parse(raw); err != nil {
			return nil, fmt.Errorf("parse data file %s: %w", dataPath, err)
		}
	}
	return d, d.Validate()
}

func loadJSON(path string) (*Description, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read description: %w", err)
	}
	var d Description
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse description %s: %w", path, err)
	}
	return &d, nil
}

func loadHCL(path string) (*Description, error) {
	var h hclDescription
	if err := hclsimple.DecodeFile(path, nil, &h); err != nil {
		return nil, fmt.Errorf("parse description %s: %w", path, err)
	}
	d := &Description{
		Version:   h.Version,
		Namespace: h.Namespace,
		DataFile:  h.DataFile,
		Rules:     h.Rules,
	}
	if !h.Data.IsNull() {
		raw, err := ctyjson.SimpleJSONValue{Value: h.Data}.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("convert data in %s: %w", path, err)
		}
		if d.Data, err = oj.Parse(raw); err != nil {
			return nil, fmt.Errorf("convert data in %s: %w", path, err)
		}
	}
	return d, nil
}

// Validate checks the fields every rule needs regardless of kind. Kind
// specific checks happen when the rule runs.
func (d *Description) Validate() error {
	if d.Version != "" && d.Version != SchemaVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, d.Version)
	}
	for i, r := range d.Rules {
		if r.Kind == "" {
			return fmt.Errorf("rule %d: kind is required", i)
		}
		if r.Kind != "lang" && r.Name == "" {
			return fmt.Errorf("rule %d (%s): name is required", i, r.Kind)
		}
	}
	return nil
}
