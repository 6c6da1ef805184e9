package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// registryFile is the root of an HCL registry file.
type registryFile struct {
	Resources []*resourceBlock `hcl:"resource,block"`
}

type resourceBlock struct {
	Name      string `hcl:"name,label"`
	Path      string `hcl:"path"`
	SizeClass string `hcl:"size_class,optional"`
	Backend   string `hcl:"backend,optional"`
	Kind      string `hcl:"kind,optional"`
}

// LoadRegistryFile reads and validates a registry file. The format is chosen
// by extension:
//
//   - .hcl: `resource "<name>" { path = "..." }` blocks;
//   - .json: an array of {"name": ..., "path": ...} objects;
//   - .yaml/.yml: a list of the same objects.
//
// Every failure is a *ConfigError.
func LoadRegistryFile(path string) (*Registry, error) {
	entries, err := readRegistryFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	reg, err := NewRegistry(entries...)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return reg, nil
}

func readRegistryFile(path string) ([]Entry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		return decodeHCL(path, src)
	case ".json":
		return decodeJSON(src)
	case ".yaml", ".yml":
		var entries []Entry
		if err := yaml.Unmarshal(src, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("unsupported registry file extension %q", ext)
	}
}

func decodeHCL(path string, src []byte) ([]Entry, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}

	var root registryFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %w", diags)
	}

	entries := make([]Entry, 0, len(root.Resources))
	for _, b := range root.Resources {
		entries = append(entries, Entry{
			Name:      b.Name,
			Path:      b.Path,
			SizeClass: b.SizeClass,
			Backend:   b.Backend,
			Kind:      Kind(b.Kind),
		})
	}
	return entries, nil
}

func decodeJSON(src []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, errors.New("registry file is empty")
	}
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.DisallowUnknownFields()
	var entries []Entry
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return entries, nil
}
