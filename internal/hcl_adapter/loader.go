package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/slotgraph/internal/config"
	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths, in the order given and then in
// lexical file order, and merges their blocks into one model. Declaration
// order of nodes is the order in which they appear.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Evaluator, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	if len(hclFiles) == 0 {
		return nil, nil, fmt.Errorf("no .hcl files found in %s", strings.Join(paths, ", "))
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := &config.Model{Source: strings.Join(paths, ",")}
	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, s := range root.State {
			model.State = append(model.State, l.translateState(ctx, s))
		}
		for _, n := range root.Nodes {
			tn, err := l.translateNode(ctx, n)
			if err != nil {
				return nil, nil, fmt.Errorf("in file %s: %w", file, err)
			}
			model.Nodes = append(model.Nodes, tn)
		}
		for _, e := range root.Edges {
			model.Edges = append(model.Edges, &config.Edge{From: e.From, To: e.To})
		}
		for _, r := range root.Routes {
			tr, err := l.translateRoute(ctx, r)
			if err != nil {
				return nil, nil, fmt.Errorf("in file %s: %w", file, err)
			}
			model.Routes = append(model.Routes, tr)
		}
	}

	logger.Debug("HCL loading complete.", "state_keys", len(model.State), "nodes", len(model.Nodes), "edges", len(model.Edges), "routes", len(model.Routes))
	return model, NewConverter(), nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		var found []string
		if info.IsDir() {
			found, err = fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
		} else if strings.HasSuffix(path, ".hcl") {
			found = []string{path}
		}

		for _, p := range found {
			if _, wasSeen := seen[p]; !wasSeen {
				allFiles = append(allFiles, p)
				seen[p] = struct{}{}
			}
		}
	}
	return allFiles, nil
}
