package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/odegraph/internal/config"
	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every .hcl file under paths. Missing paths are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var parsed []*hcl.File
	for _, path := range files {
		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		parsed = append(parsed, f)
	}
	return l.build(ctx, parsed, files)
}

// Parse loads configuration from in-memory source, as if read from filename.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	return l.build(ctx, []*hcl.File{f}, []string{filename})
}

func (l *Loader) build(ctx context.Context, files []*hcl.File, names []string) (*config.Model, error) {
	model := config.Default()
	seen := map[string]string{}

	once := func(block, file string) error {
		if prev, dup := seen[block]; dup {
			return fmt.Errorf("%s block declared in both %s and %s", block, prev, file)
		}
		seen[block] = file
		return nil
	}

	for i, f := range files {
		var root fileRoot
		if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", names[i], diags)
		}

		if root.Engine != nil {
			if err := once("engine", names[i]); err != nil {
				return nil, err
			}
			if err := translateEngine(root.Engine, &model.Engine); err != nil {
				return nil, err
			}
		}
		if root.Export != nil {
			if err := once("export", names[i]); err != nil {
				return nil, err
			}
			translateExport(root.Export, &model.Export)
		}
		if root.Editor != nil {
			if err := once("editor", names[i]); err != nil {
				return nil, err
			}
			ed, err := translateEditor(root.Editor)
			if err != nil {
				return nil, err
			}
			model.Editor = ed
		}
		for _, n := range root.Nodes {
			node, err := translateNode(n)
			if err != nil {
				return nil, err
			}
			model.Nodes = append(model.Nodes, node)
		}
		for _, lb := range root.Links {
			model.Links = append(model.Links, &config.Link{From: lb.From, To: lb.To})
		}
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("HCL loading complete.", "nodes", len(model.Nodes), "links", len(model.Links), "editor", model.Editor != nil)
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("error walking %s: %w", path, err)
			}
			for _, p := range found {
				add(p)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}
