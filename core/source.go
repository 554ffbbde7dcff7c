package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ministryofjustice/pamo-utilities/config"
)

// Image is a raw image byte stream with its file extension (".png" etc).
type Image struct {
	Data []byte
	Ext  string
}

// Resolver resolves source descriptors into tables or images for one build.
// Registry maps registry-style callable names to functions; Dynamo may be
// nil, in which case a client is constructed from the default AWS config on
// first use. SQL connections are pooled per (driver, DSN) for the build and
// released by Close.
type Resolver struct {
	BaseDir  string
	Registry map[string]SourceFunc
	Dynamo   DynamoClient

	dbs map[string]*pooledDB
}

// ResolveTable resolves a tabular source descriptor into a Table.
func (r *Resolver) ResolveTable(src *config.SourceConfig) (*Table, error) {
	switch {
	case src.Type == config.SourceTypeCSV:
		return ReadCSV(r.resolvePath(src.Path))
	case src.Type == config.SourceTypeExcel:
		return ReadExcelSheet(r.resolvePath(src.Path), src.Sheet)
	case src.Type == config.SourceTypeSQL:
		return r.fetchSQL(src)
	case src.Type == config.SourceTypeDynamoDB:
		return r.fetchDynamoDB(src)
	case config.IsCallableType(src.Type):
		result, err := r.invoke(src)
		if err != nil {
			return nil, err
		}
		return tableFromResult(result, src)
	default:
		return nil, fmt.Errorf("%w: unsupported source type '%s'", ErrConfig, src.Type)
	}
}

// ResolveImage resolves an image source descriptor into an Image.
func (r *Resolver) ResolveImage(src *config.SourceConfig) (*Image, error) {
	switch {
	case config.IsImageType(src.Type):
		path := r.resolvePath(src.Path)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: image file '%s' was not found", ErrResolution, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image file %s: %w", path, err)
		}
		return &Image{Data: data, Ext: "." + src.Type}, nil
	case config.IsCallableType(src.Type):
		result, err := r.invoke(src)
		if err != nil {
			return nil, err
		}
		switch img := result.(type) {
		case *Image:
			return img, nil
		case []byte:
			// Function-sourced images default to PNG.
			return &Image{Data: img, Ext: ".png"}, nil
		default:
			return nil, fmt.Errorf("%w: callable source did not return image bytes", ErrTypeMismatch)
		}
	default:
		return nil, fmt.Errorf("%w: source type '%s' does not produce an image", ErrConfig, src.Type)
	}
}

// Close releases connections pooled during the build.
func (r *Resolver) Close() error {
	var firstErr error
	for _, db := range r.dbs {
		if err := db.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.dbs = nil
	return firstErr
}

// invoke resolves the callable behind src and calls it with the declared
// keyword arguments.
func (r *Resolver) invoke(src *config.SourceConfig) (any, error) {
	fn, err := r.resolveFunc(src)
	if err != nil {
		return nil, err
	}
	kwargs := src.Kwargs
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return fn(kwargs)
}

// resolveFunc picks the single declared resolution strategy: registry name,
// dotted reference, or the legacy module+function pair.
func (r *Resolver) resolveFunc(src *config.SourceConfig) (SourceFunc, error) {
	strategies := 0
	if src.Registry != "" {
		strategies++
	}
	if src.Dotted != "" {
		strategies++
	}
	if src.Module != "" && src.Function != "" {
		strategies++
	}
	if strategies > 1 {
		return nil, fmt.Errorf("%w: callable source must specify exactly one of 'registry', 'dotted' or 'module'+'function'", ErrConfig)
	}

	switch {
	case src.Registry != "":
		fn, ok := r.Registry[src.Registry]
		if !ok {
			return nil, fmt.Errorf("%w: function '%s' not found in registry", ErrResolution, src.Registry)
		}
		return fn, nil
	case src.Dotted != "":
		return resolveDotted(src.Dotted)
	case src.Module != "" && src.Function != "":
		return resolveDotted(src.Module + "." + src.Function)
	default:
		return nil, fmt.Errorf("%w: callable source requires 'registry' or 'dotted' (or 'module'+'function')", ErrConfig)
	}
}

// tableFromResult maps a callable's result to a Table, selecting src.Key
// when the result is a name-to-table mapping.
func tableFromResult(result any, src *config.SourceConfig) (*Table, error) {
	switch t := result.(type) {
	case *Table:
		return t, nil
	case map[string]*Table:
		if src.Key == "" {
			return nil, fmt.Errorf("%w: callable returned a mapping; specify source key", ErrTypeMismatch)
		}
		sel, ok := t[src.Key]
		if !ok || sel == nil {
			return nil, fmt.Errorf("%w: callable returned a mapping with no table for key '%s'", ErrTypeMismatch, src.Key)
		}
		return sel, nil
	default:
		return nil, fmt.Errorf("%w: callable source did not return a table", ErrTypeMismatch)
	}
}

// resolvePath expands environment variables and resolves the path against
// the build's base directory unless already absolute.
func (r *Resolver) resolvePath(path string) string {
	expanded := os.ExpandEnv(path)
	if filepath.IsAbs(expanded) {
		return expanded
	}
	return filepath.Join(r.BaseDir, expanded)
}
