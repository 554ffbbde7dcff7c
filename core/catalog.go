package core

import (
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"strings"
	"sync"
)

// SourceFunc is a dynamically resolved data source. It receives the keyword
// arguments declared in the configuration verbatim and returns either a
// *Table, a map[string]*Table, an *Image or raw image bytes.
type SourceFunc func(kwargs map[string]any) (any, error)

// catalog is the process-wide registry of dotted function references and
// the search paths used to locate plugin modules. Both persist beyond a
// single build, so mutation must be idempotent.
var catalog = struct {
	sync.Mutex
	funcs   map[string]SourceFunc
	paths   []string
	plugins map[string]*plugin.Plugin
}{
	funcs:   make(map[string]SourceFunc),
	plugins: make(map[string]*plugin.Plugin),
}

// RegisterFunc makes fn resolvable under the dotted name, e.g.
// "stats.group_means". Later registrations replace earlier ones.
func RegisterFunc(name string, fn SourceFunc) {
	catalog.Lock()
	defer catalog.Unlock()
	catalog.funcs[name] = fn
}

// AddSearchPath registers a directory to search for plugin modules.
// Adding the same directory twice is a no-op.
func AddSearchPath(dir string) {
	catalog.Lock()
	defer catalog.Unlock()
	for _, p := range catalog.paths {
		if p == dir {
			return
		}
	}
	catalog.paths = append(catalog.paths, dir)
}

// resolveDotted resolves a "pkg.module:function" or "pkg.module.function"
// reference to a SourceFunc. Registered catalog entries win; otherwise the
// module part is loaded as a Go plugin ("pkg/module.so") found on the
// registered search paths and the function part looked up as a symbol.
func resolveDotted(dotted string) (SourceFunc, error) {
	normalized := strings.ReplaceAll(dotted, ":", ".")
	if !strings.Contains(normalized, ".") {
		return nil, fmt.Errorf("%w: invalid dotted reference '%s', expected 'package.module:function'", ErrConfig, dotted)
	}

	catalog.Lock()
	defer catalog.Unlock()

	if fn, ok := catalog.funcs[normalized]; ok {
		return fn, nil
	}

	idx := strings.LastIndex(normalized, ".")
	modulePath, funcName := normalized[:idx], normalized[idx+1:]

	p, err := openModule(modulePath)
	if err != nil {
		return nil, err
	}

	sym, err := p.Lookup(funcName)
	if err != nil {
		return nil, fmt.Errorf("%w: symbol '%s' not found in module '%s'", ErrResolution, funcName, modulePath)
	}

	switch fn := sym.(type) {
	case func(map[string]any) (any, error):
		return fn, nil
	case *SourceFunc:
		return *fn, nil
	default:
		return nil, fmt.Errorf("%w: '%s' is not callable as a source function", ErrTypeMismatch, normalized)
	}
}

// openModule locates and opens the plugin for a dotted module path.
// Loaded plugins are cached; loading is a process-wide side effect.
func openModule(modulePath string) (*plugin.Plugin, error) {
	rel := strings.ReplaceAll(modulePath, ".", string(os.PathSeparator)) + ".so"
	for _, dir := range catalog.paths {
		candidate := filepath.Join(dir, rel)
		if p, ok := catalog.plugins[candidate]; ok {
			return p, nil
		}
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		p, err := plugin.Open(candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to load module '%s': %w", modulePath, err)
		}
		catalog.plugins[candidate] = p
		return p, nil
	}
	return nil, fmt.Errorf("%w: module '%s' not found on any search path", ErrResolution, modulePath)
}
