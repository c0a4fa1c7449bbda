package metrics

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// moduleLayout is the outcome of resolving a module reference on disk.
type moduleLayout int

const (
	layoutNone moduleLayout = iota
	layoutFile
	layoutDirectory
)

func (l moduleLayout) String() string {
	switch l {
	case layoutFile:
		return "file"
	case layoutDirectory:
		return "directory"
	default:
		return "none"
	}
}

// resolvedModule lists the files a module reference expands to and the base
// directory their own module references resolve against.
type resolvedModule struct {
	layout  moduleLayout
	files   []string
	baseDir string
}

// moduleResolver maps `mod name;` to files. The policy is a fixed decision
// table tried in order:
//
//  1. <base>/<name><ext> is a regular file: that file, base unchanged.
//  2. <base>/<name>/ is a directory: every <ext> file directly inside it,
//     in lexical order, with the directory as base.
//  3. otherwise nothing.
type moduleResolver struct {
	extension string
	ignore    []glob.Glob
}

func newModuleResolver(extension string, ignorePatterns []string) (*moduleResolver, error) {
	r := &moduleResolver{extension: extension}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		r.ignore = append(r.ignore, g)
	}
	return r, nil
}

func (r *moduleResolver) resolve(ref ModuleReference, baseDir string) (resolvedModule, error) {
	modPath := filepath.Join(baseDir, ref.Identifier)

	file := modPath + r.extension
	info, err := os.Stat(file)
	switch {
	case err == nil && info.Mode().IsRegular():
		return resolvedModule{layout: layoutFile, files: []string{file}, baseDir: baseDir}, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return resolvedModule{}, fmt.Errorf("failed to stat module file %s: %w", file, err)
	}

	info, err = os.Stat(modPath)
	switch {
	case err == nil && info.IsDir():
		files, err := r.listSources(modPath)
		if err != nil {
			return resolvedModule{}, err
		}
		return resolvedModule{layout: layoutDirectory, files: files, baseDir: modPath}, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return resolvedModule{}, fmt.Errorf("failed to stat module directory %s: %w", modPath, err)
	}

	return resolvedModule{layout: layoutNone}, nil
}

// listSources returns the source files directly inside dir. Subdirectories
// are not descended.
func (r *moduleResolver) listSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read module directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != r.extension {
			continue
		}
		if r.ignored(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

func (r *moduleResolver) ignored(name string) bool {
	for _, g := range r.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}
