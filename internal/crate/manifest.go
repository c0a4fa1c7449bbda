// Package crate locates the entry source file of a Cargo crate.
package crate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file name of a Cargo manifest.
const ManifestName = "Cargo.toml"

var (
	// ErrNoManifest indicates the directory has no Cargo.toml.
	ErrNoManifest = errors.New("no Cargo.toml found")

	// ErrNoEntryPoint indicates no library or binary source file could be found.
	ErrNoEntryPoint = errors.New("no crate entry point found")
)

// Manifest holds the parts of Cargo.toml that locate source files.
type Manifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Lib *Target  `toml:"lib"`
	Bin []Target `toml:"bin"`
}

// Target is a [lib] or [[bin]] table.
type Target struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// ReadManifest decodes dir/Cargo.toml.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)

	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoManifest, dir)
		}
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &m, nil
}

// EntryPoint returns the root source file of the crate in dir. Candidates are
// tried in order: [lib].path, the first [[bin]].path, src/lib.rs, src/main.rs.
func EntryPoint(dir string) (string, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return "", err
	}

	var candidates []string
	if m.Lib != nil && m.Lib.Path != "" {
		candidates = append(candidates, m.Lib.Path)
	}
	for _, bin := range m.Bin {
		if bin.Path != "" {
			candidates = append(candidates, bin.Path)
			break
		}
	}
	candidates = append(candidates, filepath.Join("src", "lib.rs"), filepath.Join("src", "main.rs"))

	for _, candidate := range candidates {
		path := filepath.Join(dir, filepath.FromSlash(candidate))
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	return "", fmt.Errorf("%w for crate %q in %s", ErrNoEntryPoint, m.Package.Name, dir)
}
