// Package source implements the filesystem abstraction from spec §4.H:
// canonicalized source discovery over a real OS filesystem or an
// in-memory virtual one, behind a single interface so tests never touch
// disk.
package source

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// VirtualFileInfo is one discovered source: its owning assembly, its
// canonical absolute path, and its last-edit time in milliseconds since
// the Unix epoch (spec §4.G/§4.H).
type VirtualFileInfo struct {
	Assembly      string
	AbsolutePath  string
	LastEditMillis int64
}

// FileSystem abstracts source discovery and file reads so the driver
// can run against a real OS tree or an injected in-memory fixture.
type FileSystem interface {
	// Scan recursively enumerates regular files under root whose name
	// matches one of the include globs and none of the exclude globs,
	// both evaluated with doublestar (gitignore-style `**` support).
	Scan(assembly, root string, include, exclude []string) ([]VirtualFileInfo, error)
	// ReadFile returns the full text of a source previously returned by
	// Scan (or injected directly, for the virtual filesystem).
	ReadFile(absolutePath string) ([]byte, error)
}

// OSFileSystem is the real, disk-backed FileSystem.
type OSFileSystem struct{}

// NewOSFileSystem creates a disk-backed FileSystem.
func NewOSFileSystem() *OSFileSystem { return &OSFileSystem{} }

func (OSFileSystem) Scan(assembly, root string, include, exclude []string) ([]VirtualFileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var out []VirtualFileInfo
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(include, rel) || matchesAny(exclude, rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, VirtualFileInfo{
			Assembly:       assembly,
			AbsolutePath:   path,
			LastEditMillis: info.ModTime().UnixMilli(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AbsolutePath < out[j].AbsolutePath })
	return out, nil
}

func matchesAny(patterns []string, path string) bool {
	if len(patterns) == 0 {
		return false
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

func (OSFileSystem) ReadFile(absolutePath string) ([]byte, error) {
	return os.ReadFile(absolutePath)
}

// VirtualFileSystem is an in-memory FileSystem used by tests and by
// editor integrations that want to feed unsaved buffers through the
// same driver path as disk files.
type VirtualFileSystem struct {
	files map[string]virtualFile
}

type virtualFile struct {
	assembly       string
	text           []byte
	lastEditMillis int64
}

// NewVirtualFileSystem creates an empty virtual filesystem.
func NewVirtualFileSystem() *VirtualFileSystem {
	return &VirtualFileSystem{files: make(map[string]virtualFile)}
}

// Put injects or overwrites a source at absolutePath, bumping its
// last-edit time to nowMillis.
func (v *VirtualFileSystem) Put(assembly, absolutePath string, text []byte, nowMillis int64) {
	v.files[absolutePath] = virtualFile{assembly: assembly, text: text, lastEditMillis: nowMillis}
}

// Remove deletes a previously injected source.
func (v *VirtualFileSystem) Remove(absolutePath string) {
	delete(v.files, absolutePath)
}

func (v *VirtualFileSystem) Scan(assembly, root string, include, exclude []string) ([]VirtualFileInfo, error) {
	var out []VirtualFileInfo
	for path, f := range v.files {
		if f.assembly != assembly {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || (len(rel) >= 2 && rel[:2] == "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(include, rel) || matchesAny(exclude, rel) {
			continue
		}
		out = append(out, VirtualFileInfo{Assembly: assembly, AbsolutePath: path, LastEditMillis: f.lastEditMillis})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AbsolutePath < out[j].AbsolutePath })
	return out, nil
}

func (v *VirtualFileSystem) ReadFile(absolutePath string) ([]byte, error) {
	f, ok := v.files[absolutePath]
	if !ok {
		return nil, os.ErrNotExist
	}
	return f.text, nil
}
