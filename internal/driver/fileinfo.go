// Package driver implements the incremental compilation driver from spec
// §4.G: it tracks one FileInfo per known source, diffs each run against
// the filesystem, propagates invalidation through the dependency graph,
// and fans out parse jobs for every changed file.
package driver

import (
	"github.com/emberlang/emberc/internal/psi"
)

// FileInfo is the driver's per-file state, identified by its absolute
// path. Dependency/dependant edges and the invalidation flags are
// mutated only in Run's single-threaded diff/invalidate phase, before
// the parse jobs start; parse jobs read and write only their own
// FileInfo's ParseResult.
type FileInfo struct {
	Path           string
	Assembly       string
	LastEditMillis int64

	Dependencies []string // absolute paths this file depends on
	Dependants   []string // reverse edges, recomputed each run

	wasTouched        bool
	wasChanged        bool
	dependantsVisited bool

	ParseResult *psi.Result
}

// reset clears the per-run flags computed fresh at the start of Run,
// per spec §4.G step 2.
func (f *FileInfo) reset() {
	f.wasTouched = false
	f.wasChanged = false
	f.dependantsVisited = false
	f.Dependants = f.Dependants[:0]
}
