package driver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/emberlang/emberc/internal/parse"
	"github.com/emberlang/emberc/internal/psi"
	"github.com/emberlang/emberc/internal/source"
)

// AssemblyInfo names one compilation unit's root and the source files it
// claims, per spec §6 ("the driver consumes a list of AssemblyInfo{name,
// rootPath}").
type AssemblyInfo struct {
	Name         string
	RootPath     string
	IncludeGlobs []string
	ExcludeGlobs []string
}

// RunResult summarizes one driver run: which files were (re)parsed and
// the FileInfo for every file known after the run.
type RunResult struct {
	Changed []*FileInfo
	All     []*FileInfo
}

// Driver owns the FileInfo set across runs and schedules parse jobs for
// changed files. It is not safe for concurrent Run calls — only the
// parse jobs *within* one run are parallel (spec §5).
type Driver struct {
	fs         source.FileSystem
	assemblies []AssemblyInfo
	files      *pathTable
}

// New creates a Driver that discovers sources via fs.
func New(fs source.FileSystem, assemblies []AssemblyInfo) *Driver {
	return &Driver{fs: fs, assemblies: assemblies, files: newPathTable()}
}

// Run executes one full diff/invalidate/schedule/parse cycle (spec
// §4.G steps 1-8) and returns the files that were (re)parsed.
func (d *Driver) Run(ctx context.Context) (*RunResult, error) {
	current, err := d.enumerate()
	if err != nil {
		return nil, err
	}

	var all []*FileInfo
	d.files.Each(func(_ string, fi *FileInfo) { fi.reset(); all = append(all, fi) })

	for _, vf := range current {
		fi, ok := d.files.Get(vf.AbsolutePath)
		if !ok {
			fi = &FileInfo{Path: vf.AbsolutePath, Assembly: vf.Assembly, LastEditMillis: vf.LastEditMillis, wasTouched: true, wasChanged: true}
			d.files.Put(vf.AbsolutePath, fi)
			all = append(all, fi)
			continue
		}
		fi.wasTouched = true
		if fi.Assembly != vf.Assembly {
			fi.Assembly = vf.Assembly
			fi.wasChanged = true
		}
		if fi.LastEditMillis != vf.LastEditMillis {
			fi.LastEditMillis = vf.LastEditMillis
			fi.wasChanged = true
		}
	}

	d.recomputeDependants(all)

	for _, fi := range all {
		if fi.wasChanged || !fi.wasTouched {
			d.markDependantsChanged(fi)
		}
	}

	var survivors, changed []*FileInfo
	for _, fi := range all {
		if !fi.wasTouched {
			d.files.Delete(fi.Path)
			continue
		}
		survivors = append(survivors, fi)
		if fi.wasChanged {
			fi.ParseResult = nil
			changed = append(changed, fi)
		}
	}

	if err := d.parseAll(ctx, changed); err != nil {
		return nil, err
	}

	return &RunResult{Changed: changed, All: survivors}, nil
}

// ScheduleAssembly runs the full cross-assembly Run — so changed files of
// every assembly are (re)parsed, and dependency invalidation sees the
// driver's whole FileInfo table — and then reports only the files that
// belong to asm in the returned Changed and All lists.
func (d *Driver) ScheduleAssembly(ctx context.Context, asm AssemblyInfo) (*RunResult, error) {
	full, err := d.Run(ctx)
	if err != nil {
		return nil, err
	}

	var changed, all []*FileInfo
	for _, fi := range full.All {
		if fi.Assembly != asm.Name {
			continue
		}
		all = append(all, fi)
	}
	for _, fi := range full.Changed {
		if fi.Assembly == asm.Name {
			changed = append(changed, fi)
		}
	}
	return &RunResult{Changed: changed, All: all}, nil
}

func (d *Driver) enumerate() ([]source.VirtualFileInfo, error) {
	var out []source.VirtualFileInfo
	for _, asm := range d.assemblies {
		files, err := d.fs.Scan(asm.Name, asm.RootPath, asm.IncludeGlobs, asm.ExcludeGlobs)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// recomputeDependants rebuilds the reverse edges from each file's
// forward Dependencies, per spec §4.G step 3.
func (d *Driver) recomputeDependants(all []*FileInfo) {
	for _, fi := range all {
		for _, dep := range fi.Dependencies {
			if depFi, ok := d.files.Get(dep); ok {
				depFi.Dependants = append(depFi.Dependants, fi.Path)
			}
		}
	}
}

// markDependantsChanged recursively marks all transitive dependants of
// fi wasChanged = true, skipping already-visited nodes so dependency
// cycles terminate (spec §4.G step 6, §9).
func (d *Driver) markDependantsChanged(fi *FileInfo) {
	if fi.dependantsVisited {
		return
	}
	fi.dependantsVisited = true
	for _, depPath := range fi.Dependants {
		depFi, ok := d.files.Get(depPath)
		if !ok {
			continue
		}
		depFi.wasChanged = true
		d.markDependantsChanged(depFi)
	}
}

// parseAll starts one errgroup goroutine per changed file, with no limit
// on how many run at once, and waits for all of them; jobs are
// independent and write only to their own FileInfo.
func (d *Driver) parseAll(ctx context.Context, changed []*FileInfo) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, fi := range changed {
		fi := fi
		g.Go(func() error {
			text, err := d.fs.ReadFile(fi.Path)
			if err != nil {
				return err
			}
			fi.ParseResult = parseOne(text)
			return ctx.Err()
		})
	}
	return g.Wait()
}

// parseOne runs the tokenizer + PSI builder and, if the file is clean
// enough to be worth it, the recursive-descent parser, for a single
// file's text. NewBuilder's bool return is false for bad characters, too
// many tokens, or unmatched delimiters — in which case production is
// skipped, but Finalize is still reached so callers get a Result with
// its summary flags and errors set, per spec §4.D.
func parseOne(text []byte) *psi.Result {
	b, ok := psi.NewBuilder(text)
	if ok {
		parse.New(b).ParseFile()
	}
	result, _ := b.Finalize()
	return result
}
