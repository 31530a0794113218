package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/emberc/internal/source"
)

func newFixture() (*source.VirtualFileSystem, *Driver) {
	vfs := source.NewVirtualFileSystem()
	d := New(vfs, []AssemblyInfo{{Name: "app", RootPath: "/proj", IncludeGlobs: []string{"**/*.ember"}}})
	return vfs, d
}

func TestDriver_Run_DiscoversAndParsesNewFiles(t *testing.T) {
	vfs, d := newFixture()
	vfs.Put("app", "/proj/a.ember", []byte("let x = 1;"), 100)

	result, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Changed, 1)
	assert.Equal(t, "/proj/a.ember", result.Changed[0].Path)
	assert.NotNil(t, result.Changed[0].ParseResult)
}

func TestDriver_Run_UnchangedFileNotReparsed(t *testing.T) {
	vfs, d := newFixture()
	vfs.Put("app", "/proj/a.ember", []byte("let x = 1;"), 100)

	_, err := d.Run(context.Background())
	require.NoError(t, err)

	result, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Changed)
	require.Len(t, result.All, 1)
}

func TestDriver_Run_EditedFileReparsedAndClearsStaleResult(t *testing.T) {
	vfs, d := newFixture()
	vfs.Put("app", "/proj/a.ember", []byte("let x = 1;"), 100)
	first, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Changed, 1)
	old := first.Changed[0].ParseResult

	vfs.Put("app", "/proj/a.ember", []byte("let x = 2;"), 200)
	result, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Changed, 1)
	assert.EqualValues(t, 200, result.Changed[0].LastEditMillis)
	assert.NotSame(t, old, result.Changed[0].ParseResult)
}

func TestDriver_Run_RemovedFileDropsFromState(t *testing.T) {
	vfs, d := newFixture()
	vfs.Put("app", "/proj/a.ember", []byte("let x = 1;"), 100)
	_, err := d.Run(context.Background())
	require.NoError(t, err)

	vfs.Remove("/proj/a.ember")
	result, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.All)
	_, ok := d.files.Get("/proj/a.ember")
	assert.False(t, ok)
}

func TestDriver_Run_ChangeInvalidatesTransitiveDependants(t *testing.T) {
	vfs, d := newFixture()
	vfs.Put("app", "/proj/a.ember", []byte("let a = 1;"), 100)
	vfs.Put("app", "/proj/b.ember", []byte("import a;"), 100)
	vfs.Put("app", "/proj/c.ember", []byte("import b;"), 100)
	_, err := d.Run(context.Background())
	require.NoError(t, err)

	bFi, ok := d.files.Get("/proj/b.ember")
	require.True(t, ok)
	bFi.Dependencies = []string{"/proj/a.ember"}
	cFi, ok := d.files.Get("/proj/c.ember")
	require.True(t, ok)
	cFi.Dependencies = []string{"/proj/b.ember"}

	vfs.Put("app", "/proj/a.ember", []byte("let a = 2;"), 200)
	result, err := d.Run(context.Background())
	require.NoError(t, err)

	changedPaths := map[string]bool{}
	for _, fi := range result.Changed {
		changedPaths[fi.Path] = true
	}
	assert.True(t, changedPaths["/proj/a.ember"])
	assert.True(t, changedPaths["/proj/b.ember"])
	assert.True(t, changedPaths["/proj/c.ember"])
}

func TestDriver_ScheduleAssembly_FiltersToOneAssembly(t *testing.T) {
	vfs := source.NewVirtualFileSystem()
	d := New(vfs, []AssemblyInfo{
		{Name: "app", RootPath: "/proj", IncludeGlobs: []string{"**/*.ember"}},
		{Name: "lib", RootPath: "/lib", IncludeGlobs: []string{"**/*.ember"}},
	})
	vfs.Put("app", "/proj/a.ember", []byte("let x = 1;"), 100)
	vfs.Put("lib", "/lib/b.ember", []byte("let y = 2;"), 100)

	result, err := d.ScheduleAssembly(context.Background(), AssemblyInfo{Name: "app", RootPath: "/proj"})
	require.NoError(t, err)
	require.Len(t, result.All, 1)
	assert.Equal(t, "/proj/a.ember", result.All[0].Path)
	require.Len(t, result.Changed, 1)
	assert.Equal(t, "/proj/a.ember", result.Changed[0].Path)
}

func TestDriver_Run_DependencyCycleTerminates(t *testing.T) {
	vfs, d := newFixture()
	vfs.Put("app", "/proj/a.ember", []byte("import b;"), 100)
	vfs.Put("app", "/proj/b.ember", []byte("import a;"), 100)
	_, err := d.Run(context.Background())
	require.NoError(t, err)

	aFi, _ := d.files.Get("/proj/a.ember")
	bFi, _ := d.files.Get("/proj/b.ember")
	aFi.Dependencies = []string{"/proj/b.ember"}
	bFi.Dependencies = []string{"/proj/a.ember"}

	vfs.Put("app", "/proj/a.ember", []byte("import b; // edited"), 200)

	result, err := d.Run(context.Background())
	require.NoError(t, err)
	changedPaths := map[string]bool{}
	for _, fi := range result.Changed {
		changedPaths[fi.Path] = true
	}
	assert.True(t, changedPaths["/proj/a.ember"])
	assert.True(t, changedPaths["/proj/b.ember"])
}
