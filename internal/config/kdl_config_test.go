package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 300, cfg.Watch.DebounceMs)
	assert.Equal(t, 120, cfg.Driver.IndexingTimeoutSec)
	assert.True(t, cfg.RespectGitignore)
	assert.Empty(t, cfg.Assemblies)
}

func TestParseKDL_DriverAndWatch(t *testing.T) {
	kdlContent := `
driver {
    parallel_file_workers 4
    indexing_timeout_sec 60
}

watch {
    enabled false
    debounce_ms 500
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 4, cfg.Driver.ParallelFileWorkers)
	assert.Equal(t, 60, cfg.Driver.IndexingTimeoutSec)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
}

func TestParseKDL_Assemblies(t *testing.T) {
	kdlContent := `
assembly "app" {
    root "./src"
    include "**/*.ember"
    exclude "**/*.gen.ember"
}

assembly "stdlib" {
    root "../stdlib"
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.Len(t, cfg.Assemblies, 2)

	app := cfg.Assemblies[0]
	assert.Equal(t, "app", app.Name)
	assert.Equal(t, "./src", app.Root)
	assert.Equal(t, []string{"**/*.ember"}, app.Include)
	assert.Equal(t, []string{"**/*.gen.ember"}, app.Exclude)

	stdlib := cfg.Assemblies[1]
	assert.Equal(t, "stdlib", stdlib.Name)
	assert.Equal(t, "../stdlib", stdlib.Root)
}

func TestParseKDL_IncludeExcludeBlocks(t *testing.T) {
	kdlContent := `
include {
    "**/*.ember"
}

exclude {
    "**/.git/**"
    "**/bin/**"
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Contains(t, cfg.Include, "**/*.ember")
	assert.Contains(t, cfg.Exclude, "**/.git/**")
	assert.Contains(t, cfg.Exclude, "**/bin/**")
}

func TestParseKDL_FullConfig(t *testing.T) {
	kdlContent := `
project {
    root "."
    name "test-project"
}

driver {
    parallel_file_workers 8
    indexing_timeout_sec 90
}

watch {
    enabled true
    debounce_ms 250
}

respect_gitignore false

assembly "app" {
    root "."
}

exclude "**/.git/**" "**/node_modules/**"
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "test-project", cfg.Project.Name)
	assert.Equal(t, 8, cfg.Driver.ParallelFileWorkers)
	assert.Equal(t, 90, cfg.Driver.IndexingTimeoutSec)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
	assert.False(t, cfg.RespectGitignore)
	require.Len(t, cfg.Assemblies, 1)
	assert.Equal(t, "app", cfg.Assemblies[0].Name)
	assert.Contains(t, cfg.Exclude, "**/.git/**")
	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
}
