package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Unit tests for config merging logic

func TestMergeConfigs_ExclusionsMerge(t *testing.T) {
	base := &Config{
		Exclude: []string{
			"**/node_modules/**",
			"**/vendor/**",
			"**/generated/**",
		},
	}
	project := &Config{
		Exclude: []string{
			"**/dist/**",
			"**/build/**",
		},
	}

	merged := mergeConfigs(base, project)

	assert.Contains(t, merged.Exclude, "**/node_modules/**")
	assert.Contains(t, merged.Exclude, "**/vendor/**")
	assert.Contains(t, merged.Exclude, "**/generated/**")
	assert.Contains(t, merged.Exclude, "**/dist/**")
	assert.Contains(t, merged.Exclude, "**/build/**")
	assert.Len(t, merged.Exclude, 5)
}

func TestMergeConfigs_ExclusionsDeduplication(t *testing.T) {
	base := &Config{
		Exclude: []string{"**/node_modules/**", "**/vendor/**"},
	}
	project := &Config{
		Exclude: []string{"**/node_modules/**", "**/dist/**"},
	}

	merged := mergeConfigs(base, project)

	assert.Len(t, merged.Exclude, 3)
	assert.Contains(t, merged.Exclude, "**/node_modules/**")
	assert.Contains(t, merged.Exclude, "**/vendor/**")
	assert.Contains(t, merged.Exclude, "**/dist/**")
}

func TestMergeConfigs_InclusionsProjectOverride(t *testing.T) {
	base := &Config{Include: []string{"**/*.ember", "**/*.embi"}}
	project := &Config{Include: []string{"**/*.ember"}}

	merged := mergeConfigs(base, project)

	assert.Equal(t, project.Include, merged.Include)
	assert.Len(t, merged.Include, 1)
}

func TestMergeConfigs_InclusionsUseBaseIfProjectEmpty(t *testing.T) {
	base := &Config{Include: []string{"**/*.ember"}}
	project := &Config{Include: []string{}}

	merged := mergeConfigs(base, project)

	assert.Equal(t, base.Include, merged.Include)
}

func TestMergeConfigs_AssembliesUseBaseIfProjectEmpty(t *testing.T) {
	base := &Config{Assemblies: []AssemblyConfig{{Name: "stdlib", Root: "/stdlib"}}}
	project := &Config{}

	merged := mergeConfigs(base, project)

	assert.Equal(t, base.Assemblies, merged.Assemblies)
}

func TestMergeConfigs_ProjectSettingsTakePrecedence(t *testing.T) {
	base := &Config{Driver: Driver{ParallelFileWorkers: 2}}
	project := &Config{Driver: Driver{ParallelFileWorkers: 8}}

	merged := mergeConfigs(base, project)

	assert.Equal(t, 8, merged.Driver.ParallelFileWorkers)
}

func TestMergeConfigs_EmptyBaseExclusions(t *testing.T) {
	base := &Config{Exclude: []string{}}
	project := &Config{Exclude: []string{"**/dist/**"}}

	merged := mergeConfigs(base, project)

	assert.Equal(t, project.Exclude, merged.Exclude)
}

// Integration tests for config loading with home directory

func TestLoadWithRoot_MergesGlobalAndProjectConfigs(t *testing.T) {
	tmpHome := t.TempDir()
	tmpProject := t.TempDir()

	globalConfig := `
exclude {
    "**/node_modules/**"
    "**/vendor/**"
    "**/generated/**"
}

driver {
    parallel_file_workers 2
}
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpHome, ".ember.kdl"), []byte(globalConfig), 0644))

	projectConfig := `
project {
    root "."
    name "test-project"
}

exclude {
    "**/dist/**"
    "**/build/**"
}

driver {
    parallel_file_workers 8
}
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpProject, ".ember.kdl"), []byte(projectConfig), 0644))

	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	defer os.Setenv("HOME", originalHome)

	cfg, err := LoadWithRoot("", tmpProject)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Contains(t, cfg.Exclude, "**/node_modules/**", "should include global exclusion")
	assert.Contains(t, cfg.Exclude, "**/vendor/**", "should include global exclusion")
	assert.Contains(t, cfg.Exclude, "**/generated/**", "should include global exclusion")
	assert.Contains(t, cfg.Exclude, "**/dist/**", "should include project exclusion")
	assert.Contains(t, cfg.Exclude, "**/build/**", "should include project exclusion")

	assert.Equal(t, 8, cfg.Driver.ParallelFileWorkers, "project driver settings should override global")
	assert.Equal(t, "test-project", cfg.Project.Name)
}

func TestLoadWithRoot_ProjectConfigOnly(t *testing.T) {
	tmpProject := t.TempDir()

	projectConfig := `
project {
    root "."
    name "test-project"
}

exclude {
    "**/dist/**"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpProject, ".ember.kdl"), []byte(projectConfig), 0644))

	os.Setenv("HOME", "/nonexistent")
	defer os.Unsetenv("HOME")

	cfg, err := LoadWithRoot("", tmpProject)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Contains(t, cfg.Exclude, "**/dist/**")
	assert.Equal(t, "test-project", cfg.Project.Name)
}

func TestLoadWithRoot_GlobalConfigOnly(t *testing.T) {
	tmpHome := t.TempDir()
	tmpProject := t.TempDir()

	globalConfig := `
exclude {
    "**/node_modules/**"
    "**/generated/**"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpHome, ".ember.kdl"), []byte(globalConfig), 0644))

	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	defer os.Setenv("HOME", originalHome)

	cfg, err := LoadWithRoot("", tmpProject)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
	assert.Contains(t, cfg.Exclude, "**/generated/**")
}

func TestLoadWithRoot_DefaultConfigFallback(t *testing.T) {
	tmpProject := t.TempDir()
	os.Setenv("HOME", "/nonexistent")
	defer os.Unsetenv("HOME")

	cfg, err := LoadWithRoot("", tmpProject)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.NotEmpty(t, cfg.Exclude, "should have default exclusions")
	assert.Equal(t, []string{"**/*.ember"}, cfg.Include, "should default to *.ember sources")
}

func TestMergeConfigs_PreservesBaseExclusionsInTests(t *testing.T) {
	base := &Config{
		Exclude: []string{"**/generated/**", "**/testing/**", "**/testdata/**"},
	}
	project := &Config{
		Project: Project{Name: "test-project"},
		Exclude: []string{},
	}

	merged := mergeConfigs(base, project)

	assert.Contains(t, merged.Exclude, "**/generated/**")
	assert.Contains(t, merged.Exclude, "**/testing/**")
	assert.Contains(t, merged.Exclude, "**/testdata/**")
}
