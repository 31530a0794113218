package config

import (
	"os"

	"github.com/emberlang/emberc/internal/driver"
)

// Config is the project-level configuration loaded from a home-directory
// base file merged with a project-local file, per spec §6's "the driver
// consumes a list of AssemblyInfo" — this is where that list, plus the
// driver/watch knobs the CLI exposes, actually comes from.
type Config struct {
	Version    int
	Project    Project
	Assemblies []AssemblyConfig
	Driver     Driver
	Watch      Watch

	// Include applies to any assembly that declares no include globs of
	// its own; Exclude is prepended to every assembly's own excludes. A
	// single-assembly project can omit the assemblies block entirely and
	// just list patterns at the top level.
	Include          []string
	Exclude          []string
	RespectGitignore bool
}

type Project struct {
	Root string
	Name string
}

// AssemblyConfig is the on-disk shape of a driver.AssemblyInfo.
type AssemblyConfig struct {
	Name    string
	Root    string
	Include []string
	Exclude []string
}

// Driver holds the driver settings read from the config file. They are
// parsed, defaulted and validated, but driver.New does not take them:
// the driver starts one goroutine per changed file and applies no
// indexing timeout.
type Driver struct {
	ParallelFileWorkers int // 0 = auto-detect (NumCPU)
	IndexingTimeoutSec  int
}

// Watch holds the watch settings read from the config file. They are
// parsed and defaulted, but internal/driver.Watch does not read them: it
// re-runs on every relevant event, with no debounce, whenever it is
// started.
type Watch struct {
	Enabled    bool
	DebounceMs int
}

// Load reads configuration rooted at path, per LoadWithRoot with no
// explicit root override.
func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

// LoadWithRoot merges a home-directory base config (~/.ember.kdl, if
// present) with a project config found under rootDir (or the current
// directory), project settings taking precedence but exclusions from
// both accumulating, mirroring the teacher's global/project merge.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	var projectConfig *Config
	if kdlCfg, err := LoadKDL(searchDir); err != nil {
		return nil, err
	} else if kdlCfg != nil {
		projectConfig = kdlCfg
	}

	switch {
	case baseConfig != nil && projectConfig != nil:
		return mergeConfigs(baseConfig, projectConfig), nil
	case projectConfig != nil:
		return projectConfig, nil
	case baseConfig != nil:
		baseConfig.Project.Root = searchDir
		return baseConfig, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return defaultConfig(cwd), nil
}

func defaultConfig(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{Root: root},
		Driver: Driver{
			ParallelFileWorkers: 0,
			IndexingTimeoutSec:  120,
		},
		Watch: Watch{
			Enabled:    true,
			DebounceMs: 300,
		},
		Include:          []string{"**/*.ember"},
		Exclude:          defaultExcludes(),
		RespectGitignore: true,
	}
}

func defaultExcludes() []string {
	return []string{
		"**/.git/**",
		"**/.*/**",
		"**/bin/**",
		"**/obj/**",
		"**/node_modules/**",
	}
}

// mergeConfigs combines base (e.g. the home-directory config) with
// project, with project values winning except that Exclude patterns from
// both are unioned rather than overwritten — a global exclusion (say, a
// vendored-library path every project on the machine shares) shouldn't
// have to be repeated per project.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		seen := make(map[string]bool, len(base.Exclude)+len(project.Exclude))
		merged.Exclude = make([]string, 0, len(base.Exclude)+len(project.Exclude))
		for _, p := range base.Exclude {
			if !seen[p] {
				seen[p] = true
				merged.Exclude = append(merged.Exclude, p)
			}
		}
		for _, p := range project.Exclude {
			if !seen[p] {
				seen[p] = true
				merged.Exclude = append(merged.Exclude, p)
			}
		}
	}

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}
	if len(project.Assemblies) == 0 && len(base.Assemblies) > 0 {
		merged.Assemblies = base.Assemblies
	}

	return &merged
}

// ToAssemblyInfos converts the configured assemblies into the
// driver.AssemblyInfo values Driver.New expects, falling back to a
// single assembly named after the project when none are declared
// explicitly (the common single-module project layout).
func (c *Config) ToAssemblyInfos() []driver.AssemblyInfo {
	if len(c.Assemblies) == 0 {
		name := c.Project.Name
		if name == "" {
			name = "main"
		}
		return []driver.AssemblyInfo{{
			Name:         name,
			RootPath:     c.Project.Root,
			IncludeGlobs: orDefault(c.Include, []string{"**/*.ember"}),
			ExcludeGlobs: c.Exclude,
		}}
	}

	out := make([]driver.AssemblyInfo, 0, len(c.Assemblies))
	for _, a := range c.Assemblies {
		root := a.Root
		if root == "" {
			root = c.Project.Root
		}
		out = append(out, driver.AssemblyInfo{
			Name:         a.Name,
			RootPath:     root,
			IncludeGlobs: orDefault(a.Include, c.Include),
			ExcludeGlobs: append(append([]string{}, c.Exclude...), a.Exclude...),
		})
	}
	return out
}

func orDefault(v, fallback []string) []string {
	if len(v) > 0 {
		return v
	}
	return fallback
}

// EnrichExclusionsWithGitignore folds .gitignore patterns found under the
// project root into Exclude, when RespectGitignore is set.
func (c *Config) EnrichExclusionsWithGitignore() error {
	if !c.RespectGitignore || c.Project.Root == "" {
		return nil
	}
	parser := NewGitignoreParser()
	if err := parser.LoadGitignore(c.Project.Root); err != nil {
		return err
	}
	c.Exclude = DeduplicatePatterns(append(c.Exclude, parser.GetExclusionPatterns()...))
	return nil
}
