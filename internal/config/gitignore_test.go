package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGitignoreParser_ExtractPatternModifiers tests that negation, directory,
// and absolute-path modifiers are stripped from the bare pattern.
func TestGitignoreParser_ExtractPatternModifiers(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantBare  string
		negate    bool
		directory bool
		absolute  bool
	}{
		{"plain", "*.log", "*.log", false, false, false},
		{"negated", "!important.log", "important.log", true, false, false},
		{"directory", "node_modules/", "node_modules", false, true, false},
		{"absolute", "/build", "build", false, false, true},
		{"absolute directory", "/dist/", "dist", false, true, true},
		{"negated directory", "!node_modules/", "node_modules", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewGitignoreParser()
			pattern := parser.parsePattern(tt.line)
			assert.Equal(t, tt.wantBare, pattern.Pattern)
			assert.Equal(t, tt.negate, pattern.Negate)
			assert.Equal(t, tt.directory, pattern.Directory)
			assert.Equal(t, tt.absolute, pattern.Absolute)
		})
	}
}

// TestGitignoreParser_ShouldSkipLine tests that blank lines and comments are
// skipped during scanning.
func TestGitignoreParser_ShouldSkipLine(t *testing.T) {
	parser := NewGitignoreParser()
	assert.True(t, parser.shouldSkipLine(""))
	assert.True(t, parser.shouldSkipLine("# a comment"))
	assert.False(t, parser.shouldSkipLine("*.log"))
	assert.False(t, parser.shouldSkipLine("  #not-a-comment")) // caller trims before calling
}

// TestGitignoreParser_ConvertToExclusionGlob tests the bare-pattern to
// doublestar-exclusion-glob conversion used to populate Config.Exclude.
func TestGitignoreParser_ConvertToExclusionGlob(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantGlob string
	}{
		{"plain file", "README.md", "**/README.md"},
		{"extension wildcard", "*.log", "**/*.log"},
		{"directory", "node_modules/", "**/node_modules/**"},
		{"absolute file", "/build", "build"},
		{"absolute directory", "/dist/", "dist/**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewGitignoreParser()
			pattern := parser.parsePattern(tt.line)
			assert.Equal(t, tt.wantGlob, parser.convertToExclusionGlob(pattern))
		})
	}
}

// TestGitignoreParser_GetExclusionPatterns tests conversion of a whole parsed
// pattern set to exclusion globs, including that negations are dropped.
func TestGitignoreParser_GetExclusionPatterns(t *testing.T) {
	parser := NewGitignoreParser()

	for _, pattern := range []string{
		"node_modules/",
		"*.log",
		"dist/",
		".DS_Store",
		"!important.log",
	} {
		parser.AddPattern(pattern)
	}

	exclusions := parser.GetExclusionPatterns()

	for _, exclusion := range exclusions {
		assert.False(t, strings.HasPrefix(exclusion, "!"), "exclusion should not include negation: %s", exclusion)
	}

	expected := []string{
		"**/node_modules/**",
		"**/*.log",
		"**/dist/**",
		"**/.DS_Store",
	}
	assert.ElementsMatch(t, expected, exclusions)
}

// TestDeduplicatePatterns tests that duplicate exclusion globs collapse while
// preserving first-seen order.
func TestDeduplicatePatterns(t *testing.T) {
	in := []string{"**/*.log", "**/dist/**", "**/*.log", "**/node_modules/**", "**/dist/**"}
	assert.Equal(t, []string{"**/*.log", "**/dist/**", "**/node_modules/**"}, DeduplicatePatterns(in))
}

// TestGitignoreParser_LoadGitignore tests reading a .gitignore file from disk,
// including comments and blank lines being skipped.
func TestGitignoreParser_LoadGitignore(t *testing.T) {
	dir := t.TempDir()
	content := `# Comments should be ignored

node_modules/
*.log
!important.log
build/

# Test files
coverage/
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644))

	parser := NewGitignoreParser()
	require.NoError(t, parser.LoadGitignore(dir))

	exclusions := parser.GetExclusionPatterns()
	assert.ElementsMatch(t, []string{
		"**/node_modules/**",
		"**/*.log",
		"**/build/**",
		"**/coverage/**",
	}, exclusions)
}

// TestGitignoreParser_LoadGitignore_MissingFile tests that a missing
// .gitignore is not an error — most source roots don't have one.
func TestGitignoreParser_LoadGitignore_MissingFile(t *testing.T) {
	parser := NewGitignoreParser()
	assert.NoError(t, parser.LoadGitignore(t.TempDir()))
	assert.Empty(t, parser.GetExclusionPatterns())
}
