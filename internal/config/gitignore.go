package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// GitignoreParser parses .gitignore files into patterns usable as
// doublestar exclusion globs for a source set's Config.Exclude (spec
// §4.H). It does not itself evaluate paths against those patterns — that
// job belongs to the doublestar matching internal/source.Scan already
// does for Include/Exclude, so a gitignore line only needs to survive
// the trip to an equivalent doublestar glob, not a second independent
// path-matching engine.
type GitignoreParser struct {
	patterns []GitignorePattern
}

// GitignorePattern is one parsed line of a .gitignore file, stripped of
// its modifier syntax (negation, trailing "/", leading "/").
type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool
}

// NewGitignoreParser creates an empty parser.
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{patterns: make([]GitignorePattern, 0)}
}

// LoadGitignore reads rootPath/.gitignore, if present, appending its
// patterns. A missing file is not an error — most assemblies don't have
// one.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()
	return gp.scanAndParsePatterns(file)
}

func (gp *GitignoreParser) scanAndParsePatterns(file *os.File) error {
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if gp.shouldSkipLine(line) {
			continue
		}
		gp.patterns = append(gp.patterns, gp.parsePattern(line))
	}
	return scanner.Err()
}

func (gp *GitignoreParser) shouldSkipLine(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}

// AddPattern parses and appends a single pattern line directly, without
// going through a file (used by tests and by embedded default-exclusion
// lists).
func (gp *GitignoreParser) AddPattern(line string) {
	gp.patterns = append(gp.patterns, gp.parsePattern(line))
}

// parsePattern strips a gitignore line's negation/directory/absolute
// modifiers, leaving the bare pattern convertToExclusionGlob turns into
// a doublestar glob.
func (gp *GitignoreParser) parsePattern(line string) GitignorePattern {
	pattern := GitignorePattern{}
	line = gp.extractPatternModifiers(&pattern, line)
	pattern.Pattern = line
	return pattern
}

// extractPatternModifiers extracts and processes pattern modifiers (!, /, leading /)
// Returns the cleaned pattern string
func (gp *GitignoreParser) extractPatternModifiers(pattern *GitignorePattern, line string) string {
	if strings.HasPrefix(line, "!") {
		pattern.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		pattern.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		pattern.Absolute = true
		line = line[1:]
	}
	return line
}

// GetExclusionPatterns returns gitignore patterns as doublestar exclusion
// globs for the source set (spec §4.H's Include/Exclude globs). Negation
// patterns are skipped: Config.Exclude has no counterpart concept of
// "un-excluding" a previously excluded glob, so a `!pattern` line would
// need to become an Include entry layered over the rest of Exclude,
// which is a source-set authoring decision, not something a gitignore
// importer should silently invent.
func (gp *GitignoreParser) GetExclusionPatterns() []string {
	var exclusions []string
	for _, pattern := range gp.patterns {
		if pattern.Negate {
			continue
		}
		if converted := gp.convertToExclusionGlob(pattern); converted != "" {
			exclusions = append(exclusions, converted)
		}
	}
	return exclusions
}

// DeduplicatePatterns removes duplicate exclusion patterns, preserving
// first-seen order.
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// convertToExclusionGlob converts a gitignore pattern to a doublestar
// exclusion glob.
func (gp *GitignoreParser) convertToExclusionGlob(pattern GitignorePattern) string {
	p := pattern.Pattern

	if pattern.Directory {
		if pattern.Absolute {
			return p + "/**"
		}
		return "**/" + p + "/**"
	}

	if pattern.Absolute {
		return p
	}
	return "**/" + p
}
