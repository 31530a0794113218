package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/urfave/cli/v2"

	"github.com/emberlang/emberc/internal/cerrors"
	"github.com/emberlang/emberc/internal/config"
	"github.com/emberlang/emberc/internal/driver"
	"github.com/emberlang/emberc/internal/psi"
	"github.com/emberlang/emberc/internal/source"
	"github.com/emberlang/emberc/internal/tree"
)

// buildDriver constructs a driver.Driver over cfg's assemblies against
// the real filesystem.
func buildDriver(cfg *config.Config) *driver.Driver {
	return driver.New(source.NewOSFileSystem(), cfg.ToAssemblyInfos())
}

// runDriver executes one driver pass, scoped to a single named assembly
// if assemblyName is non-empty.
func runDriver(ctx context.Context, cfg *config.Config, drv *driver.Driver, assemblyName string) (*driver.RunResult, error) {
	if assemblyName == "" {
		return drv.Run(ctx)
	}
	for _, asm := range cfg.ToAssemblyInfos() {
		if asm.Name == assemblyName {
			return drv.ScheduleAssembly(ctx, asm)
		}
	}
	return nil, fmt.Errorf("unknown assembly %q", assemblyName)
}

func parseCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	drv := buildDriver(cfg)
	result, err := runDriver(context.Background(), cfg, drv, c.String("assembly"))
	if err != nil {
		return err
	}

	errCount := 0
	for _, fi := range result.All {
		if fi.ParseResult != nil {
			errCount += len(fi.ParseResult.Errors)
		}
	}

	fmt.Printf("%d files tracked, %d (re)parsed, %d error(s)\n", len(result.All), len(result.Changed), errCount)
	return nil
}

func checkCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	drv := buildDriver(cfg)
	result, err := runDriver(context.Background(), cfg, drv, c.String("assembly"))
	if err != nil {
		return err
	}

	sort.Slice(result.All, func(i, j int) bool { return result.All[i].Path < result.All[j].Path })

	errCount := 0
	for _, fi := range result.All {
		if fi.ParseResult == nil || len(fi.ParseResult.Errors) == 0 {
			continue
		}
		src, readErr := os.ReadFile(fi.Path)
		if readErr != nil {
			return fmt.Errorf("failed to re-read %s for diagnostics: %w", fi.Path, readErr)
		}
		for _, e := range fi.ParseResult.Errors {
			errCount++
			line := tree.FormatError(src, e)
			if suggestion := suggestForError(src, e); suggestion != "" {
				line += fmt.Sprintf(" (did you mean `%s`?)", suggestion)
			}
			fmt.Printf("%s: %s\n", fi.Path, line)
		}
	}

	if errCount > 0 {
		return cli.Exit(fmt.Sprintf("%d error(s)", errCount), 1)
	}
	fmt.Printf("%d files, no errors\n", len(result.All))
	return nil
}

// suggestForError offers a "did you mean `<keyword>`?" nudge when the
// erroring span is a single bare identifier close to a reserved word.
// The parser's own diagnostics carry a message and a byte range but no
// lexeme, so the candidate word is re-sliced from source here rather
// than threaded through the parser.
func suggestForError(src []byte, e psi.ParseError) string {
	if e.SourceStart < 0 || int(e.SourceEnd) > len(src) || e.SourceStart >= e.SourceEnd {
		return ""
	}
	word := strings.TrimSpace(string(src[e.SourceStart:e.SourceEnd]))
	if !isBareIdentifier(word) {
		return ""
	}
	return cerrors.SuggestKeyword(word, 2)
}

func isBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func dumpCommand(c *cli.Context) error {
	target := c.Args().First()
	if target == "" {
		return cli.Exit("usage: emberc dump <path>", 1)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	drv := buildDriver(cfg)
	result, err := drv.Run(context.Background())
	if err != nil {
		return err
	}

	for _, fi := range result.All {
		if fi.Path != absTarget {
			continue
		}
		if fi.ParseResult == nil {
			return fmt.Errorf("%s could not be parsed", fi.Path)
		}
		abstract := tree.BuildAbstract(fi.ParseResult)
		fmt.Print(tree.DumpAbstract(abstract))
		return nil
	}
	return fmt.Errorf("%s is not covered by any configured assembly", absTarget)
}
