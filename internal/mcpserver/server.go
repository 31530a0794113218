// Package mcpserver exposes the incremental driver's diagnostics over the
// Model Context Protocol, so an AI assistant editing Ember source can ask
// "does this still parse?" without shelling out to the CLI. Grounded on
// the teacher's internal/mcp+internal/server pairing (a library core
// wrapped by a thin stdio-transport protocol server), but the tool
// surface itself is new: the teacher's tools are code search and symbol
// intelligence, entirely outside this domain.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/emberlang/emberc/internal/config"
	"github.com/emberlang/emberc/internal/driver"
	"github.com/emberlang/emberc/internal/source"
	"github.com/emberlang/emberc/internal/tree"
	"github.com/emberlang/emberc/internal/version"
)

// Server wraps a driver.Driver with an MCP tool surface.
type Server struct {
	mcp *mcp.Server
	drv *driver.Driver
	cfg *config.Config
}

// New builds a Server over cfg's assemblies, driven against the real
// filesystem.
func New(cfg *config.Config) *Server {
	assemblies := cfg.ToAssemblyInfos()
	drv := driver.New(source.NewOSFileSystem(), assemblies)

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "emberc-mcp-server",
			Version: version.Version,
		}, nil),
		drv: drv,
		cfg: cfg,
	}
	s.registerTools()
	return s
}

// Run serves over stdio until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "diagnose",
		Description: "Run the incremental driver and report parse errors across all tracked assemblies, or one named assembly.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"assembly": {
					Type:        "string",
					Description: "Name of a single assembly to diagnose. Omit to diagnose every configured assembly.",
				},
			},
		},
	}, s.handleDiagnose)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "dump_tree",
		Description: "Parse one file and return its abstract syntax tree as indented text.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Absolute path of the file to dump, previously reported by diagnose.",
				},
			},
			Required: []string{"path"},
		},
	}, s.handleDumpTree)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "version",
		Description: "Report the compiler driver's build version.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleVersion)
}

type diagnoseParams struct {
	Assembly string `json:"assembly"`
}

type fileDiagnostic struct {
	Path     string   `json:"path"`
	Assembly string   `json:"assembly"`
	Errors   []string `json:"errors,omitempty"`
}

func (s *Server) handleDiagnose(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params diagnoseParams
	if req.Params != nil && len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return errorResult(fmt.Errorf("invalid parameters: %w", err))
		}
	}

	var result *driver.RunResult
	var err error
	if params.Assembly != "" {
		asm, ok := s.findAssembly(params.Assembly)
		if !ok {
			return errorResult(fmt.Errorf("unknown assembly %q", params.Assembly))
		}
		result, err = s.drv.ScheduleAssembly(ctx, asm)
	} else {
		result, err = s.drv.Run(ctx)
	}
	if err != nil {
		return errorResult(err)
	}

	diagnostics := make([]fileDiagnostic, 0, len(result.All))
	errorCount := 0
	for _, fi := range result.All {
		d := fileDiagnostic{Path: fi.Path, Assembly: fi.Assembly}
		if fi.ParseResult != nil {
			for _, e := range fi.ParseResult.Errors {
				d.Errors = append(d.Errors, e.Message)
				errorCount++
			}
		}
		diagnostics = append(diagnostics, d)
	}
	sort.Slice(diagnostics, func(i, j int) bool { return diagnostics[i].Path < diagnostics[j].Path })

	return jsonResult(map[string]any{
		"files":       diagnostics,
		"error_count": errorCount,
	})
}

type dumpTreeParams struct {
	Path string `json:"path"`
}

func (s *Server) handleDumpTree(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params dumpTreeParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err))
	}
	if params.Path == "" {
		return errorResult(fmt.Errorf("path is required"))
	}

	result, err := s.drv.Run(ctx)
	if err != nil {
		return errorResult(err)
	}

	for _, fi := range result.All {
		if fi.Path != params.Path || fi.ParseResult == nil {
			continue
		}
		abstract := tree.BuildAbstract(fi.ParseResult)
		return jsonResult(map[string]any{
			"path": fi.Path,
			"tree": tree.DumpAbstract(abstract),
		})
	}
	return errorResult(fmt.Errorf("file %q not found among tracked sources", params.Path))
}

func (s *Server) handleVersion(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"version": version.FullInfo(),
	})
}

func (s *Server) findAssembly(name string) (driver.AssemblyInfo, bool) {
	for _, a := range s.cfg.ToAssemblyInfos() {
		if a.Name == name {
			return a, true
		}
	}
	return driver.AssemblyInfo{}, false
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}

func errorResult(err error) (*mcp.CallToolResult, error) {
	content, _ := json.Marshal(map[string]any{"error": err.Error()})
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
		IsError: true,
	}, nil
}
