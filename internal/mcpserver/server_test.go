package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/emberc/internal/config"
)

func newTestServer(t *testing.T, root string) *Server {
	t.Helper()
	cfg := &config.Config{
		Project: config.Project{Root: root, Name: "test"},
		Include: []string{"**/*.ember"},
	}
	return New(cfg)
}

func TestHandleDiagnose_ReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir+"/ok.ember", "let x = 1;")
	writeFile(t, dir+"/bad.ember", "let x = ")

	s := newTestServer(t, dir)
	res, err := s.handleDiagnose(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(`{}`)},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	body := decodeText(t, res)
	files, _ := body["files"].([]any)
	assert.Len(t, files, 2)
	assert.Greater(t, body["error_count"], float64(0))
}

func TestHandleDiagnose_UnknownAssembly(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, dir)

	args, _ := json.Marshal(map[string]any{"assembly": "nope"})
	res, err := s.handleDiagnose(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: args},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleDumpTree_RequiresPath(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, dir)

	res, err := s.handleDumpTree(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(`{}`)},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleVersion(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, dir)

	res, err := s.handleVersion(context.Background(), &mcp.CallToolRequest{})
	require.NoError(t, err)
	body := decodeText(t, res)
	assert.NotEmpty(t, body["version"])
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func decodeText(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &body))
	return body
}
