package mcp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

func echo(_ context.Context, args map[string]any) (string, error) {
	v, _ := args["text"].(string)
	return v, nil
}

func serve(t *testing.T, s *Server, in string) []gjson.Result {
	t.Helper()
	var out bytes.Buffer
	s.reader = strings.NewReader(in)
	s.writer = &out
	require.NoError(t, s.Start(context.Background()))

	var lines []gjson.Result
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		require.True(t, gjson.Valid(line), line)
		lines = append(lines, gjson.Parse(line))
	}
	return lines
}

func TestServer_Initialize(t *testing.T) {
	s := NewServer(Config{Name: "fuzzdomain", Version: "v1.2.3"}, zap.NewNop())
	resp := serve(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`+"\n")

	require.Len(t, resp, 1)
	assert.Equal(t, int64(1), resp[0].Get("id").Int())
	assert.Equal(t, ProtocolVersion, resp[0].Get("result.protocolVersion").String())
	assert.Equal(t, "fuzzdomain", resp[0].Get("result.serverInfo.name").String())
	assert.Equal(t, "v1.2.3", resp[0].Get("result.serverInfo.version").String())
	assert.True(t, resp[0].Get("result.capabilities.tools").Exists())
}

func TestServer_ToolsListSorted(t *testing.T) {
	s := NewServer(Config{Name: "t"}, nil)
	s.RegisterTool("zeta", "last", echo, nil)
	s.RegisterTool("alpha", "first", echo, objectSchema(map[string]any{"text": map[string]any{"type": "string"}}, "text"))

	resp := serve(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`+"\n")
	require.Len(t, resp, 1)

	tools := resp[0].Get("result.tools").Array()
	require.Len(t, tools, 2)
	assert.Equal(t, "alpha", tools[0].Get("name").String())
	assert.Equal(t, "text", tools[0].Get("inputSchema.required.0").String())
	assert.Equal(t, "zeta", tools[1].Get("name").String())
	assert.Equal(t, "object", tools[1].Get("inputSchema.type").String())
}

func TestServer_ToolsCall(t *testing.T) {
	s := NewServer(Config{Name: "t"}, nil)
	s.RegisterTool("echo", "echo", echo, nil)
	s.RegisterTool("fail", "fail", func(context.Context, map[string]any) (string, error) {
		return "", errors.New("boom")
	}, nil)

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{"text":"hi"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"fail"}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"missing"}}`,
	}, "\n")
	resp := serve(t, s, in)
	require.Len(t, resp, 3)

	assert.Equal(t, "hi", resp[0].Get("result.content.0.text").String())
	assert.False(t, resp[0].Get("result.isError").Bool())

	assert.Equal(t, "Error: boom", resp[1].Get("result.content.0.text").String())
	assert.True(t, resp[1].Get("result.isError").Bool())

	assert.Equal(t, int64(InvalidParams), resp[2].Get("error.code").Int())
	assert.Equal(t, "Tool not found: missing", resp[2].Get("error.message").String())
}

func TestServer_ProtocolErrors(t *testing.T) {
	s := NewServer(Config{Name: "t"}, nil)

	in := strings.Join([]string{
		`not json`,
		``,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":7,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":8,"method":"ping"}`,
	}, "\n")
	resp := serve(t, s, in)
	require.Len(t, resp, 3)

	assert.Equal(t, int64(ParseError), resp[0].Get("error.code").Int())
	assert.Equal(t, int64(MethodNotFound), resp[1].Get("error.code").Int())
	assert.Equal(t, int64(7), resp[1].Get("id").Int())
	assert.Equal(t, int64(8), resp[2].Get("id").Int())
	assert.False(t, resp[2].Get("error").Exists())
}

func TestServer_StartCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := NewServerWithIO(Config{Name: "t"}, nil, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	err := s.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestServer_HandlerPanicIsToolError(t *testing.T) {
	s := NewServer(Config{Name: "t"}, nil)
	s.RegisterTool("crash", "crash", func(context.Context, map[string]any) (string, error) {
		panic("index out of range")
	}, nil)
	s.RegisterTool("echo", "echo", echo, nil)

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"crash"}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"text":"still up"}}}`,
	}, "\n")
	resp := serve(t, s, in)
	require.Len(t, resp, 2)

	assert.True(t, resp[0].Get("result.isError").Bool())
	assert.Contains(t, resp[0].Get("result.content.0.text").String(), "tool crash panicked")
	assert.Equal(t, "still up", resp[1].Get("result.content.0.text").String())
}

func TestServer_ExecuteTool(t *testing.T) {
	s := NewServer(Config{Name: "t"}, nil)
	s.RegisterTool("echo", "echo", echo, nil)

	got, err := s.ExecuteTool(context.Background(), "echo", map[string]any{"text": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	got, err = s.ExecuteTool(context.Background(), "echo", nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = s.ExecuteTool(context.Background(), "nope", nil)
	assert.EqualError(t, err, "Tool not found: nope")
}
