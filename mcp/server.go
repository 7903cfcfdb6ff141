// Package mcp serves the fuzzdomain operations as MCP (Model Context
// Protocol) tools over newline-delimited JSON-RPC on stdio.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ToolHandler processes a tool invocation and returns its text result.
type ToolHandler func(ctx context.Context, args map[string]any) (string, error)

// Tool is a registered tool.
type Tool struct {
	Name        string
	Description string
	Handler     ToolHandler
	InputSchema map[string]any
}

// Config identifies the server to clients.
type Config struct {
	Name    string
	Version string
}

// Server implements the tools subset of MCP.
type Server struct {
	config Config
	log    *zap.Logger

	mu    sync.RWMutex
	tools map[string]*Tool

	reader io.Reader
	writer io.Writer
}

// NewServer creates a server reading from stdin and writing to stdout.
func NewServer(config Config, log *zap.Logger) *Server {
	return NewServerWithIO(config, log, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over the given streams.
func NewServerWithIO(config Config, log *zap.Logger, r io.Reader, w io.Writer) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		config: config,
		log:    log.Named("mcp"),
		tools:  make(map[string]*Tool),
		reader: r,
		writer: w,
	}
}

// RegisterTool adds a tool. A nil schema advertises an empty object.
func (s *Server) RegisterTool(name, description string, handler ToolHandler, inputSchema map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools[name] = &Tool{
		Name:        name,
		Description: description,
		Handler:     handler,
		InputSchema: inputSchema,
	}
	s.log.Debug("registered tool", zap.String("tool", name))
}

// Tools returns the registered tools sorted by name.
func (s *Server) Tools() []ToolInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]ToolInfo, 0, len(s.tools))
	for _, tool := range s.tools {
		schema := tool.InputSchema
		if schema == nil {
			schema = objectSchema(nil)
		}
		tools = append(tools, ToolInfo{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: schema,
		})
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Start serves requests until the input closes or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("serving", zap.String("name", s.config.Name), zap.String("version", s.config.Version))

	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		response := s.handleMessage(ctx, line)
		if response == nil {
			continue
		}
		out, err := json.Marshal(response)
		if err != nil {
			s.log.Error("marshal response", zap.Error(err))
			continue
		}
		if _, err := fmt.Fprintln(s.writer, string(out)); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}

// handleMessage returns nil for notifications.
func (s *Server) handleMessage(ctx context.Context, data []byte) *Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse(nil, ParseError, "Parse error")
	}

	s.log.Debug("request", zap.String("method", req.Method), zap.Any("id", req.ID))

	switch req.Method {
	case "initialize":
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: initializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      serverInfo{Name: s.config.Name, Version: s.config.Version},
			Capabilities:    capabilities{Tools: &struct{}{}},
		}}
	case "tools/list":
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: toolsListResult{Tools: s.Tools()}}
	case "tools/call":
		return s.handleToolsCall(ctx, &req)
	case "ping":
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: struct{}{}}
	}

	if req.ID == nil {
		// notifications/initialized and friends
		return nil
	}
	return errorResponse(req.ID, MethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params toolCallParams
	if req.Params != nil {
		raw, err := json.Marshal(req.Params)
		if err != nil {
			return errorResponse(req.ID, InvalidParams, "Invalid params")
		}
		if err := json.Unmarshal(raw, &params); err != nil {
			return errorResponse(req.ID, InvalidParams, "Invalid params structure")
		}
	}

	text, err := s.ExecuteTool(ctx, params.Name, params.Arguments)
	if err != nil {
		if _, ok := err.(unknownToolError); ok {
			return errorResponse(req.ID, InvalidParams, err.Error())
		}
		s.log.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: textResult("Error: "+err.Error(), true)}
	}
	return &Response{JSONRPC: "2.0", ID: req.ID, Result: textResult(text, false)}
}

type unknownToolError string

func (e unknownToolError) Error() string { return "Tool not found: " + string(e) }

// ExecuteTool runs a tool in-process. A panicking handler is reported as an
// error and does not stop the server.
func (s *Server) ExecuteTool(ctx context.Context, name string, args map[string]any) (text string, err error) {
	s.mu.RLock()
	tool, ok := s.tools[name]
	s.mu.RUnlock()

	if !ok {
		return "", unknownToolError(name)
	}
	if args == nil {
		args = map[string]any{}
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("tool panicked", zap.String("tool", name), zap.Any("panic", r))
			text, err = "", fmt.Errorf("tool %s panicked: %v", name, r)
		}
	}()
	return tool.Handler(ctx, args)
}

func errorResponse(id any, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
}
