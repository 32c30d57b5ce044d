package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"pagegen/chatlog"
	"pagegen/generator"
	"pagegen/schema"
)

const Version = "0.1.0"

type GenerateRequest struct {
	Message string `json:"message"` // The prompt or topic
}

type ElementRequest struct {
	Message string `json:"message"` // The topic
	Type    string `json:"type"`    // Heading, Paragraph, Code, BulletList or Image
}

// NewServer exposes the generation operations as MCP tools. Calls are recorded in log
// exactly like the HTTP routes do.
func NewServer(agent *generator.Agent, log *chatlog.Log, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"pagegen",
		Version,
		server.WithToolCapabilities(false),
	)
	h := &handlers{agent: agent, log: log, logger: logger}

	s.AddTool(mcp.NewTool("prompt",
		mcp.WithDescription("Send a free-text prompt to the model and return its answer"),
		mcp.WithString("message", mcp.Required(), mcp.Description("The prompt")),
	), mcp.NewTypedToolHandler(h.prompt))

	s.AddTool(mcp.NewTool("document",
		mcp.WithDescription("Generate a structured multi-page document on a topic"),
		mcp.WithString("message", mcp.Required(), mcp.Description("The document topic")),
	), mcp.NewTypedToolHandler(h.document))

	s.AddTool(mcp.NewTool("element",
		mcp.WithDescription("Generate one page element of the given type; images are rendered and ids are content-derived"),
		mcp.WithString("message", mcp.Required(), mcp.Description("The element topic")),
		mcp.WithString("type", mcp.Required(), mcp.Description("One of Heading, Paragraph, Code, BulletList, Image")),
	), mcp.NewTypedToolHandler(h.element))

	s.AddTool(mcp.NewTool("elements",
		mcp.WithDescription("Generate an ordered list of page elements on a topic"),
		mcp.WithString("message", mcp.Required(), mcp.Description("The page topic")),
	), mcp.NewTypedToolHandler(h.elements))

	return s
}

type handlers struct {
	agent  *generator.Agent
	log    *chatlog.Log
	logger *zap.Logger
}

func (h *handlers) prompt(ctx context.Context, _ mcp.CallToolRequest, args GenerateRequest) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.Message) == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	h.log.Append(chatlog.RoleUser, args.Message)
	answer, err := h.agent.Prompt(ctx, args.Message)
	if err != nil {
		return h.failed("prompt", err), nil
	}
	h.log.Append(chatlog.RoleAssistant, answer)
	return mcp.NewToolResultText(answer), nil
}

func (h *handlers) document(ctx context.Context, _ mcp.CallToolRequest, args GenerateRequest) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.Message) == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	h.log.Append(chatlog.RoleUser, args.Message)
	doc, err := h.agent.Document(ctx, args.Message)
	if err != nil {
		return h.failed("document", err), nil
	}
	h.log.Append(chatlog.RoleAssistant, doc)
	return jsonResult(doc), nil
}

func (h *handlers) element(ctx context.Context, _ mcp.CallToolRequest, args ElementRequest) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.Message) == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	variant, err := schema.ParseVariant(args.Type)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	h.log.Append(chatlog.RoleUser, args.Message)
	el, err := h.agent.Element(ctx, args.Message, variant)
	if err != nil {
		return h.failed("element", err), nil
	}
	h.log.Append(chatlog.RoleAssistant, el)
	return jsonResult(el), nil
}

func (h *handlers) elements(ctx context.Context, _ mcp.CallToolRequest, args GenerateRequest) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.Message) == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	h.log.Append(chatlog.RoleUser, args.Message)
	els, err := h.agent.Elements(ctx, args.Message)
	if err != nil {
		return h.failed("elements", err), nil
	}
	h.log.Append(chatlog.RoleAssistant, els)
	return jsonResult(els), nil
}

func (h *handlers) failed(tool string, err error) *mcp.CallToolResult {
	h.logger.Error("mcp tool failed", zap.String("tool", tool), zap.Error(err))
	return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", tool, err))
}

func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err))
	}
	return mcp.NewToolResultText(string(b))
}
