package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/didactlabs/didact/engine"
	"github.com/didactlabs/didact/export"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// NewServer creates an MCP server exposing the course-building workflow.
// Every tool except course_start takes the session_id returned by
// course_start.
func NewServer(registry *Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "didact",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	session := func(handler func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error)) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireString("session_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			e, err := registry.Get(id)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			out, err := handler(ctx, e, req)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(out), nil
		}
	}

	s.AddTool(
		mcp.NewTool("course_start",
			mcp.WithDescription("Start a new course-building session and return its session_id."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, _ := registry.Create()
			return mcp.NewToolResultText(id), nil
		},
	)

	s.AddTool(
		mcp.NewTool("course_status",
			mcp.WithDescription("Report the session's current stage and gathered state."),
			mcp.WithString("session_id", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			return fmt.Sprintf("stage: %s\nanswers: %d\ncontext complete: %t",
				e.Stage(), e.Course().AnswerCount(), e.ContextComplete()), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_next_question",
			mcp.WithDescription("Get the next context-gathering question to ask the user."),
			mcp.WithString("session_id", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			q, done, err := e.NextQuestion(ctx)
			if err != nil {
				return "", err
			}
			if done {
				return "Context gathering complete.", nil
			}
			return q, nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_submit_answer",
			mcp.WithDescription("Submit the user's answer to the pending question."),
			mcp.WithString("session_id", mcp.Required()),
			mcp.WithString("answer", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			answer, err := req.RequireString("answer")
			if err != nil {
				return "", err
			}
			if err := e.SubmitAnswer(answer); err != nil {
				return "", err
			}
			return "answer recorded", nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_summarize",
			mcp.WithDescription("Generate the context summary once gathering is complete."),
			mcp.WithString("session_id", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			return e.Summarize(ctx)
		}),
	)

	s.AddTool(
		mcp.NewTool("course_add_source",
			mcp.WithDescription("Add extracted source material to the session."),
			mcp.WithString("session_id", mcp.Required()),
			mcp.WithString("text", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			text, err := req.RequireString("text")
			if err != nil {
				return "", err
			}
			e.Course().AppendSourceContent(text)
			return "source content added", nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_analyze_gaps",
			mcp.WithDescription("Compare the context summary against the source content and report content gaps."),
			mcp.WithString("session_id", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			return e.AnalyzeGaps(ctx)
		}),
	)

	s.AddTool(
		mcp.NewTool("course_choose_decision",
			mcp.WithDescription("Resolve the gap analysis: generate_filler, more_sources, or proceed."),
			mcp.WithString("session_id", mcp.Required()),
			mcp.WithString("decision", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			name, err := req.RequireString("decision")
			if err != nil {
				return "", err
			}
			d, err := parseDecision(name)
			if err != nil {
				return "", err
			}
			if err := e.ChooseDecision(ctx, d); err != nil {
				return "", err
			}
			return "decision applied: " + d.String(), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_skip_analysis",
			mcp.WithDescription("Skip content analysis when no source material exists."),
			mcp.WithString("session_id", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			if err := e.SkipAnalysis(); err != nil {
				return "", err
			}
			return "analysis skipped", nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_advance",
			mcp.WithDescription("Advance the session to the next stage if its guard is satisfied."),
			mcp.WithString("session_id", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			if err := e.Advance(); err != nil {
				return "", err
			}
			return "stage: " + e.Stage().String(), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_generate_outline",
			mcp.WithDescription("Generate the two-column course outline."),
			mcp.WithString("session_id", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			_, err := e.GenerateOutline(ctx)
			if err != nil && !engine.IsParseError(err) {
				return "", err
			}
			if engine.IsParseError(err) {
				return "The outline could not be parsed as a table. Raw response:\n" + e.Course().OutlineRaw(), nil
			}
			return e.Course().OutlineRaw(), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_generate_storyboard",
			mcp.WithDescription("Generate the three-column storyboard with knowledge checks."),
			mcp.WithString("session_id", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			_, err := e.GenerateStoryboard(ctx)
			if err != nil && !engine.IsParseError(err) {
				return "", err
			}
			if engine.IsParseError(err) {
				return "The storyboard could not be parsed as a table. Raw response:\n" + e.Course().StoryboardRaw(), nil
			}
			return e.Course().StoryboardRaw(), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_create_assessment",
			mcp.WithDescription("Generate the final assessment, or skip it when the context does not request one."),
			mcp.WithString("session_id", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			text, err := e.CreateAssessment(ctx)
			if err != nil {
				return "", err
			}
			if text == "" {
				return "No graded assessment was requested; the session is done.", nil
			}
			return text, nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_skip_assessment",
			mcp.WithDescription("Explicitly opt out of the final assessment and finish the session."),
			mcp.WithString("session_id", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			if err := e.SkipAssessment(); err != nil {
				return "", err
			}
			return "assessment skipped; session done", nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_modify",
			mcp.WithDescription("Reset the session to context gathering, clearing all answers and artifacts."),
			mcp.WithString("session_id", mcp.Required()),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			e.Modify()
			return "session reset to context gathering", nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_export",
			mcp.WithDescription("Export the session artifacts as a markdown document."),
			mcp.WithString("session_id", mcp.Required()),
			mcp.WithString("title"),
		),
		session(func(ctx context.Context, e *engine.Engine, req mcp.CallToolRequest) (string, error) {
			title := req.GetString("title", "")
			return export.Markdown(e.Course(), title), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("course_end",
			mcp.WithDescription("End a session and discard its state."),
			mcp.WithString("session_id", mcp.Required()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireString("session_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			registry.Delete(id)
			return mcp.NewToolResultText("session ended"), nil
		},
	)

	return s
}

func parseDecision(name string) (engine.Decision, error) {
	switch name {
	case "generate_filler":
		return engine.GenerateFiller, nil
	case "more_sources":
		return engine.MoreSources, nil
	case "proceed":
		return engine.Proceed, nil
	default:
		return engine.DecisionUnset, fmt.Errorf("mcp: unknown decision %q", name)
	}
}

// ServeStdio starts the MCP server over stdin/stdout, the standard
// transport for servers invoked as subprocesses.
func ServeStdio(registry *Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
