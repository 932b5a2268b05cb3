package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	mcp_golang "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/http"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/FlameInTheDark/alfred/internal/assistant"
	"github.com/FlameInTheDark/alfred/internal/config"
	"github.com/FlameInTheDark/alfred/internal/feature"
	"github.com/FlameInTheDark/alfred/internal/router"
)

type RouteArguments struct {
	Message string `json:"message" jsonschema:"required,description=The user message to classify"`
}

type AskArguments struct {
	Message string `json:"message" jsonschema:"required,description=The user message for Alfred"`
	UserID  string `json:"user_id,omitempty" jsonschema:"description=Conversation owner used for history. Defaults to mcp"`
}

func main() {
	cmd := &cli.Command{
		Name:        "alfred-mcp",
		Description: "Alfred features over MCP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"cfg"},
				Usage:   "config file path",
				Value:   "./config.yaml",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var cfg config.Config
			if _, err := os.Stat(c.String("config")); err == nil {
				cfg = config.NewConfig(c.String("config"))
			} else {
				cfg = config.FromEnv()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			asst, err := assistant.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer asst.Close()
			return serve(ctx, cfg.MCP, asst)
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("Exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg config.MCP, asst *assistant.Assistant) error {
	transport := http.NewHTTPTransport(cfg.Path)
	transport.WithAddr(cfg.Addr)

	server := mcp_golang.NewServer(transport, mcp_golang.WithName("Alfred"), mcp_golang.WithVersion("1.0.0"))
	err := server.RegisterTool("route", "Show which Alfred feature would handle a message and why.", func(arguments RouteArguments) (*mcp_golang.ToolResponse, error) {
		slog.Info("route requested", slog.String("message", arguments.Message))
		d := asst.Router.Route(ctx, strings.TrimSpace(arguments.Message))
		return mcp_golang.NewToolResponse(mcp_golang.NewTextContent(describe(d))), nil
	})
	if err != nil {
		return err
	}

	err = server.RegisterTool("ask", "Send a message to Alfred and get the reply. File uploads are not available here.", func(arguments AskArguments) (*mcp_golang.ToolResponse, error) {
		userID := arguments.UserID
		if userID == "" {
			userID = "mcp"
		}
		slog.Info("ask requested", slog.String("user", userID))
		resp := asst.Ask(ctx, &feature.Request{UserID: userID, Username: userID, Content: arguments.Message})
		return mcp_golang.NewToolResponse(mcp_golang.NewTextContent(resp)), nil
	})
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("MCP server starting", slog.String("addr", cfg.Addr), slog.String("path", cfg.Path))
		return server.Serve()
	})
	group.Go(func() error {
		<-ctx.Done()
		return transport.Close()
	})
	return group.Wait()
}

func describe(d router.Decision) string {
	var b strings.Builder
	if d.Selected() {
		fmt.Fprintf(&b, "Feature: %s (index %d)\n", d.FeatureName(), d.Index)
	} else {
		b.WriteString("Feature: none\n")
	}
	fmt.Fprintf(&b, "Method: %s\n", d.Method)
	if d.Method == router.MethodAI {
		fmt.Fprintf(&b, "Confidence: %.2f\n", d.Confidence)
	}
	if d.Reasoning != "" {
		fmt.Fprintf(&b, "Reasoning: %s\n", d.Reasoning)
	}
	if d.Err != nil {
		fmt.Fprintf(&b, "Classifier error: %s\n", d.Err)
	}
	return strings.TrimSpace(b.String())
}
