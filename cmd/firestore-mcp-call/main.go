// Command firestore-mcp-call lists or calls tools on a firestore-mcp server
// running with -transport=http.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/firestore-mcp/firestore-mcp-server/internal/mcp"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	url := flag.String("url", envOr("MCP_SERVER_URL", "http://localhost:3333/"), "MCP HTTP endpoint")
	timeout := flag.Duration("timeout", 30*time.Second, "Request timeout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] list | call <tool> [json-arguments]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, mcp.NewClient(*url), flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *mcp.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command (list or call)")
	}

	switch args[0] {
	case "list":
		tools, err := client.ListTools(ctx)
		if err != nil {
			return err
		}
		for _, t := range tools {
			fmt.Fprintf(out, "%-22s %s\n", t.Name, t.Description)
		}
		return nil
	case "call":
		if len(args) < 2 {
			return fmt.Errorf("call requires a tool name")
		}
		raw := json.RawMessage(`{}`)
		if len(args) > 2 {
			if !json.Valid([]byte(args[2])) {
				return fmt.Errorf("arguments are not valid JSON")
			}
			raw = json.RawMessage(args[2])
		}
		result, err := client.CallTool(ctx, args[1], raw)
		if err != nil {
			return err
		}
		for _, part := range result.Content {
			fmt.Fprintln(out, part.Text)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
