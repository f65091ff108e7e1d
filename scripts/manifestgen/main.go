// Command manifestgen writes tools.json, a static description of the server and
// its tool catalog for MCP client registries.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/firestore-mcp/firestore-mcp-server/internal/app"
	"github.com/firestore-mcp/firestore-mcp-server/internal/config"
	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/mcp"
	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
	"github.com/firestore-mcp/firestore-mcp-server/internal/version"
)

// Options captures manifest generation settings.
type Options struct {
	Name        string
	Version     string
	GeneratedAt time.Time
	OutputDir   string
}

// Manifest is the document written to tools.json.
type Manifest struct {
	Name             string                    `json:"name"`
	Version          string                    `json:"version"`
	GeneratedAt      time.Time                 `json:"generatedAt"`
	ProtocolVersions []string                  `json:"protocolVersions"`
	Transports       []string                  `json:"transports"`
	Tools            []protocol.ToolDescriptor `json:"tools"`
	RequiredEnv      []string                  `json:"requiredEnv"`
	OptionalEnv      []string                  `json:"optionalEnv"`
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	path, err := Generate(*opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("manifest written to %s\n", path)
}

func parseFlags() (*Options, error) {
	var (
		name        = flag.String("name", version.ServerName, "manifest name")
		ver         = flag.String("version", version.Get().Version, "version string (vX.Y.Z or X.Y.Z)")
		generatedAt = flag.String("generated_at", "", "RFC3339 timestamp (default: now UTC)")
		outDir      = flag.String("output_dir", ".", "output directory for tools.json")
	)
	flag.Parse()

	ts := *generatedAt
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return nil, fmt.Errorf("invalid generated_at: %w", err)
	}

	return &Options{
		Name:        *name,
		Version:     *ver,
		GeneratedAt: parsed,
		OutputDir:   *outDir,
	}, nil
}

// Generate writes tools.json into opts.OutputDir and returns its path.
func Generate(opts Options) (string, error) {
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", err
	}

	manifest := Manifest{
		Name:             opts.Name,
		Version:          trimVersionPrefix(opts.Version),
		GeneratedAt:      opts.GeneratedAt.UTC(),
		ProtocolVersions: mcp.SupportedProtocolVersions,
		Transports:       []string{config.TransportStdio, config.TransportHTTP},
		// The catalog does not depend on the backend; an empty store is enough to describe it.
		Tools:       app.NewToolbox(docstore.NewMemoryStore()).Describe(),
		RequiredEnv: []string{"FIREBASE_PROJECT_ID", "FIREBASE_CLIENT_EMAIL", "FIREBASE_PRIVATE_KEY"},
		OptionalEnv: []string{"FIRESTORE_DATABASE_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIRESTORE_EMULATOR_HOST"},
	}

	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", err
	}
	raw = append(raw, '\n')

	path := filepath.Join(opts.OutputDir, "tools.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func trimVersionPrefix(v string) string {
	return strings.TrimPrefix(v, "v")
}
