package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/firestore-mcp/firestore-mcp-server/internal/config"
	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
	"github.com/firestore-mcp/firestore-mcp-server/internal/mcp"
	"github.com/firestore-mcp/firestore-mcp-server/internal/metrics"
	"github.com/firestore-mcp/firestore-mcp-server/internal/tools"
	"github.com/firestore-mcp/firestore-mcp-server/internal/version"
	"github.com/sirupsen/logrus"
)

// NewToolbox builds the Firestore tool catalog on top of store.
func NewToolbox(store docstore.Store) *mcp.Toolbox {
	return mcp.NewToolbox(
		// Discovery
		tools.ListCollections(store),
		tools.ListSubcollections(store),

		// Reads
		tools.GetDocument(store),
		tools.ListDocuments(store),
		tools.QueryDocuments(store),

		// Writes
		tools.CreateDocument(store),
		tools.UpdateDocument(store),
		tools.DeleteDocument(store),

		// Aggregation
		tools.CountDocuments(store),
	)
}

// NewMCPServer constructs an MCP server over store, reporting calls to rec.
func NewMCPServer(store docstore.Store, logger *logrus.Entry, rec *metrics.Recorder) *mcp.Server {
	tb := NewToolbox(store).WithLogger(logger)
	if rec != nil {
		tb.WithObserver(rec)
	}
	return mcp.NewServer(tb, version.ServerInfo())
}

// OpenStore returns the store selected by cfg. The connector owns Firestore
// clients and must be closed by the caller.
func OpenStore(ctx context.Context, cfg config.Config, conn *docstore.Connector, logger *logrus.Entry) (docstore.Store, error) {
	if cfg.Backend == config.BackendMemory {
		logger.Warn("using in-memory backend; data is lost on exit")
		return docstore.NewMemoryStore(), nil
	}

	creds, source, err := config.ResolveCredentials()
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"project":  creds.ProjectID,
		"database": creds.DatabaseID,
		"source":   source,
	}).Info("connecting to firestore")

	store, err := conn.Connect(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore: %w", err)
	}
	return store, nil
}

// Run opens the store and serves MCP on the configured transport until the
// transport ends or ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, logger *logrus.Entry, stdin io.Reader, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	conn := docstore.NewConnector(nil)
	defer func() {
		if err := conn.Close(); err != nil {
			logger.WithError(err).Warn("close firestore client")
		}
	}()

	store, err := OpenStore(ctx, cfg, conn, logger)
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder()
	server := NewMCPServer(store, logger, rec)

	switch cfg.Transport {
	case config.TransportHTTP:
		return mcp.RunHTTP(ctx, cfg.HTTPAddr, NewHTTPHandler(server, logger, rec), logger)
	default:
		logger.Info("Firestore MCP server running on stdio")
		return mcp.ServeStdio(ctx, server, stdin, stdout, logger)
	}
}

// NewHTTPHandler exposes server and the metrics of rec over HTTP.
func NewHTTPHandler(server *mcp.Server, logger *logrus.Entry, rec *metrics.Recorder) http.Handler {
	var metricsHandler http.Handler
	if rec != nil {
		metricsHandler = rec.Handler()
	}
	return mcp.NewHTTPHandler(server, logger, metricsHandler)
}
