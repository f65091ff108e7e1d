package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
	"github.com/sirupsen/logrus"
)

// ServeStdio reads newline-delimited JSON-RPC messages from r and writes each
// response as one line to w. Requests are handled one at a time, in order. It
// returns nil when r reaches EOF and ctx.Err() when ctx is cancelled first.
func ServeStdio(ctx context.Context, server *Server, r io.Reader, w io.Writer, logger *logrus.Entry) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadBytes('\n')
			if len(bytes.TrimSpace(line)) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("read request: %w", err)
				default:
					return nil
				}
			}
			resp, reply := handleLine(ctx, server, line, logger)
			if !reply {
				continue
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
			if err := bw.Flush(); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

// handleLine decodes and serves one message. reply is false for notifications.
func handleLine(ctx context.Context, server *Server, line []byte, logger *logrus.Entry) (protocol.Response, bool) {
	line = bytes.TrimSpace(line)
	if len(line) > 0 && line[0] == '[' {
		return WriteError(nil, protocol.CodeInvalidRequest, "batch requests are not supported", nil), true
	}

	var req protocol.Request
	if err := json.Unmarshal(line, &req); err != nil {
		logger.WithError(err).Warn("invalid JSON-RPC message")
		return WriteError(nil, protocol.CodeParseError, "parse error", err), true
	}

	resp, err := server.Handle(ctx, req)
	if err != nil {
		return WriteError(req.ID, protocol.CodeInternalError, "internal error", err), !req.IsNotification()
	}
	return resp, !req.IsNotification()
}
