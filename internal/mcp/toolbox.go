package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
	"github.com/sirupsen/logrus"
)

// Call outcomes reported to the Observer.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeUnknown = "unknown"
)

// Tool defines the behavior of a single MCP tool. A returned error is reported to
// the caller as an {"error": ...} payload, never as a JSON-RPC error.
type Tool interface {
	Descriptor() protocol.ToolDescriptor
	Invoke(ctx context.Context, raw json.RawMessage) (protocol.CallResult, error)
}

// Observer is told about every tool call.
type Observer interface {
	ObserveCall(tool, outcome string, elapsed time.Duration)
}

// Toolbox stores tools in registration order and dispatches calls by name.
type Toolbox struct {
	order    []Tool
	tools    map[string]Tool
	logger   *logrus.Entry
	observer Observer
}

// NewToolbox constructs a toolbox with the provided tools. Names must be unique.
func NewToolbox(tools ...Tool) *Toolbox {
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		name := t.Descriptor().Name
		if _, dup := m[name]; dup {
			panic(fmt.Sprintf("mcp: duplicate tool %q", name))
		}
		m[name] = t
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return &Toolbox{order: tools, tools: m, logger: logrus.NewEntry(discard)}
}

// WithLogger sets the logger used for per-call diagnostics.
func (tb *Toolbox) WithLogger(logger *logrus.Entry) *Toolbox {
	if logger != nil {
		tb.logger = logger
	}
	return tb
}

// WithObserver sets the call observer.
func (tb *Toolbox) WithObserver(o Observer) *Toolbox {
	tb.observer = o
	return tb
}

// Describe returns all tool descriptors in registration order.
func (tb *Toolbox) Describe() []protocol.ToolDescriptor {
	list := make([]protocol.ToolDescriptor, 0, len(tb.order))
	for _, t := range tb.order {
		list = append(list, t.Descriptor())
	}
	return list
}

// Call invokes a named tool. It always yields a call result: unknown tools and
// tool failures are carried in the payload.
func (tb *Toolbox) Call(ctx context.Context, name string, args json.RawMessage) protocol.CallResult {
	start := time.Now()
	log := tb.logger.WithField("tool", name)

	tool, ok := tb.tools[name]
	if !ok {
		tb.observe("", OutcomeUnknown, start)
		log.Warn("unknown tool")
		return protocol.ErrorResult("Unknown tool: " + name)
	}

	result, err := invoke(ctx, tool, args)
	if err != nil {
		tb.observe(name, OutcomeError, start)
		log.WithError(err).Warn("tool call failed")
		return protocol.ErrorResult(err.Error())
	}

	tb.observe(name, OutcomeOK, start)
	log.WithField("elapsed", time.Since(start)).Debug("tool call done")
	return result
}

func (tb *Toolbox) observe(tool, outcome string, start time.Time) {
	if tb.observer != nil {
		tb.observer.ObserveCall(tool, outcome, time.Since(start))
	}
}

func invoke(ctx context.Context, tool Tool, args json.RawMessage) (result protocol.CallResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return tool.Invoke(ctx, args)
}
