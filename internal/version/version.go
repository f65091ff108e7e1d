package version

import (
	"fmt"

	"github.com/firestore-mcp/firestore-mcp-server/internal/protocol"
)

// ServerName is advertised to clients in the initialize handshake.
const ServerName = "firestore-mcp"

// Build-time variables. Override via -ldflags "-X .../internal/version.Version=v1.2.3".
var (
	Version   = "dev"
	Commit    = "dev"
	BuildDate = "dev"
)

// Info describes build/version metadata.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
}

// Get returns version info, defaulting empty fields to "dev".
func Get() Info {
	return Info{
		Version:   defaultOr(Version, "dev"),
		Commit:    defaultOr(Commit, "dev"),
		BuildDate: defaultOr(BuildDate, "dev"),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", ServerName, i.Version, i.Commit, i.BuildDate)
}

// ServerInfo is the identity returned from initialize.
func ServerInfo() protocol.ServerInfo {
	return protocol.ServerInfo{Name: ServerName, Version: Get().Version}
}

func defaultOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
