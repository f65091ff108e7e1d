package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/firestore-mcp/firestore-mcp-server/internal/docstore"
)

// Credential sources reported by ResolveCredentials.
const (
	SourceEnv      = "env"
	SourceFile     = "file"
	SourceEmulator = "emulator"
	SourceMissing  = "missing"
)

// ErrMissingCredentials means no credential source is configured.
var ErrMissingCredentials = errors.New("firestore credentials not configured: set FIREBASE_PROJECT_ID, FIREBASE_CLIENT_EMAIL and FIREBASE_PRIVATE_KEY, or GOOGLE_APPLICATION_CREDENTIALS")

const emulatorProjectID = "demo-firestore-mcp"

// ResolveCredentials returns the Firestore credentials and their source. Complete
// FIREBASE_* variables win over a service account file, which wins over the emulator.
func ResolveCredentials() (docstore.Credentials, string, error) {
	creds := docstore.Credentials{
		ProjectID:   strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
		ClientEmail: strings.TrimSpace(os.Getenv("FIREBASE_CLIENT_EMAIL")),
		PrivateKey:  UnescapePrivateKey(os.Getenv("FIREBASE_PRIVATE_KEY")),
		DatabaseID:  strings.TrimSpace(os.Getenv("FIRESTORE_DATABASE_ID")),
	}

	if creds.ProjectID != "" && creds.ClientEmail != "" && creds.PrivateKey != "" {
		return creds, SourceEnv, nil
	}

	if path := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); path != "" {
		fileCreds, err := readServiceAccount(path)
		if err != nil {
			return docstore.Credentials{}, "", err
		}
		fileCreds.DatabaseID = creds.DatabaseID
		if creds.ProjectID != "" {
			fileCreds.ProjectID = creds.ProjectID
		}
		return fileCreds, SourceFile, nil
	}

	if os.Getenv("FIRESTORE_EMULATOR_HOST") != "" {
		if creds.ProjectID == "" {
			creds.ProjectID = emulatorProjectID
		}
		return docstore.Credentials{ProjectID: creds.ProjectID, DatabaseID: creds.DatabaseID}, SourceEmulator, nil
	}

	var missing []string
	for name, v := range map[string]string{
		"FIREBASE_PROJECT_ID":   creds.ProjectID,
		"FIREBASE_CLIENT_EMAIL": creds.ClientEmail,
		"FIREBASE_PRIVATE_KEY":  creds.PrivateKey,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) < 3 {
		sort.Strings(missing)
		return docstore.Credentials{}, "", fmt.Errorf("incomplete firestore credentials: missing %s", strings.Join(missing, ", "))
	}
	return docstore.Credentials{}, SourceMissing, ErrMissingCredentials
}

// UnescapePrivateKey turns literal "\n" sequences, as found in .env files, into newlines.
func UnescapePrivateKey(key string) string {
	return strings.ReplaceAll(strings.TrimSpace(key), `\n`, "\n")
}

type serviceAccountFile struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

func readServiceAccount(path string) (docstore.Credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return docstore.Credentials{}, fmt.Errorf("read credentials file: %w", err)
	}
	var sa serviceAccountFile
	if err := json.Unmarshal(raw, &sa); err != nil {
		return docstore.Credentials{}, fmt.Errorf("parse credentials file %s: %w", path, err)
	}
	return docstore.Credentials{
		ProjectID:       sa.ProjectID,
		ClientEmail:     sa.ClientEmail,
		CredentialsFile: path,
	}, nil
}
