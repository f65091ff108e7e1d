package docstore

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Credentials identifies the database and how to authenticate against it.
type Credentials struct {
	ProjectID       string
	DatabaseID      string
	ClientEmail     string
	PrivateKey      string
	CredentialsFile string
}

// Identity keys a connection. Two credentials with the same identity share a store.
func (c Credentials) Identity() string {
	principal := c.ClientEmail
	if principal == "" {
		principal = c.CredentialsFile
	}
	db := c.DatabaseID
	if db == "" {
		db = "(default)"
	}
	return strings.Join([]string{c.ProjectID, db, principal}, "|")
}

// OpenFunc opens a store for the given credentials.
type OpenFunc func(ctx context.Context, creds Credentials) (Store, error)

// Connector opens each distinct identity once and hands out the same store on
// repeated Connect calls.
type Connector struct {
	mu     sync.Mutex
	open   OpenFunc
	stores map[string]Store
}

// NewConnector builds a connector. A nil open func connects to Cloud Firestore.
func NewConnector(open OpenFunc) *Connector {
	if open == nil {
		open = func(ctx context.Context, creds Credentials) (Store, error) {
			return OpenFirestore(ctx, creds)
		}
	}
	return &Connector{open: open, stores: map[string]Store{}}
}

// Connect returns the store for creds, opening it on first use.
func (c *Connector) Connect(ctx context.Context, creds Credentials) (Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := creds.Identity()
	if st, ok := c.stores[key]; ok {
		return st, nil
	}
	st, err := c.open(ctx, creds)
	if err != nil {
		return nil, err
	}
	c.stores[key] = st
	return st, nil
}

// Close closes every opened store.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for key, st := range c.stores {
		if err := st.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(c.stores, key)
	}
	return errors.Join(errs...)
}
