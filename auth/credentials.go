// Package auth loads DESI collaboration credentials from the user's
// credential file.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CredentialFileName is the name of the credential file, relative to the
// user's home directory.
const CredentialFileName = ".desi"

const remediation = `create a file %s containing a single line

    username:password

with your DESI collaboration credentials, and restrict its permissions
(chmod 600 %s)`

// Credentials is a username / password pair for the private archive
// endpoint. It is never written back to disk.
type Credentials struct {
	Username string
	Password string
}

// ConfigurationError indicates a missing or malformed credential file. Its
// message carries remediation instructions.
type ConfigurationError struct {
	Path   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("credential file %s: %s; %s",
		e.Path, e.Reason, fmt.Sprintf(remediation, e.Path, e.Path))
}

// Store lazily reads Credentials on first need and caches them, along with
// any read error, for the remainder of the process. Construct one Store and
// inject it into every component which may need it.
type Store struct {
	// Path of the credential file. If empty, ~/.desi is used.
	Path string

	once  sync.Once
	creds Credentials
	err   error
}

// Load returns the cached Credentials, reading the credential file exactly
// once. Subsequent calls return the first outcome, error or not.
func (s *Store) Load() (Credentials, error) {
	s.once.Do(func() { s.creds, s.err = s.read() })
	return s.creds, s.err
}

func (s *Store) read() (Credentials, error) {
	var path = s.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Credentials{}, &ConfigurationError{Path: CredentialFileName, Reason: err.Error()}
		}
		path = filepath.Join(home, CredentialFileName)
	}

	var data, err = os.ReadFile(path)
	if err != nil {
		return Credentials{}, &ConfigurationError{Path: path, Reason: "not readable"}
	}

	var line = strings.TrimSpace(string(data))
	var user, pass, ok = strings.Cut(line, ":")
	if !ok || user == "" || pass == "" || strings.ContainsAny(line, "\n") {
		return Credentials{}, &ConfigurationError{Path: path, Reason: "expected a single username:password line"}
	}
	return Credentials{Username: user, Password: pass}, nil
}
