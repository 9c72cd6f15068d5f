// Package logging configures the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const FileName = "quicklinks.log"

var (
	sessionID   string
	sessionOnce sync.Once
)

// SessionID is generated once per process.
func SessionID() string {
	sessionOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// New returns a logger at level writing text lines to out.
func New(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: out != os.Stderr,
	})
	return l, nil
}

// For tags every entry with the session id and the surface name.
func For(l *logrus.Logger, surface string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"session": SessionID(),
		"surface": surface,
	})
}

// OpenFile opens dataDir/quicklinks.log for appending. Terminal UIs log
// there since stderr shares the screen.
func OpenFile(dataDir string) (*os.File, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dataDir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
