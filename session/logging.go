package session

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

var sessionLog *log.Logger

func init() {
	if os.Getenv("RENFREW_RIVER_DEBUG") != "" {
		// Note: file handle intentionally not closed, kept open for process lifetime.
		logPath := filepath.Join(os.TempDir(), "renfrew-river-session-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			sessionLog = log.New(os.Stderr, "SESSION: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			sessionLog = log.New(f, "SESSION: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		sessionLog = log.New(io.Discard, "", 0)
	}
}
