package rulesetstore

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

var storeLog *log.Logger

func init() {
	if os.Getenv("RENFREW_RIVER_DEBUG") != "" {
		// Note: file handle intentionally not closed, kept open for process lifetime.
		logPath := filepath.Join(os.TempDir(), "renfrew-river-rulesetstore-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			storeLog = log.New(os.Stderr, "RULESETSTORE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			storeLog = log.New(f, "RULESETSTORE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		storeLog = log.New(io.Discard, "", 0)
	}
}
