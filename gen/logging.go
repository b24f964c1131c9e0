package gen

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

var genLog *log.Logger

func init() {
	if os.Getenv("RENFREW_RIVER_DEBUG") != "" {
		// Note: file handle intentionally not closed, kept open for process lifetime.
		logPath := filepath.Join(os.TempDir(), "renfrew-river-gen-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			genLog = log.New(os.Stderr, "GEN: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			genLog = log.New(f, "GEN: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		genLog = log.New(io.Discard, "", 0)
	}
}
