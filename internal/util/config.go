package util

import (
	"runtime"

	"github.com/spf13/viper"
)

// IngestWorkers returns the number of files parsed concurrently.
// Zero or negative config values mean one worker per CPU, capped at 8.
func IngestWorkers() int {
	n := viper.GetInt("ingest.workers")
	if n > 0 {
		return n
	}
	n = runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}
