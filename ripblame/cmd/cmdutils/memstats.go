package cmdutils

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/fatih/color"
)

// StartMemLogs prints heap usage to wr every interval until onEnd is called.
func StartMemLogs(wr io.Writer, interval time.Duration) (onEnd func()) {
	globalStart := time.Now()
	ticker := time.NewTicker(interval)
	done := make(chan bool)

	log := func() {
		sinceStart := time.Since(globalStart).Round(time.Millisecond)
		fmt.Fprintf(wr, "[%s][%vMB] utilization\n", color.YellowString("%v", sinceStart), color.YellowString("%v", getAllocatedMemMB()))
	}

	go func() {
		for {
			select {
			case <-ticker.C:
				log()
			case <-done:
				return
			}
		}
	}()

	log()

	return func() {
		ticker.Stop()
		close(done)
		log()
	}
}

func getAllocatedMemMB() int {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int(m.HeapAlloc / 1024 / 1024)
}
