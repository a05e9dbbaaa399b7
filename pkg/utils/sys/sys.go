package sys

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/rs/zerolog/log"
)

const MB = 1000.0 * 1000.0

func LogMemoryUsage() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	log.Info().
		Float64("alloc_mb", float64(memStats.Alloc)/MB).
		Float64("stack_sys_mb", float64(memStats.StackSys)/MB).
		Float64("heap_inuse_mb", float64(memStats.HeapInuse)/MB).
		Msg("memory used")
}

// WriteMemoryProfile writes a heap profile to path.
func WriteMemoryProfile(path string) error {
	memF, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer memF.Close()

	if err := pprof.WriteHeapProfile(memF); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	return nil
}

// StartTrace starts an execution trace written to path. The returned
// function stops the trace and closes the file.
func StartTrace(path string) (func() error, error) {
	traceF, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create trace file: %w", err)
	}
	if err := trace.Start(traceF); err != nil {
		traceF.Close()
		return nil, fmt.Errorf("could not start trace: %w", err)
	}

	return func() error {
		trace.Stop()
		return traceF.Close()
	}, nil
}
