package display

import (
	"fmt"
	"math"
	"runtime/debug"
	"runtime/metrics"
)

var memorySamples = []string{
	"/memory/classes/heap/objects:bytes",
	"/memory/classes/total:bytes",
}

// RuntimeMemory reports live heap bytes and the memory ceiling
// The ceiling is the soft memory limit, or total mapped memory when no limit is set
// Uses runtime/metrics so it is cheap enough to call every frame
func RuntimeMemory() (used, max uint64) {
	samples := make([]metrics.Sample, len(memorySamples))
	for i, name := range memorySamples {
		samples[i].Name = name
	}
	metrics.Read(samples)

	if samples[0].Value.Kind() == metrics.KindUint64 {
		used = samples[0].Value.Uint64()
	}
	total := uint64(0)
	if samples[1].Value.Kind() == metrics.KindUint64 {
		total = samples[1].Value.Uint64()
	}

	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit != math.MaxInt64 {
		return used, uint64(limit)
	}
	return used, total
}

// formatMB renders bytes as megabytes truncated to one decimal
func formatMB(b uint64) string {
	tenths := (b * 10) >> 20
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}

// memoryText is the memory diagnostics row
func memoryText(used, max uint64) string {
	return fmt.Sprintf("MEMORY:%s of %s MB", formatMB(used), formatMB(max))
}

// toMB converts bytes to megabytes with the same truncation as formatMB
func toMB(b uint64) float64 {
	return float64((b*10)>>20) / 10
}
