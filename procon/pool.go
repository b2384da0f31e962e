package procon

import "sync"

// reportPool reuses InputReport buffers across ticks instead of allocating
// one per report, grounded on joycontrol/pool.go's sync.Pool-based
// AllocStandardReport/FreeReport.
var reportPool = sync.Pool{
	New: func() any {
		return NewInputReport()
	},
}

// AllocReport returns a zeroed InputReport, either recycled from the pool
// or freshly allocated.
func AllocReport() *InputReport {
	r := reportPool.Get().(*InputReport)
	r.Reset()
	return r
}

// FreeReport returns report to the pool for reuse. Callers must not touch
// report after calling FreeReport.
func FreeReport(report *InputReport) {
	reportPool.Put(report)
}
