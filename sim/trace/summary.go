package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions int
	ScheduledCount int
	FailedCount    int
	MeanDelay      float64 // over scheduled transfers, seconds
	MaxDelay       float64
	UniqueAPs      int
	APDistribution map[int]int    // access point → number of transfer requests
	FailuresByDir  map[string]int // direction → failed requests
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		APDistribution: make(map[int]int),
		FailuresByDir:  make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Transfers)
	totalDelay := 0.0
	for _, r := range st.Transfers {
		summary.APDistribution[r.AccessPoint]++
		if !r.Scheduled {
			summary.FailedCount++
			summary.FailuresByDir[r.Direction]++
			continue
		}
		summary.ScheduledCount++
		totalDelay += r.Delay
		if r.Delay > summary.MaxDelay {
			summary.MaxDelay = r.Delay
		}
	}
	if summary.ScheduledCount > 0 {
		summary.MeanDelay = totalDelay / float64(summary.ScheduledCount)
	}
	summary.UniqueAPs = len(summary.APDistribution)

	return summary
}
