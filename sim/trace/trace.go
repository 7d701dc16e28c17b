package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTransfers captures every upload and download scheduling decision.
	TraceLevelTransfers TraceLevel = "transfers"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelTransfers: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects transfer decision records during a simulation.
type SimulationTrace struct {
	Config    TraceConfig
	Transfers []TransferRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	if config.Level == "" {
		config.Level = TraceLevelNone
	}
	return &SimulationTrace{
		Config:    config,
		Transfers: make([]TransferRecord, 0),
	}
}

// RecordTransfer appends a transfer decision record.
func (st *SimulationTrace) RecordTransfer(record TransferRecord) {
	st.Transfers = append(st.Transfers, record)
}
