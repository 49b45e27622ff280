package ir

// Version constants for the report schema and engine.
const (
	// ReportVersion is the report schema version, embedded in every report
	// and baseline so stored artifacts are self-describing.
	ReportVersion = "1"

	// EngineVersion is the flowlens engine version.
	EngineVersion = "0.1.0"
)
