package ir

// NOTE: store-internal record, not part of any canonical form. Seq is
// assigned by SQLite AUTOINCREMENT and exists only at the storage layer.

// BaselineRecord is one stored report baseline for a named document.
type BaselineRecord struct {
	Seq            int64  `json:"seq"`
	RunID          string `json:"run_id"`
	DocName        string `json:"doc_name"`
	DocFingerprint string `json:"doc_fingerprint"` // Content-addressed
	ReportID       string `json:"report_id"`       // Content-addressed
	ReportVersion  string `json:"report_version"`
	EngineVersion  string `json:"engine_version"`
	ReportJSON     []byte `json:"report_json"` // Canonical report JSON
}
