package domain

// ReportScope identifies one of the report pipelines.
type ReportScope string

const (
	ReportScopeAccounts           ReportScope = "accounts"
	ReportScopeYearly             ReportScope = "yearly"
	ReportScopeFinancialStatement ReportScope = "fs"
)

// ReportScopes lists the pipelines in the order they are reported.
func ReportScopes() []ReportScope {
	return []ReportScope{ReportScopeAccounts, ReportScopeYearly, ReportScopeFinancialStatement}
}

// Valid reports whether s names a known pipeline.
func (s ReportScope) Valid() bool {
	switch s {
	case ReportScopeAccounts, ReportScopeYearly, ReportScopeFinancialStatement:
		return true
	}
	return false
}

// OutputFile is the file name the pipeline writes, e.g. "accounts.csv".
func (s ReportScope) OutputFile() string {
	return string(s) + ".csv"
}

// ProcessStatus enumerates report pipeline states.
type ProcessStatus string

const (
	ProcessStatusIdle       ProcessStatus = "idle"
	ProcessStatusProcessing ProcessStatus = "processing"
	ProcessStatusCompleted  ProcessStatus = "completed"
	ProcessStatusError      ProcessStatus = "error"
)

// ProcessState is the progress snapshot of one report pipeline.
type ProcessState struct {
	Status         ProcessStatus `json:"status"`
	Progress       float64       `json:"progress"`
	TotalFiles     *int          `json:"totalFiles,omitempty"`
	ProcessedFiles *int          `json:"processedFiles,omitempty"`
	Duration       string        `json:"duration,omitempty"`
	Error          string        `json:"error,omitempty"`
	RunID          string        `json:"runId,omitempty"`
}

// Clone returns a copy that shares no pointers with s.
func (s ProcessState) Clone() ProcessState {
	out := s
	if s.TotalFiles != nil {
		v := *s.TotalFiles
		out.TotalFiles = &v
	}
	if s.ProcessedFiles != nil {
		v := *s.ProcessedFiles
		out.ProcessedFiles = &v
	}
	return out
}
