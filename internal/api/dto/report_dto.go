package dto

import "github.com/ledgerdesk/backoffice/internal/domain"

// ReportStatesResponse maps output file names ("accounts.csv") to states.
type ReportStatesResponse map[string]domain.ProcessState

// NewReportStatesResponse keys states by their scope's output file.
func NewReportStatesResponse(states map[domain.ReportScope]domain.ProcessState) ReportStatesResponse {
	out := make(ReportStatesResponse, len(states))
	for scope, state := range states {
		out[scope.OutputFile()] = state
	}
	return out
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
