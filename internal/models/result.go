package models

// SubmitResponse is returned the moment a submission is accepted, before any
// model call happens.
type SubmitResponse struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
}

// StatusResponse is the polling contract: ready flips when the submission
// leaves the processing state, for better or worse.
type StatusResponse struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	Ready        bool   `json:"ready"`
}

// ResultResponse carries the full evaluation once available.
type ResultResponse struct {
	SubmissionID string            `json:"submission_id"`
	AuthorName   string            `json:"author_name"`
	AuthorEmail  string            `json:"author_email"`
	BookTitle    string            `json:"book_title"`
	ProposalType string            `json:"proposal_type"`
	Status       string            `json:"status"`
	Result       *EvaluationResult `json:"result,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
}
