package submission

import (
	"registrar/internal/dto"
	"registrar/internal/model"
)

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeValidationFailure
	OutcomeStoreFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationFailure:
		return "validation_failure"
	case OutcomeStoreFailure:
		return "store_failure"
	}
	return "unknown"
}

// Result is the outcome of one submission. Kind is set for validation
// failures; Detail carries the store or panic text for store failures.
type Result struct {
	Outcome Outcome
	Kind    string
	Message string
	Detail  string
	Row     *model.Registration
}

func (r Result) Success() bool {
	return r.Outcome == OutcomeSuccess
}

// Response maps the result to the body sent back to the form.
func (r Result) Response() dto.SubmissionResponse {
	switch r.Outcome {
	case OutcomeSuccess:
		return dto.SubmissionResponse{Success: true, Message: r.Message}
	case OutcomeValidationFailure:
		return dto.SubmissionResponse{Message: r.Message, Error: r.Kind}
	default:
		return dto.SubmissionResponse{Message: r.Message, Error: r.Detail}
	}
}

func validationFailure(kind, message string) Result {
	return Result{Outcome: OutcomeValidationFailure, Kind: kind, Message: message}
}

func storeFailure(message, detail string) Result {
	return Result{Outcome: OutcomeStoreFailure, Message: message, Detail: detail}
}
