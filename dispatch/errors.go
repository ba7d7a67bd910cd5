package dispatch

import (
	"fmt"
	"strings"

	"github.com/BaSui01/synax/types"
)

// CandidateError records one failed attempt.
type CandidateError struct {
	ProviderID   string `json:"provider_id"`
	ModelID      string `json:"model_id,omitempty"`
	Err          error  `json:"-"`
	AttemptIndex int    `json:"attempt_index"`
}

func (e CandidateError) Error() string {
	if e.ModelID != "" {
		return fmt.Sprintf("#%d %s/%s: %v", e.AttemptIndex, e.ProviderID, e.ModelID, e.Err)
	}
	return fmt.Sprintf("#%d %s: %v", e.AttemptIndex, e.ProviderID, e.Err)
}

func (e CandidateError) Unwrap() error { return e.Err }

// AllCandidatesFailedError is returned when every attempted candidate failed.
// Errors are in attempt order.
type AllCandidatesFailedError struct {
	Errors []CandidateError
}

func (e *AllCandidatesFailedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] all %d candidate(s) failed", types.ErrAllCandidatesFailed, len(e.Errors))
	for i, ce := range e.Errors {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(ce.Error())
	}
	return b.String()
}

// Unwrap exposes every underlying attempt error to errors.Is / errors.As.
func (e *AllCandidatesFailedError) Unwrap() []error {
	out := make([]error, 0, len(e.Errors))
	for _, ce := range e.Errors {
		out = append(out, ce.Err)
	}
	return out
}

// ErrorCode reports ALL_CANDIDATES_FAILED to types.GetErrorCode.
func (e *AllCandidatesFailedError) ErrorCode() types.ErrorCode {
	return types.ErrAllCandidatesFailed
}

// HTTPStatus mirrors the status mapping of *types.Error.
func (e *AllCandidatesFailedError) HTTPStatus() int {
	return types.NewError(types.ErrAllCandidatesFailed, "").HTTPStatus
}
