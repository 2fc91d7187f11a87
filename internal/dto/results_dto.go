package dto

// SubmitResultsRequest holds positionally aligned question, answer and verdict arrays.
// The arrays are expected, but not required, to have equal length.
type SubmitResultsRequest struct {
	Questions []string `json:"questions" validate:"required"`
	Answers   []string `json:"answers" validate:"required"`
	IsCorrect []bool   `json:"is_correct" validate:"required"`
}

// Aligned reports whether all three arrays have the same length.
func (r SubmitResultsRequest) Aligned() bool {
	return len(r.Questions) == len(r.Answers) && len(r.Answers) == len(r.IsCorrect)
}
