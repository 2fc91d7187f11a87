package dto

// CheckAnswerRequest carries a handwritten answer image and the question it answers.
type CheckAnswerRequest struct {
	Image    string `json:"image" validate:"required"`
	Question string `json:"question" validate:"required"`
}

// CheckAnswerResponse is the binary verdict returned to the client.
type CheckAnswerResponse struct {
	IsCorrect bool `json:"is_correct"`
}

// MessageResponse is a plain acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message"`
}
