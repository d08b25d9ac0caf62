package dto

// UpdateFeedbackRequest carries the replacement feedback text for a grade.
// An empty or blank value clears the stored feedback.
type UpdateFeedbackRequest struct {
	Feedback string `json:"feedback"`
}
