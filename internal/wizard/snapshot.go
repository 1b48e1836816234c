package wizard

import "github.com/and161185/signup-wizard/internal/model"

// Notices shown to the user after a submission attempt.
const (
	NoticeSubmitted = "Form submitted successfully!"
	NoticeFailed    = "Submission failed"
)

// Snapshot is an immutable view of the session emitted after every transition.
type Snapshot struct {
	Draft  model.Draft
	Step   model.Step
	Errors model.ValidationErrors
	State  model.SubmissionState
	Notice string
}

// CanGoBack reports whether Back would move.
func (s Snapshot) CanGoBack() bool { return s.Step > model.FirstStep }

// IsFinalStep reports whether the submit control replaces "Next".
func (s Snapshot) IsFinalStep() bool { return s.Step == model.LastStep }

// SubmitEnabled is false for the whole duration of a submission.
func (s Snapshot) SubmitEnabled() bool { return s.State != model.StateSubmitting }

// SubmitLabel is the text of the submit control.
func (s Snapshot) SubmitLabel() string {
	if s.State == model.StateSubmitting {
		return "Submitting..."
	}
	return "Submit"
}

// Observer receives every snapshot the controller emits.
type Observer func(Snapshot)
