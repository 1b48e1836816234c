// Package model defines the registration entities shared by the wizard, storage and transport.
package model

import "strconv"

// Step identifies the active field group of the wizard.
type Step int

// Wizard steps in order.
const (
	StepIdentity    Step = 1 // firstName, lastName, email, phone
	StepCredentials Step = 2 // username, password, confirmPassword
	StepConsent     Step = 3 // file, terms

	FirstStep = StepIdentity
	LastStep  = StepConsent
)

// Clamp bounds s to [FirstStep, LastStep].
func (s Step) Clamp() Step {
	if s < FirstStep {
		return FirstStep
	}
	if s > LastStep {
		return LastStep
	}
	return s
}

// Title is the heading shown for the step.
func (s Step) Title() string {
	switch s {
	case StepIdentity:
		return "Personal Info"
	case StepCredentials:
		return "Account Details"
	case StepConsent:
		return "Upload & Terms"
	default:
		return ""
	}
}

// SubmissionState governs the submit control.
type SubmissionState int

// Submission lifecycle.
const (
	StateIdle SubmissionState = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s SubmissionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Field names used as ValidationErrors keys and multipart field names.
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldFile            = "file"
	FieldTerms           = "terms"
)

// Attachment is a file picked by the user.
type Attachment struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MIMEType string `json:"type"`
	Data     []byte `json:"data"` // base64 in JSON
}

// Draft is the in-progress registration record.
type Draft struct {
	FirstName       string      `json:"firstName"`
	LastName        string      `json:"lastName"`
	Email           string      `json:"email"`
	Phone           *int64      `json:"phone"` // nil = not yet entered
	Username        string      `json:"username"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"confirmPassword"`
	File            *Attachment `json:"file"`
	TermsAccepted   bool        `json:"terms"`
}

// Clone returns a deep copy so snapshots never alias controller state.
func (d Draft) Clone() Draft {
	out := d
	if d.Phone != nil {
		p := *d.Phone
		out.Phone = &p
	}
	if d.File != nil {
		f := *d.File
		f.Data = append([]byte(nil), d.File.Data...)
		out.File = &f
	}
	return out
}

// Record flattens the draft into transport fields. ConfirmPassword is not sent.
func (d Draft) Record() Record {
	r := Record{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Username:  d.Username,
		Password:  d.Password,
		Terms:     strconv.FormatBool(d.TermsAccepted),
	}
	if d.Phone != nil {
		r.Phone = strconv.FormatInt(*d.Phone, 10)
	}
	if d.File != nil {
		r.File = d.Clone().File
	}
	return r
}

// Record is the transport-ready form of a Draft.
type Record struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string // decimal or empty
	Username  string
	Password  string
	Terms     string // "true" / "false"
	File      *Attachment
}

// Fields returns the text fields in wire order.
func (r Record) Fields() [][2]string {
	return [][2]string{
		{FieldFirstName, r.FirstName},
		{FieldLastName, r.LastName},
		{FieldEmail, r.Email},
		{FieldPhone, r.Phone},
		{FieldUsername, r.Username},
		{FieldPassword, r.Password},
		{FieldTerms, r.Terms},
	}
}

// ValidationErrors maps field name to a human-readable message. Empty means valid.
type ValidationErrors map[string]string

// Clone copies the mapping; nil stays nil.
func (v ValidationErrors) Clone() ValidationErrors {
	if v == nil {
		return nil
	}
	out := make(ValidationErrors, len(v))
	for k, m := range v {
		out[k] = m
	}
	return out
}

// Valid reports whether there are no errors.
func (v ValidationErrors) Valid() bool { return len(v) == 0 }
