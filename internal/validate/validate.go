// Package validate holds the field validators and per-step validation of the wizard.
// All functions are pure.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/and161185/signup-wizard/internal/errs"
	"github.com/and161185/signup-wizard/internal/model"
)

// MaxAttachmentSize is the largest accepted file, in bytes.
const MaxAttachmentSize = 5_000_000

// Error messages shown next to fields.
const (
	MsgRequired         = "Required"
	MsgInvalidEmail     = "Invalid email"
	MsgInvalidPhone     = "Invalid phone number"
	MsgWeakPassword     = "Password must be 8+ chars with uppercase, lowercase, number, and special char"
	MsgPasswordMismatch = "Passwords do not match"
	MsgTerms            = "You must accept terms"
	MsgFileTooLarge     = "File too large (max 5MB)"
	MsgFileType         = "Only JPG, PNG, GIF allowed"
)

// ws is the whitespace a browser regexp \s matches: ASCII space and
// controls, every Unicode space separator and the BOM.
const ws = `\s\v\p{Z}\x{FEFF}`

var (
	reEmail   = regexp.MustCompile(`^[^` + ws + `@]+@[^` + ws + `@]+\.[^` + ws + `@]+$`)
	rePhone   = regexp.MustCompile(`^\d{10}$`)
	reUpper   = regexp.MustCompile(`[A-Z]`)
	reLower   = regexp.MustCompile(`[a-z]`)
	reDigit   = regexp.MustCompile(`\d`)
	reSpecial = regexp.MustCompile(`[!@#$%^&*]`)
	reLeading = regexp.MustCompile(`^[` + ws + `]*([+-]?\d+)`)
)

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

// Email reports whether s looks like local@domain.tld.
func Email(s string) bool { return reEmail.MatchString(s) }

// Phone reports whether p is present and renders as exactly 10 decimal digits.
func Phone(p *int64) bool {
	return p != nil && rePhone.MatchString(strconv.FormatInt(*p, 10))
}

// Password checks at least 8 characters with upper, lower, digit and one of !@#$%^&*.
func Password(s string) bool {
	return utf8.RuneCountInString(s) >= 8 &&
		reUpper.MatchString(s) &&
		reLower.MatchString(s) &&
		reDigit.MatchString(s) &&
		reSpecial.MatchString(s)
}

// PasswordsMatch reports exact equality of password and confirmation.
func PasswordsMatch(password, confirm string) bool { return password == confirm }

// Required reports a non-empty string. Whitespace counts as content.
func Required(s string) bool { return s != "" }

// Terms reports whether the terms were accepted.
func Terms(accepted bool) bool { return accepted }

// Attachment checks size and MIME type. A nil attachment is valid.
func Attachment(a *model.Attachment) error {
	if a == nil {
		return nil
	}
	if a.Size > MaxAttachmentSize {
		return errs.ErrAttachmentTooLarge
	}
	if _, ok := allowedTypes[a.MIMEType]; !ok {
		return errs.ErrAttachmentType
	}
	return nil
}

// AttachmentMessage maps an Attachment error to its field message.
func AttachmentMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errs.ErrAttachmentTooLarge):
		return MsgFileTooLarge
	default:
		return MsgFileType
	}
}

// ParsePhone reads the leading integer of text the way a browser parseInt does.
// Empty or non-numeric input yields nil.
func ParsePhone(text string) *int64 {
	m := reLeading.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Step validates only the fields of the given step.
func Step(step model.Step, d model.Draft) model.ValidationErrors {
	out := model.ValidationErrors{}
	switch step {
	case model.StepIdentity:
		if !Required(d.FirstName) {
			out[model.FieldFirstName] = MsgRequired
		}
		if !Required(d.LastName) {
			out[model.FieldLastName] = MsgRequired
		}
		switch {
		case !Required(d.Email):
			out[model.FieldEmail] = MsgRequired
		case !Email(d.Email):
			out[model.FieldEmail] = MsgInvalidEmail
		}
		switch {
		case d.Phone == nil:
			out[model.FieldPhone] = MsgRequired
		case !Phone(d.Phone):
			out[model.FieldPhone] = MsgInvalidPhone
		}
	case model.StepCredentials:
		if !Required(d.Username) {
			out[model.FieldUsername] = MsgRequired
		}
		switch {
		case !Required(d.Password):
			out[model.FieldPassword] = MsgRequired
		case !Password(d.Password):
			out[model.FieldPassword] = MsgWeakPassword
		}
		if !PasswordsMatch(d.Password, d.ConfirmPassword) {
			out[model.FieldConfirmPassword] = MsgPasswordMismatch
		}
	case model.StepConsent:
		if err := Attachment(d.File); err != nil {
			out[model.FieldFile] = AttachmentMessage(err)
		}
		if !Terms(d.TermsAccepted) {
			out[model.FieldTerms] = MsgTerms
		}
	}
	return out
}
