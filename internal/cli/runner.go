// Package cli drives the registration wizard from a terminal.
package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/signup-wizard/internal/errs"
	"github.com/and161185/signup-wizard/internal/model"
	"github.com/and161185/signup-wizard/internal/prompt"
	"github.com/and161185/signup-wizard/internal/wizard"
)

// Actions offered after each step.
const (
	ActionNext  = "Next"
	ActionBack  = "Previous"
	ActionReset = "Start over"
	ActionQuit  = "Save and quit"
)

// RemoveFile typed at the file prompt drops the current attachment.
const RemoveFile = "-"

var fieldLabels = map[string]string{
	model.FieldFirstName:       "First name",
	model.FieldLastName:        "Last name",
	model.FieldEmail:           "Email",
	model.FieldPhone:           "Phone",
	model.FieldUsername:        "Username",
	model.FieldPassword:        "Password",
	model.FieldConfirmPassword: "Confirm password",
	model.FieldTerms:           "Terms",
	model.FieldFile:            "Profile picture",
}

// Runner renders controller snapshots as prompts and feeds answers back.
type Runner struct {
	ctrl *wizard.Controller
	ui   prompt.Driver
	log  *zap.Logger
	load func(path string) (*model.Attachment, error)
}

// NewRunner wires a controller to a prompt driver.
func NewRunner(ctrl *wizard.Controller, ui prompt.Driver, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ctrl: ctrl, ui: ui, log: log, load: LoadAttachment}
}

// Run loops until the user quits, declines another registration after a
// successful submit, or aborts. Abort returns prompt.ErrAborted; the draft is
// already persisted at that point.
func (r *Runner) Run(ctx context.Context) error {
	for {
		snap := r.ctrl.Snapshot()
		if err := r.ui.Info(ctx, render(snap)); err != nil {
			return err
		}

		snap, err := r.askStep(ctx, snap)
		if err != nil {
			return err
		}

		action, err := r.ui.Select(ctx, prompt.SelectConfig{
			Message: "What next?",
			Options: actions(snap),
		})
		if err != nil {
			return err
		}
		r.log.Debug("action", zap.String("action", action), zap.Int("step", int(snap.Step)))

		switch action {
		case ActionNext:
			r.ctrl.Next()
		case ActionBack:
			r.ctrl.Back()
		case ActionReset:
			ok, err := r.ui.Confirm(ctx, prompt.ConfirmConfig{Message: "Discard everything entered so far?"})
			if err != nil {
				return err
			}
			if ok {
				r.ctrl.Reset(ctx)
			}
		case ActionQuit:
			return nil
		default:
			done, err := r.submit(ctx)
			if err != nil || done {
				return err
			}
		}
	}
}

// submit reports done when the user is finished after a successful submit.
func (r *Runner) submit(ctx context.Context) (bool, error) {
	snap, err := r.ctrl.Submit(ctx)
	switch {
	case errors.Is(err, errs.ErrTransport):
		return false, r.ui.Info(ctx, snap.Notice+". Your answers are kept, try again.")
	case errors.Is(err, errs.ErrSubmitInFlight), errors.Is(err, errs.ErrNotFinalStep):
		return false, nil
	case err != nil:
		return false, err
	}
	if snap.State != model.StateSucceeded {
		return false, nil
	}
	if err := r.ui.Info(ctx, snap.Notice); err != nil {
		return false, err
	}
	again, err := r.ui.Confirm(ctx, prompt.ConfirmConfig{Message: "Register another account?"})
	if err != nil {
		return false, err
	}
	return !again, nil
}

func (r *Runner) askStep(ctx context.Context, snap wizard.Snapshot) (wizard.Snapshot, error) {
	d := snap.Draft
	switch snap.Step {
	case model.StepIdentity:
		if err := r.text(ctx, "First name", d.FirstName, r.ctrl.SetFirstName); err != nil {
			return snap, err
		}
		if err := r.text(ctx, "Last name", d.LastName, r.ctrl.SetLastName); err != nil {
			return snap, err
		}
		if err := r.text(ctx, "Email", d.Email, r.ctrl.SetEmail); err != nil {
			return snap, err
		}
		phone := ""
		if d.Phone != nil {
			phone = strconv.FormatInt(*d.Phone, 10)
		}
		if err := r.text(ctx, "Phone (10 digits)", phone, r.ctrl.SetPhoneText); err != nil {
			return snap, err
		}
	case model.StepCredentials:
		if err := r.text(ctx, "Username", d.Username, r.ctrl.SetUsername); err != nil {
			return snap, err
		}
		if err := r.secret(ctx, "Password", d.Password, r.ctrl.SetPassword); err != nil {
			return snap, err
		}
		if err := r.secret(ctx, "Confirm password", d.ConfirmPassword, r.ctrl.SetConfirmPassword); err != nil {
			return snap, err
		}
	case model.StepConsent:
		if err := r.file(ctx, d.File); err != nil {
			return snap, err
		}
		ok, err := r.ui.Confirm(ctx, prompt.ConfirmConfig{
			Message: "I accept the terms and conditions",
			Default: d.TermsAccepted,
		})
		if err != nil {
			return snap, err
		}
		if ok != d.TermsAccepted {
			r.ctrl.SetTerms(ctx, ok)
		}
	}
	return r.ctrl.Snapshot(), nil
}

func (r *Runner) text(ctx context.Context, label, cur string, set func(context.Context, string) wizard.Snapshot) error {
	v, err := r.ui.Input(ctx, prompt.InputConfig{Message: label, Default: cur})
	if err != nil {
		return err
	}
	if v != cur {
		set(ctx, v)
	}
	return nil
}

// secret keeps the stored value when the answer is empty.
func (r *Runner) secret(ctx context.Context, label, cur string, set func(context.Context, string) wizard.Snapshot) error {
	msg := label
	if cur != "" {
		msg += " (enter to keep)"
	}
	v, err := r.ui.Password(ctx, prompt.InputConfig{Message: msg})
	if err != nil {
		return err
	}
	if v != "" && v != cur {
		set(ctx, v)
	}
	return nil
}

func (r *Runner) file(ctx context.Context, cur *model.Attachment) error {
	help := "JPG, PNG or GIF up to 5MB"
	msg := "Profile picture path (optional)"
	if cur != nil {
		msg = fmt.Sprintf("Profile picture path (enter keeps %s, %q removes)", cur.Name, RemoveFile)
	}
	path, err := r.ui.Input(ctx, prompt.InputConfig{Message: msg, Help: help})
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	switch path {
	case "":
		return nil
	case RemoveFile:
		r.ctrl.ClearFile(ctx)
		return nil
	}

	a, err := r.load(path)
	if err != nil {
		r.log.Debug("load attachment", zap.String("path", path), zap.Error(err))
		return r.ui.Info(ctx, "Cannot read file: "+err.Error())
	}
	if _, err := r.ctrl.SelectFile(ctx, a); err != nil {
		// the message is also kept in the snapshot errors
		r.log.Debug("attachment rejected", zap.Error(err))
	}
	return nil
}

func actions(s wizard.Snapshot) []string {
	var out []string
	if s.IsFinalStep() {
		out = append(out, s.SubmitLabel())
	} else {
		out = append(out, ActionNext)
	}
	if s.CanGoBack() {
		out = append(out, ActionBack)
	}
	return append(out, ActionReset, ActionQuit)
}

// render draws the step header, progress bar and any field errors.
func render(s wizard.Snapshot) string {
	var b strings.Builder
	total := int(model.LastStep)
	cur := int(s.Step)
	fmt.Fprintf(&b, "\nStep %d of %d: %s\n", cur, total, s.Step.Title())
	b.WriteString("[" + strings.Repeat("#", cur) + strings.Repeat("-", total-cur) + "]")
	if s.Notice != "" && s.State == model.StateFailed {
		b.WriteString("\n" + s.Notice)
	}

	keys := make([]string, 0, len(s.Errors))
	for k := range s.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		label := fieldLabels[k]
		if label == "" {
			label = k
		}
		fmt.Fprintf(&b, "\n  ! %s: %s", label, s.Errors[k])
	}
	return b.String()
}
