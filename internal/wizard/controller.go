// Package wizard implements the form session controller: step progression,
// per-step validation, draft persistence and the submission lifecycle.
package wizard

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/signup-wizard/internal/draftstore"
	"github.com/and161185/signup-wizard/internal/errs"
	"github.com/and161185/signup-wizard/internal/model"
	"github.com/and161185/signup-wizard/internal/sink"
	"github.com/and161185/signup-wizard/internal/validate"
)

// session is the single owned draft/step/errors state of one wizard run.
type session struct {
	draft  model.Draft
	step   model.Step
	errors model.ValidationErrors
	state  model.SubmissionState
	notice string
}

func (s *session) snapshot() Snapshot {
	return Snapshot{
		Draft:  s.draft.Clone(),
		Step:   s.step,
		Errors: s.errors.Clone(),
		State:  s.state,
		Notice: s.notice,
	}
}

// Controller drives one wizard session. Transitions are serialized; the lock
// is released while the submitter runs so the UI can render progress.
type Controller struct {
	mu       sync.Mutex
	s        session
	drafts   *draftstore.DraftStore
	sink     sink.Submitter
	log      *zap.Logger
	observer Observer
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver registers a callback for every emitted snapshot.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// New restores the persisted draft (once) and starts at the first step.
func New(ctx context.Context, drafts *draftstore.DraftStore, submitter sink.Submitter, opts ...Option) *Controller {
	c := &Controller{
		drafts: drafts,
		sink:   submitter,
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.s = session{
		draft: drafts.Load(ctx),
		step:  model.FirstStep,
		state: model.StateIdle,
	}
	c.log.Debug("session started", zap.Bool("restored", c.s.draft != (model.Draft{})))
	return c
}

// Snapshot returns the current state without emitting it.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.snapshot()
}

func (c *Controller) emit(s Snapshot) Snapshot {
	if c.observer != nil {
		c.observer(s)
	}
	return s
}

// persist writes the draft; failures are logged only.
func (c *Controller) persist(ctx context.Context) {
	if err := c.drafts.Save(ctx, c.s.draft); err != nil {
		c.log.Warn("persist draft", zap.Error(err))
	}
}

// update applies fn to the draft, persists it and emits the new state.
// Ignored while a submission is in flight.
func (c *Controller) update(ctx context.Context, fn func(d *model.Draft)) Snapshot {
	c.mu.Lock()
	if c.s.state == model.StateSubmitting {
		snap := c.s.snapshot()
		c.mu.Unlock()
		return snap
	}
	fn(&c.s.draft)
	c.persist(ctx)
	snap := c.s.snapshot()
	c.mu.Unlock()
	return c.emit(snap)
}

func (c *Controller) SetFirstName(ctx context.Context, v string) Snapshot {
	return c.update(ctx, func(d *model.Draft) { d.FirstName = v })
}

func (c *Controller) SetLastName(ctx context.Context, v string) Snapshot {
	return c.update(ctx, func(d *model.Draft) { d.LastName = v })
}

func (c *Controller) SetEmail(ctx context.Context, v string) Snapshot {
	return c.update(ctx, func(d *model.Draft) { d.Email = v })
}

// SetPhone stores the phone number; nil clears it.
func (c *Controller) SetPhone(ctx context.Context, v *int64) Snapshot {
	if v != nil {
		p := *v
		v = &p
	}
	return c.update(ctx, func(d *model.Draft) { d.Phone = v })
}

// SetPhoneText parses raw input with validate.ParsePhone.
func (c *Controller) SetPhoneText(ctx context.Context, text string) Snapshot {
	return c.SetPhone(ctx, validate.ParsePhone(text))
}

func (c *Controller) SetUsername(ctx context.Context, v string) Snapshot {
	return c.update(ctx, func(d *model.Draft) { d.Username = v })
}

func (c *Controller) SetPassword(ctx context.Context, v string) Snapshot {
	return c.update(ctx, func(d *model.Draft) { d.Password = v })
}

func (c *Controller) SetConfirmPassword(ctx context.Context, v string) Snapshot {
	return c.update(ctx, func(d *model.Draft) { d.ConfirmPassword = v })
}

func (c *Controller) SetTerms(ctx context.Context, v bool) Snapshot {
	return c.update(ctx, func(d *model.Draft) { d.TermsAccepted = v })
}

// SelectFile checks a picked file. A rejected file never enters the draft and
// drops any file accepted earlier; the reason is shown under "file" and
// returned as an error wrapping errs.ErrAttachmentRejected. nil clears the file.
// While a submission is in flight nothing changes and errs.ErrSubmitInFlight
// is returned.
func (c *Controller) SelectFile(ctx context.Context, a *model.Attachment) (Snapshot, error) {
	verr := validate.Attachment(a)

	c.mu.Lock()
	if c.s.state == model.StateSubmitting {
		snap := c.s.snapshot()
		c.mu.Unlock()
		return snap, errs.ErrSubmitInFlight
	}
	if verr != nil {
		c.s.draft.File = nil
		if c.s.errors == nil {
			c.s.errors = model.ValidationErrors{}
		}
		c.s.errors[model.FieldFile] = validate.AttachmentMessage(verr)
		c.log.Info("attachment rejected", zap.Int64("size", a.Size), zap.String("type", a.MIMEType), zap.Error(verr))
	} else {
		if a != nil {
			cp := *a
			cp.Data = append([]byte(nil), a.Data...)
			a = &cp
		}
		c.s.draft.File = a
		delete(c.s.errors, model.FieldFile)
	}
	c.persist(ctx)
	snap := c.s.snapshot()
	c.mu.Unlock()

	return c.emit(snap), verr
}

// ClearFile removes the attachment.
func (c *Controller) ClearFile(ctx context.Context) Snapshot {
	snap, _ := c.SelectFile(ctx, nil)
	return snap
}

// Next validates the current step only and advances when it is clean.
func (c *Controller) Next() Snapshot {
	c.mu.Lock()
	if c.s.state == model.StateSubmitting {
		snap := c.s.snapshot()
		c.mu.Unlock()
		return snap
	}
	verrs := validate.Step(c.s.step, c.s.draft)
	c.s.notice = ""
	if verrs.Valid() {
		c.s.step = (c.s.step + 1).Clamp()
		c.s.errors = nil
	} else {
		c.s.errors = verrs
	}
	c.log.Debug("next", zap.Int("step", int(c.s.step)), zap.Int("errors", len(c.s.errors)))
	snap := c.s.snapshot()
	c.mu.Unlock()
	return c.emit(snap)
}

// Back moves one step back without validating; errors are left as they are.
func (c *Controller) Back() Snapshot {
	c.mu.Lock()
	if c.s.state == model.StateSubmitting {
		snap := c.s.snapshot()
		c.mu.Unlock()
		return snap
	}
	c.s.step = (c.s.step - 1).Clamp()
	c.s.notice = ""
	snap := c.s.snapshot()
	c.mu.Unlock()
	return c.emit(snap)
}

// Submit re-validates the final step and hands the whole draft to the sink.
// Fields of earlier steps are not re-validated here.
//
// An invalid final step returns the snapshot with errors and a nil error. A
// sink failure returns an error wrapping errs.ErrTransport; the draft and step
// are kept for a retry. Until the sink answers every other transition is a
// no-op returning the current snapshot.
func (c *Controller) Submit(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.s.step != model.LastStep {
		snap := c.s.snapshot()
		c.mu.Unlock()
		return snap, errs.ErrNotFinalStep
	}
	if c.s.state == model.StateSubmitting {
		snap := c.s.snapshot()
		c.mu.Unlock()
		return snap, errs.ErrSubmitInFlight
	}
	c.s.notice = ""
	if verrs := validate.Step(c.s.step, c.s.draft); !verrs.Valid() {
		c.s.errors = verrs
		snap := c.s.snapshot()
		c.mu.Unlock()
		return c.emit(snap), nil
	}
	c.s.errors = nil
	c.s.state = model.StateSubmitting
	rec := c.s.draft.Record()
	snap := c.s.snapshot()
	c.mu.Unlock()
	c.emit(snap)

	err := c.sink.Submit(ctx, rec)

	c.mu.Lock()
	if err != nil {
		if !errors.Is(err, errs.ErrTransport) {
			err = errors.Join(errs.ErrTransport, err)
		}
		c.s.state = model.StateFailed
		c.s.notice = NoticeFailed
		c.log.Warn("submission failed", zap.Error(err))
	} else {
		c.s.state = model.StateSucceeded
		c.s.notice = NoticeSubmitted
		c.s.draft = model.Draft{}
		c.s.step = model.FirstStep
		c.s.errors = nil
		if cerr := c.drafts.Clear(ctx); cerr != nil {
			c.log.Warn("clear draft", zap.Error(cerr))
		}
		c.log.Info("submission accepted")
	}
	snap = c.s.snapshot()
	c.mu.Unlock()
	return c.emit(snap), err
}

// Reset discards the draft and its stored copy and returns to the first step.
func (c *Controller) Reset(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.s.state == model.StateSubmitting {
		snap := c.s.snapshot()
		c.mu.Unlock()
		return snap
	}
	c.s = session{step: model.FirstStep, state: model.StateIdle}
	if err := c.drafts.Clear(ctx); err != nil {
		c.log.Warn("clear draft", zap.Error(err))
	}
	snap := c.s.snapshot()
	c.mu.Unlock()
	return c.emit(snap)
}
