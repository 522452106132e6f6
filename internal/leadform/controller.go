// Package leadform holds the lead-capture form: its draft state, the
// Idle/Submitting guard around the lead write, and the notifications and
// tracked action that follow a submission.
package leadform

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"storytrain_landing/internal/rowstore"
	"storytrain_landing/internal/tracking"
	"storytrain_landing/platform/apperr"
	"storytrain_landing/platform/logger"
	"storytrain_landing/platform/phone"
	"storytrain_landing/platform/sanitize"
	"storytrain_landing/platform/validator"
)

// FormID identifies this form in form_submit_success actions.
const FormID = "form-leads"

// Copy shown to the visitor.
const (
	MessageSuccess       = "報名成功！感謝您的填寫。"
	MessageFailurePrefix = "報名失敗："
	MessageRetryLater    = "請稍後再試"
)

// ErrSubmitInProgress rejects a submit while another one is pending.
var ErrSubmitInProgress = apperr.Conflict("a submission is already in progress")

// Level is the style of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message for the visitor.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier delivers notifications to the visitor.
type Notifier interface {
	Notify(n Notification)
}

// Tracker is the part of the event tracker the form needs.
type Tracker interface {
	Track(actionType string, details map[string]any)
}

// Submission is the result of an attempted lead write.
type Submission struct {
	Outcome      Outcome      `json:"outcome"`
	Notification Notification `json:"notification"`
	Lead         Lead         `json:"lead"`
	Err          error        `json:"-"`
}

// leadInput carries the presence rules; name and email are required.
type leadInput struct {
	Name  string `validate:"required,notblank"`
	Email string `validate:"required,notblank"`
	Phone string
}

// Controller owns the form draft and serializes submissions.
type Controller struct {
	store       rowstore.Inserter
	tracker     Tracker
	notifier    Notifier
	val         *validator.Validator
	log         *logger.Logger
	phoneRegion string

	state atomic.Int32

	mu    sync.Mutex
	draft Draft
}

// NewController creates an idle controller with an empty draft.
// phoneRegion opts in to E.164 phone normalisation; empty keeps phones as typed.
func NewController(store rowstore.Inserter, tracker Tracker, notifier Notifier, val *validator.Validator, log *logger.Logger, phoneRegion string) *Controller {
	return &Controller{
		store:       store,
		tracker:     tracker,
		notifier:    notifier,
		val:         val,
		log:         log,
		phoneRegion: phoneRegion,
	}
}

// State returns the current submit state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetField records one keystroke's worth of input.
func (c *Controller) SetField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.set(field, value)
}

// Update applies several field edits at once and returns the new draft.
func (c *Controller) Update(patch DraftPatch) Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.apply(patch)
	return c.draft
}

// Submit writes the current draft as a lead.
//
// A draft missing name or email is rejected with a validation error before
// any write. A call made while another submission is pending returns
// ErrSubmitInProgress and writes nothing. Otherwise the outcome is reported
// through the notifier and returned; store failures are not returned as
// errors. The controller is back in StateIdle when Submit returns, whatever
// happened during the write.
func (c *Controller) Submit(ctx context.Context) (Submission, error) {
	lead, err := c.prepare(c.Draft())
	if err != nil {
		return Submission{}, err
	}

	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateSubmitting)) {
		return Submission{}, ErrSubmitInProgress
	}
	defer c.state.Store(int32(StateIdle))

	if err := c.insert(ctx, lead); err != nil {
		c.log.LeadSubmitFailed(err)
		n := failureNotification(err)
		c.notifier.Notify(n)
		return Submission{Outcome: OutcomeFailure, Notification: n, Lead: lead, Err: err}, nil
	}

	n := Notification{Level: LevelSuccess, Message: MessageSuccess}
	c.notifier.Notify(n)
	c.reset()
	c.tracker.Track(tracking.ActionFormSubmitSuccess, map[string]any{"formId": FormID})
	c.log.LeadSubmitted(lead.Phone != nil)

	return Submission{Outcome: OutcomeSuccess, Notification: n, Lead: lead}, nil
}

// prepare checks presence on the cleaned fields but writes the draft as
// typed. Phones are only rewritten when a region is configured.
func (c *Controller) prepare(d Draft) (Lead, error) {
	in := leadInput{
		Name:  sanitize.Field(d.Name),
		Email: sanitize.Field(d.Email),
		Phone: sanitize.Field(d.Phone),
	}
	if err := c.val.Struct(in); err != nil {
		missing := validator.MissingFields(err)
		msg := "name and email are required"
		if len(missing) > 0 {
			msg = strings.Join(missing, ", ") + " required"
		}
		return Lead{}, apperr.Validation(msg).WithDetails(map[string]any{"missing": missing})
	}

	lead := Lead{Name: d.Name, Email: d.Email}
	if d.Phone != "" {
		p := d.Phone
		if c.phoneRegion != "" {
			p = phone.NormalizeE164(p, c.phoneRegion)
		}
		lead.Phone = &p
	}
	return lead, nil
}

// insert turns a panicking store into an ordinary failure.
func (c *Controller) insert(ctx context.Context, lead Lead) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Wrap(apperr.KindInternal, "unexpected error", fmt.Errorf("panic: %v", r))
		}
	}()
	return c.store.Insert(ctx, rowstore.TableUserLeads, lead.Row())
}

func (c *Controller) reset() {
	c.mu.Lock()
	c.draft = Draft{}
	c.mu.Unlock()
}

func failureNotification(err error) Notification {
	msg := apperr.Message(err)
	if msg == "" {
		msg = MessageRetryLater
	}
	return Notification{Level: LevelError, Message: MessageFailurePrefix + msg}
}
