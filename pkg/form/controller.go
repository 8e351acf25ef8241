package form

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-siteform/pkg/dom"
	"github.com/goliatone/go-siteform/pkg/markup"
	"github.com/goliatone/go-siteform/pkg/notify"
	"github.com/goliatone/go-siteform/pkg/scheduler"
	"github.com/goliatone/go-siteform/pkg/submit"
	"github.com/goliatone/go-siteform/pkg/validation"
)

// ErrNoForm is returned when a Controller is built without a form element.
var ErrNoForm = errors.New("form: form element is required")

// State is a step of the submit flow.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateInvalid    State = "invalid"
	StateSubmitting State = "submitting"
	StateNavigating State = "navigating"
)

// Outcome summarises what one Submit call did.
type Outcome string

const (
	// OutcomeIgnored means another submission was already running.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeInvalid means validation failed and nothing was sent.
	OutcomeInvalid Outcome = "invalid"
	// OutcomeHoneypot means the honeypot was filled and nothing was sent.
	OutcomeHoneypot Outcome = "honeypot"
	// OutcomeSent means the payload went out; see Attempt.Result.
	OutcomeSent Outcome = "sent"
)

// Attempt reports the outcome of Submit. Result is only set for OutcomeSent.
type Attempt struct {
	Outcome Outcome
	Result  submit.Result
}

var submitButtonSelector = dom.All(dom.Tag("button"), dom.AttrEquals("type", "submit"))

// Controller owns the submit flow of one form element.
type Controller struct {
	opts      *options
	form      *dom.Element
	validator *validation.FormValidator
	notifier  notify.Notifier

	mu      sync.Mutex
	state   State
	detach  func()
	navTask scheduler.Timer
}

// NewController binds a Controller to form. Without a notifier option it
// mounts its own notification manager on the form's document.
func NewController(form *dom.Element, options ...Option) (*Controller, error) {
	if form == nil {
		return nil, ErrNoForm
	}
	opts := defaultOptions()
	opts.apply(options)

	notifier := opts.notifier
	if notifier == nil {
		notifier = notify.NewManager(form.Document(),
			notify.WithScheduler(opts.scheduler),
			notify.WithLocalizer(opts.localizer),
			notify.WithRenderer(opts.renderer),
		)
	}

	return &Controller{
		opts:      opts,
		form:      form,
		validator: validation.NewFormValidator(form, opts.validator, opts.formOptions...),
		notifier:  notifier,
		state:     StateIdle,
	}, nil
}

// Form returns the bound form element.
func (c *Controller) Form() *dom.Element {
	return c.form
}

// Validator returns the DOM-bound validator.
func (c *Controller) Validator() *validation.FormValidator {
	return c.validator
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attach installs the field listeners and the submit listener. Calling it
// twice has no extra effect.
func (c *Controller) Attach() {
	c.mu.Lock()
	if c.detach != nil {
		c.mu.Unlock()
		return
	}
	c.detach = c.form.On(dom.EventSubmit, c.handleSubmitEvent)
	c.mu.Unlock()
	c.validator.AttachListeners()
}

func (c *Controller) handleSubmitEvent(ev *dom.Event) {
	ev.PreventDefault()
	ev.StopPropagation()
	c.Submit(context.Background())
}

// Submit runs the flow once. It blocks for the duration of the request.
func (c *Controller) Submit(ctx context.Context) Attempt {
	if ctx == nil {
		ctx = context.Background()
	}
	if !c.transition(StateIdle, StateValidating) {
		return Attempt{Outcome: OutcomeIgnored}
	}

	if !c.validator.ValidateAll() {
		c.transition(StateValidating, StateInvalid)
		c.show(ctx, c.opts.localizer.T("form.invalid"), notify.SeverityDanger)
		c.transition(StateInvalid, StateIdle)
		return Attempt{Outcome: OutcomeInvalid}
	}

	if c.honeypotFilled() {
		c.transition(StateValidating, StateIdle)
		return Attempt{Outcome: OutcomeHoneypot}
	}

	c.transition(StateValidating, StateSubmitting)
	button, original := c.markBusy(ctx)

	payload := submit.Serialize(c.form)
	endpoint := c.resolve(c.opts.endpoint)
	result := c.opts.transport.Send(ctx, endpoint, payload)

	switch result.Outcome {
	case submit.OutcomeSuccess:
		c.show(ctx, c.opts.localizer.T("form.success"), notify.SeveritySuccess)
		c.transition(StateSubmitting, StateNavigating)
		c.scheduleNavigation(ctx, button, original)
	case submit.OutcomeRejected:
		message := result.Message
		if message == "" {
			message = c.opts.localizer.T("form.failed")
		}
		c.opts.logger.Warn(ctx, nil, "submission rejected", "endpoint", endpoint, "status", result.Status)
		c.show(ctx, message, notify.SeverityDanger)
		c.restore(button, original)
		c.transition(StateSubmitting, StateIdle)
	default:
		c.opts.logger.Warn(ctx, result.Err, "submission failed", "endpoint", endpoint)
		c.show(ctx, c.opts.localizer.T("form.network"), notify.SeverityDanger)
		c.restore(button, original)
		c.transition(StateSubmitting, StateIdle)
	}
	return Attempt{Outcome: OutcomeSent, Result: result}
}

// Close removes the submit listener and cancels a pending navigation.
func (c *Controller) Close() {
	c.mu.Lock()
	detach := c.detach
	c.detach = nil
	task := c.navTask
	c.navTask = nil
	c.mu.Unlock()
	if detach != nil {
		detach()
	}
	if task != nil {
		task.Stop()
	}
}

func (c *Controller) transition(from, to State) bool {
	c.mu.Lock()
	if c.state != from {
		c.mu.Unlock()
		return false
	}
	c.state = to
	hook := c.opts.onState
	c.mu.Unlock()
	if hook != nil {
		hook(from, to)
	}
	return true
}

func (c *Controller) honeypotFilled() bool {
	field := c.form.Query(dom.All(dom.Tag("input"), dom.AttrEquals("name", c.opts.honeypotField)))
	return field != nil && field.Value() != ""
}

func (c *Controller) markBusy(ctx context.Context) (*dom.Element, string) {
	button := c.form.Query(submitButtonSelector)
	if button == nil {
		return nil, ""
	}
	original := button.InnerHTML()
	button.SetDisabled(true)
	label := c.opts.localizer.T("form.sending")
	busy, err := markup.BusyLabel(c.opts.renderer, label)
	if err == nil {
		err = button.SetInnerHTML(busy)
	}
	if err != nil {
		c.opts.logger.Warn(ctx, err, "render busy label")
		button.SetText(label)
	}
	return button, original
}

func (c *Controller) restore(button *dom.Element, original string) {
	if button == nil {
		return
	}
	button.SetDisabled(false)
	if err := button.SetInnerHTML(original); err != nil {
		button.SetText(original)
	}
}

func (c *Controller) resolve(ref string) string {
	if c.opts.window == nil {
		return ref
	}
	target, err := c.opts.window.ResolveURL(ref)
	if err != nil {
		return ref
	}
	return target.String()
}

// scheduleNavigation moves to the confirmation page after the delay. When
// there is nowhere to go the form becomes usable again.
func (c *Controller) scheduleNavigation(ctx context.Context, button *dom.Element, original string) {
	window := c.opts.window
	if window == nil {
		c.restore(button, original)
		c.transition(StateNavigating, StateIdle)
		return
	}
	page := c.opts.confirmationPage
	task := c.opts.scheduler.AfterFunc(c.opts.navigationDelay, func() {
		if err := window.Navigate(page); err != nil {
			c.opts.logger.Error(ctx, err, "navigate to confirmation page", "page", page)
			c.restore(button, original)
			c.transition(StateNavigating, StateIdle)
		}
	})
	c.mu.Lock()
	c.navTask = task
	c.mu.Unlock()
}

func (c *Controller) show(ctx context.Context, message string, severity notify.Severity) {
	if _, err := c.notifier.Show(message, severity); err != nil {
		c.opts.logger.Warn(ctx, err, "show notification", "severity", string(severity))
	}
}
