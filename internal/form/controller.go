// Package form holds the client-side state of the registration form.
package form

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"registrar/internal/dto"
	"registrar/internal/model"
	"registrar/pkg/validator"
)

var (
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrInvalidForm    = errors.New("form has validation errors")
	ErrUnknownField   = errors.New("unknown form field")
)

// Submitter sends a form to the registration API.
type Submitter interface {
	Submit(ctx context.Context, form model.RegistrationForm) (dto.SubmissionResponse, error)
}

// Controller owns the working record, the per-field errors and the busy flag.
// It is safe for concurrent use; at most one submission is outstanding.
type Controller struct {
	mu        sync.Mutex
	submitter Submitter
	log       *zerolog.Logger
	form      model.RegistrationForm
	errors    map[validator.Field]string
	busy      bool
	last      *dto.SubmissionResponse
}

func New(submitter Submitter, log *zerolog.Logger) *Controller {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Controller{
		submitter: submitter,
		log:       log,
		errors:    make(map[validator.Field]string),
	}
}

// UpdateField overwrites one field and clears its error.
func (c *Controller) UpdateField(field validator.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.form.SetField(field, value) {
		return ErrUnknownField
	}
	delete(c.errors, field)
	return nil
}

// ValidateLocally checks the working record, replaces the error map with the
// result and returns a copy of it. An empty map means the record is acceptable.
func (c *Controller) ValidateLocally() map[validator.Field]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors = validator.CheckForm(c.form)
	return copyErrors(c.errors)
}

// Submit validates the record and, when it is acceptable, sends it. A call made
// while another is outstanding returns ErrSubmitInFlight without contacting
// the server. Transport failures are reported as an unsuccessful response.
func (c *Controller) Submit(ctx context.Context) (dto.SubmissionResponse, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return dto.SubmissionResponse{}, ErrSubmitInFlight
	}
	c.errors = validator.CheckForm(c.form)
	if len(c.errors) > 0 {
		c.mu.Unlock()
		return dto.SubmissionResponse{}, ErrInvalidForm
	}
	c.busy = true
	form := c.form
	c.mu.Unlock()

	var (
		resp dto.SubmissionResponse
		err  error
	)
	func() {
		defer func() {
			if p := recover(); p != nil {
				err = errors.New("submitter panicked")
				c.log.Error().Interface("panic", p).Msg("error submitting form")
			}
		}()
		resp, err = c.submitter.Submit(ctx, form)
	}()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if err != nil {
		c.log.Error().Err(err).Msg("error submitting form")
		resp = dto.SubmissionResponse{Success: false, Message: dto.MessageUnexpectedError}
	}
	c.last = &resp

	if resp.Success {
		c.form = model.RegistrationForm{}
		c.errors = make(map[validator.Field]string)
		return resp, nil
	}

	if field, ok := validator.FieldForKind(resp.Error); ok {
		c.errors[field] = resp.Message
	}
	return resp, nil
}

// Clear resets the record and the errors.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = model.RegistrationForm{}
	c.errors = make(map[validator.Field]string)
}

func (c *Controller) Form() model.RegistrationForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Controller) Errors() map[validator.Field]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyErrors(c.errors)
}

func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// LastResponse returns the answer of the most recent completed submission.
func (c *Controller) LastResponse() (dto.SubmissionResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return dto.SubmissionResponse{}, false
	}
	return *c.last, true
}

func copyErrors(in map[validator.Field]string) map[validator.Field]string {
	out := make(map[validator.Field]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
