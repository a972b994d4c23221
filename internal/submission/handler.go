package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"registrar/internal/dto"
	"registrar/internal/model"
	"registrar/pkg/validator"
)

// Store persists one registration row and returns the row as stored.
type Store interface {
	InsertUser(ctx context.Context, reg *model.Registration) (*model.Registration, error)
}

// serverChecks is the order in which the server re-validates a form. The first
// three keep the historic order and error tokens; the rest cover the fields
// that used to be checked only by the browser.
var serverChecks = []validator.Field{
	validator.FieldName,
	validator.FieldWhatsappNumber,
	validator.FieldSendMoneyNumber,
	validator.FieldBranch,
	validator.FieldBatch,
	validator.FieldPaymentMethod,
	validator.FieldTransactionID,
}

type Handler struct {
	store Store
	log   *zerolog.Logger
	now   func() time.Time
}

type Option func(*Handler)

// WithClock replaces the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

func NewHandler(store Store, log *zerolog.Logger, opts ...Option) *Handler {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	h := &Handler{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Submit validates form and inserts it with status pending. It never panics
// and never returns an error: every failure is reported through Result.
func (h *Handler) Submit(ctx context.Context, form model.RegistrationForm) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			h.log.Error().Interface("panic", p).Msg("unexpected error while submitting registration")
			res = storeFailure(dto.MessageUnexpectedError, fmt.Sprint(p))
		}
	}()

	for _, field := range serverChecks {
		if kind, msg, ok := validator.CheckServer(field, form.FieldValue(field)); !ok {
			h.log.Info().Str("field", string(field)).Str("kind", kind).Msg("registration rejected")
			return validationFailure(kind, msg)
		}
	}

	if h.store == nil {
		return storeFailure(dto.MessageStoreFailed, "store is not configured")
	}

	row := model.NewPendingRegistration(form, h.now())
	inserted, err := h.store.InsertUser(ctx, row)
	if err != nil {
		h.log.Error().Err(err).Msg("error inserting registration")
		return storeFailure(dto.MessageStoreFailed, err.Error())
	}
	if inserted == nil {
		inserted = row
	}

	h.log.Info().
		Str("registration_id", inserted.ID).
		Str("branch", inserted.Branch).
		Msg("registration stored as pending")

	return Result{
		Outcome: OutcomeSuccess,
		Message: dto.MessageSubmitted,
		Row:     inserted,
	}
}
