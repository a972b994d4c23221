package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"registrar/internal/dto"
	"registrar/internal/model"
	"registrar/internal/submission"
)

type Service interface {
	Submit(ctx *ginext.Context)
	Health(ctx *ginext.Context)
}

// Submitter validates and stores one registration form.
type Submitter interface {
	Submit(ctx context.Context, form model.RegistrationForm) submission.Result
}

// Publisher receives a JSON message for every stored registration.
type Publisher interface {
	Publish(ctx context.Context, message []byte) error
}

type service struct {
	submitter Submitter
	log       *zerolog.Logger
	publisher Publisher
}

// NewService wires the HTTP handlers. publisher may be nil, in which case
// stored registrations are not announced.
func NewService(submitter Submitter, logger *zerolog.Logger, publisher Publisher) Service {
	return &service{
		submitter: submitter,
		log:       logger,
		publisher: publisher,
	}
}

func (s *service) Submit(ctx *ginext.Context) {
	var req model.RegistrationForm
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse registration request")
		dto.InvalidJSONError(ctx)
		return
	}

	res := s.submitter.Submit(ctx.Request.Context(), req)
	switch res.Outcome {
	case submission.OutcomeSuccess:
		s.publishCreated(ctx.Request.Context(), res.Row)
		dto.SuccessCreatedResponse(ctx, res.Message)
	case submission.OutcomeValidationFailure:
		dto.BadResponseError(ctx, res.Kind, res.Message)
	default:
		dto.InternalServerError(ctx, res.Message, res.Detail)
	}
}

func (s *service) Health(ctx *ginext.Context) {
	dto.HealthOK(ctx)
}

func (s *service) publishCreated(ctx context.Context, row *model.Registration) {
	if s.publisher == nil || row == nil {
		return
	}

	payload, err := json.Marshal(dto.RegistrationCreatedMessage{
		RegistrationID: row.ID,
		Name:           row.Name,
		Branch:         row.Branch,
		Batch:          row.Batch,
		PaymentMethod:  row.PaymentMethod,
		TransactionID:  row.TransactionID,
		CreatedAt:      row.CreatedAt,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal registration message")
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.log.Error().Err(err).Str("registration_id", row.ID).Msg("failed to publish registration message to RabbitMQ")
	}
}
