package consumerWorker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"registrar/internal/dto"
	"registrar/internal/rabbit"
)

type Consumer interface {
	Consume(handler func([]byte) error) error
}

type Notifier interface {
	SendRegistrationPending(reg dto.RegistrationCreatedMessage) error
}

// Reader forwards registration-created messages to the organizer.
type Reader struct {
	consumer Consumer
	notifier Notifier
	log      *zerolog.Logger
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewReader(consumer Consumer, notifier Notifier, log *zerolog.Logger) *Reader {
	return &Reader{
		consumer: consumer,
		notifier: notifier,
		log:      log,
		done:     make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.log.Info().Msg("RabbitMQ reader started")

	go func() {
		defer close(r.done)

		if err := r.consumer.Consume(r.handle); err != nil {
			r.log.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		r.log.Info().Msg("RabbitMQ reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

func (r *Reader) handle(body []byte) error {
	var msg dto.RegistrationCreatedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		r.log.Error().Err(err).Msgf("Failed to unmarshal message: %s", string(body))
		return fmt.Errorf("%w: %v", rabbit.ErrDiscard, err)
	}
	if msg.RegistrationID == "" {
		r.log.Error().Msgf("Message without registration id: %s", string(body))
		return fmt.Errorf("%w: missing registration id", rabbit.ErrDiscard)
	}

	r.log.Info().
		Str("registration_id", msg.RegistrationID).
		Msg("Received registration from RabbitMQ")

	if err := r.notifier.SendRegistrationPending(msg); err != nil {
		r.log.Warn().
			Err(err).
			Str("registration_id", msg.RegistrationID).
			Msg("Failed to notify organizer")
		return err
	}
	return nil
}
