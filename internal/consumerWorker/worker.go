package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"c2creg/internal/dto"
	"c2creg/internal/mailer"
	"c2creg/internal/rabbit"
)

// Reader drains registration-created events and notifies the organizer
// desk mailbox. Issuance never waits on it.
type Reader struct {
	RMQ    *rabbit.Client
	smtp   mailer.Config
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, smtp mailer.Config) *Reader {
	return &Reader{
		RMQ:  rmq,
		smtp: smtp,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("registration notification reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.RegistrationCreatedMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Str("ticket_id", msg.TicketID).
				Msg("Received registration-created message")

			if err := mailer.SendRegistrationNotice(
				&zlog.Logger,
				r.smtp,
				msg.TicketID,
				msg.Name,
				msg.Instagram,
				msg.PhoneNumber,
			); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Str("ticket_id", msg.TicketID).
					Msg("Failed to send desk notification")
			}

			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("registration notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
