// Package events fans out ledger commit notifications. Publication is
// best-effort and always happens after the ledger transaction is accepted;
// a publish failure never affects committed state.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Subjects published after the corresponding ledger commits.
const (
	SubjectAssignmentCreated  = "acad.assignment.created"
	SubjectSubmissionRecorded = "acad.submission.recorded"
	SubjectGradeRecorded      = "acad.grade.recorded"
)

// Event is the payload fanned out to subscribers. It carries identifiers
// only; pointers, ciphertexts, and key material never leave the ledger
// through this path.
type Event struct {
	Subject      string    `json:"subject"`
	AssignmentID uint      `json:"assignment_id,omitempty"`
	ModuleID     uint      `json:"module_id,omitempty"`
	Student      string    `json:"student,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher sends events over NATS and mirrors them to a Redis stream. Both
// sinks are optional; a nil connection disables that sink.
type Publisher struct {
	nats        *nats.Conn
	redis       *redis.Client
	redisStream string
	logger      zerolog.Logger
}

// NewPublisher builds the fan-out publisher.
func NewPublisher(natsConn *nats.Conn, redisClient *redis.Client, stream string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		nats:        natsConn,
		redis:       redisClient,
		redisStream: stream,
		logger:      logger.With().Str("component", "events").Logger(),
	}
}

// Publish fans the event out to the configured sinks. Errors are logged and
// swallowed.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("subject", event.Subject).Msg("failed to encode event")
		return
	}

	if p.nats != nil {
		if err := p.nats.Publish(event.Subject, payload); err != nil {
			p.logger.Warn().Err(err).Str("subject", event.Subject).Msg("nats publish failed")
		}
	}

	if p.redis != nil && p.redisStream != "" {
		err := p.redis.XAdd(ctx, &redis.XAddArgs{
			Stream: p.redisStream,
			Values: map[string]interface{}{"event": payload},
		}).Err()
		if err != nil {
			p.logger.Warn().Err(err).Str("subject", event.Subject).Msg("redis stream publish failed")
		}
	}
}
