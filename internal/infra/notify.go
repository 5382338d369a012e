package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// NOTIFY payloads are capped at 8000 bytes by Postgres.
const maxNotifyPayload = 7900

type PgPublisher struct {
	pool    *pgxpool.Pool
	channel string
}

func NewPgPublisher(pool *pgxpool.Pool, channel string) ports.EventPublisher {
	return &PgPublisher{pool: pool, channel: channel}
}

func (p *PgPublisher) Publish(ctx context.Context, ev models.Event) error {
	raw, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, p.channel, string(raw)); err != nil {
		return fmt.Errorf("pg_notify: %w", err)
	}
	return nil
}

// encodeEvent drops the payload when the whole event would not fit into a
// notification; clients refetch the campaign in that case.
func encodeEvent(ev models.Event) ([]byte, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	if len(raw) <= maxNotifyPayload {
		return raw, nil
	}
	ev.Payload = nil
	return json.Marshal(ev)
}

// PgListener LISTENs on the events channel and decodes notifications.
type PgListener struct {
	dsn     string
	channel string
	events  chan models.Event
	log     *logger.ZapLogger
}

func NewPgListener(dsn, channel string, log *logger.ZapLogger) *PgListener {
	return &PgListener{
		dsn:     dsn,
		channel: channel,
		events:  make(chan models.Event, 256),
		log:     log,
	}
}

func (l *PgListener) Events() <-chan models.Event {
	return l.events
}

// Run blocks until ctx is done and then closes the events channel.
func (l *PgListener) Run(ctx context.Context) error {
	defer close(l.events)

	listener := pq.NewListener(l.dsn, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.log.Log(logger.LogEntry{
				Level:   "warn",
				Message: "[LISTEN] connection event",
				Fields:  map[string]any{"event": int(ev)},
				Error:   err,
			})
		}
	})
	defer listener.Close()

	if err := listener.Listen(l.channel); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}

	l.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "[LISTEN] started",
		Fields:  map[string]any{"channel": l.channel},
	})

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ping.C:
			go listener.Ping()

		case n := <-listener.Notify:
			// nil after a reconnect
			if n == nil {
				continue
			}

			var ev models.Event
			if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
				l.log.Log(logger.LogEntry{
					Level:   "warn",
					Message: "[LISTEN] bad payload",
					Error:   err,
				})
				continue
			}

			select {
			case l.events <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

var _ ports.EventSource = (*PgListener)(nil)
