// Package notify fans job-run outcomes out to persistence, the event bus
// and operator channels. Every observer is best-effort: failures are logged
// and never affect the run that produced the event.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"

	"github.com/billops/backoffice/internal/domain"
	redisstore "github.com/billops/backoffice/internal/store/redis"
)

// HistoryRecorder persists every run in the job_runs history table.
type HistoryRecorder struct {
	runs domain.JobRunRepository
	log  zerolog.Logger
}

func NewHistoryRecorder(runs domain.JobRunRepository, log zerolog.Logger) *HistoryRecorder {
	return &HistoryRecorder{runs: runs, log: log.With().Str("component", "run-history").Logger()}
}

func (h *HistoryRecorder) ObserveRun(ctx context.Context, run *domain.JobRun) {
	if err := h.runs.Record(ctx, run); err != nil {
		h.log.Error().Err(err).Str("job", run.JobName).Msg("failed to record job run")
	}
}

// RunEvent is the wire shape published to the event bus and streamed to
// websocket subscribers.
type RunEvent struct {
	JobName    string `json:"job_name"`
	Trigger    string `json:"trigger"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
	Affected   int64  `json:"affected"`
	Error      string `json:"error,omitempty"`
}

// EventPublisher pushes run events onto the Redis jobs channel.
type EventPublisher struct {
	bus *redisstore.PubSub
	log zerolog.Logger
}

func NewEventPublisher(bus *redisstore.PubSub, log zerolog.Logger) *EventPublisher {
	return &EventPublisher{bus: bus, log: log.With().Str("component", "run-events").Logger()}
}

func (p *EventPublisher) ObserveRun(ctx context.Context, run *domain.JobRun) {
	payload, err := json.Marshal(RunEvent{
		JobName:    run.JobName,
		Trigger:    string(run.Trigger),
		StartedAt:  run.StartedAt.Format(time.RFC3339),
		FinishedAt: run.FinishedAt.Format(time.RFC3339),
		Affected:   run.Affected,
		Error:      run.Error,
	})
	if err != nil {
		p.log.Error().Err(err).Str("job", run.JobName).Msg("failed to marshal run event")
		return
	}

	if err := p.bus.Publish(ctx, redisstore.JobRunsChannel(), payload); err != nil {
		p.log.Error().Err(err).Str("job", run.JobName).Msg("failed to publish run event")
	}
}

// SlackMessenger is the subset of the Slack client the notifier needs.
type SlackMessenger interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier alerts an operator channel when a run fails. Successful runs
// stay quiet.
type SlackNotifier struct {
	client  SlackMessenger
	channel string
	log     zerolog.Logger
}

func NewSlackNotifier(client SlackMessenger, channel string, log zerolog.Logger) *SlackNotifier {
	return &SlackNotifier{
		client:  client,
		channel: channel,
		log:     log.With().Str("component", "slack-notifier").Logger(),
	}
}

func (n *SlackNotifier) ObserveRun(ctx context.Context, run *domain.JobRun) {
	if run.Succeeded() {
		return
	}

	msg := fmt.Sprintf(":rotating_light: job *%s* (%s) failed after %s: %s",
		run.JobName, run.Trigger, run.Duration().Round(time.Millisecond), run.Error)

	if _, _, err := n.client.PostMessageContext(ctx, n.channel, slack.MsgOptionText(msg, false)); err != nil {
		n.log.Error().Err(err).Str("job", run.JobName).Msg("failed to send failure alert")
	}
}
