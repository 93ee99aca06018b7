package publisher

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dean3213321/inventory-pos/internal/domain"
	"github.com/dean3213321/inventory-pos/internal/repository"
)

const salesTopic = "pos-sales"

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OutboxPoller drains the outbox table into Kafka. Publication is at-least-
// once: an event is marked processed only after the broker accepts it. A
// slower recovery tick sweeps commits abandoned mid-pipeline by a crash.
type OutboxPoller struct {
	eventTick    time.Duration
	recoveryTick time.Duration
	stuckAfter   time.Duration
	batchSize    int
	repo         repository.RepoInterface
	writer       MessageWriter
}

func NewOutboxPoller(repo repository.RepoInterface, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  salesTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{
		eventTick:    time.Second,
		recoveryTick: 30 * time.Second,
		stuckAfter:   5 * time.Minute,
		batchSize:    100,
		repo:         repo,
		writer:       w,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	defer eventTicker.Stop()

	recoveryTicker := time.NewTicker(p.recoveryTick)
	defer recoveryTicker.Stop()

	for {
		select {
		case <-eventTicker.C:
			p.processUnpublishedEvents(ctx)
		case <-recoveryTicker.C:
			p.recoverStuckCommits(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, p.batchSize)
	if err != nil {
		log.Printf("failed to fetch events %v", err)
		return
	}

	for _, event := range events {
		if errPublish := p.publish(ctx, event); errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		if errMark := p.repo.MarkEventAsProcessed(ctx, event.ID); errMark != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}

// recoverStuckCommits closes commit rows abandoned in COMMITTING or
// STOCK_ADJUSTED by a crash between journal updates. The stock decrement may
// already have landed on the backend, so the row is closed as FAILED the same
// way a live partial commit is, never silently completed.
func (p *OutboxPoller) recoverStuckCommits(ctx context.Context) {
	commits, err := p.repo.GetStuckCommits(ctx, time.Now().Add(-p.stuckAfter))
	if err != nil {
		log.Printf("failed to fetch stuck commits %v", err)
		return
	}

	for _, commit := range commits {
		if errUpdate := p.repo.UpdateCommitStatus(ctx, commit.ID, domain.CommitStatusFailed); errUpdate != nil {
			log.Printf("failed to recover stuck commit id = %v with error %v", commit.ID, errUpdate)
			continue
		}
		log.Printf("recovered stuck commit id = %v from status %v", commit.ID, commit.Status)
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *repository.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // commit_id for ordering
		Value: event.Payload,             // Already JSON from database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}
