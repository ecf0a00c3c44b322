package service

import (
	"context"
	"encoding/json"
	"time"

	"parallax/internal/dto"
	"parallax/internal/entity"
	"parallax/internal/pkg/logger"
	"parallax/internal/repository/contract"
	"parallax/internal/websocket"
	"parallax/pkg/card"
	"parallax/pkg/fulfiller"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IConsumerService drains the fulfill-jobs topic, running one asynchronous
// fulfiller per message and landing its cards in the session.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	registry   *fulfiller.Registry
	results    IFulfillmentService
	logRepo    contract.IFulfillmentLogRepository // nil disables the audit log
	hub        *websocket.Hub                     // nil disables observer pushes
	jobTimeout time.Duration
	log        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	registry *fulfiller.Registry,
	results IFulfillmentService,
	logRepo contract.IFulfillmentLogRepository,
	hub *websocket.Hub,
	jobTimeout time.Duration,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		registry:   registry,
		results:    results,
		logRepo:    logRepo,
		hub:        hub,
		jobTimeout: jobTimeout,
		log:        log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job dto.FulfillJobMessage
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.log.Error("Consumer", "Failed to unmarshal job", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed messages are never retriable
		return
	}

	f, ok := cs.registry.Get(job.Fulfiller)
	if !ok {
		cs.log.Error("Consumer", "Unknown fulfiller in job", map[string]interface{}{"fulfiller": job.Fulfiller})
		msg.Ack()
		return
	}

	req := fulfiller.Request{
		DocumentText: job.DocumentText,
		Cursor:       card.Position{Line: job.CursorLine, Col: job.CursorCol},
		Workspace:    card.Workspace{ScopeRoot: job.ScopeRoot, PlanPath: job.PlanPath},
	}

	runCtx, cancel := context.WithTimeout(ctx, cs.jobTimeout)
	started := time.Now()
	cards, runErr := f.Fulfill(runCtx, req)
	cancel()
	cs.audit(ctx, &job, len(cards), time.Since(started), runErr)

	if runErr != nil {
		cs.log.Warn("Consumer", "Fulfiller failed", map[string]interface{}{
			"fulfiller": job.Fulfiller, "session_id": job.SessionID, "error": runErr.Error(),
		})
	}

	snapshot, applied, err := cs.results.ApplyJobResult(ctx, &job, cards, runErr)
	if err != nil {
		cs.log.Error("Consumer", "Failed to apply job result", map[string]interface{}{
			"fulfiller": job.Fulfiller, "session_id": job.SessionID, "error": err.Error(),
		})
		msg.Nack()
		return
	}

	if applied && cs.hub != nil {
		cs.hub.BroadcastSession(job.SessionID, *snapshot)
	}
	msg.Ack()
}

func (cs *consumerService) audit(ctx context.Context, job *dto.FulfillJobMessage, cardCount int, dur time.Duration, runErr error) {
	if cs.logRepo == nil {
		return
	}
	entry := &entity.FulfillmentLog{
		Id:         uuid.New(),
		SessionId:  job.SessionID,
		Cycle:      job.Cycle,
		Fulfiller:  job.Fulfiller,
		CardCount:  cardCount,
		DurationMs: dur.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if err := cs.logRepo.Create(ctx, entry); err != nil {
		cs.log.Warn("Consumer", "Audit write failed", map[string]interface{}{"error": err.Error()})
	}
}
