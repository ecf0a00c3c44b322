package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"parallax/internal/dto"
	"parallax/internal/entity"
	"parallax/internal/pkg/logger"
	"parallax/internal/repository/contract"
	"parallax/pkg/card"
	"parallax/pkg/events"
	"parallax/pkg/fulfiller"
	"parallax/pkg/natsbus"
	"parallax/pkg/store"

	"github.com/google/uuid"
)

type IFulfillmentService interface {
	// Submit runs the synchronous fulfillers inline, dispatches the rest as
	// background jobs, and answers with the session's current card set plus
	// the processing flag.
	Submit(ctx context.Context, req *dto.FulfillRequest) (*dto.FulfillResponse, error)

	// Cached returns the session's current accumulated card set. Unknown
	// sessions answer empty and not-processing; reading has no side effects.
	Cached(ctx context.Context, sessionID string) (*dto.FulfillResponse, error)

	// Clear discards session state. Clearing an unknown session is a no-op.
	Clear(ctx context.Context, sessionID string) error

	// ApplyJobResult lands one asynchronous fulfiller's cards. Results from a
	// superseded cycle are dropped. Returns the post-merge snapshot when the
	// result was applied.
	ApplyJobResult(ctx context.Context, job *dto.FulfillJobMessage, cards []card.Card, jobErr error) (*dto.FulfillResponse, bool, error)

	Health(ctx context.Context) *dto.HealthResponse
	SendEmailCard(ctx context.Context, sessionID string, req *dto.SendEmailCardRequest) error
	SessionCount(ctx context.Context) int
}

type fulfillmentService struct {
	registry         *fulfiller.Registry
	sessions         contract.ISessionRepository
	publisherService IPublisherService
	logRepo          contract.IFulfillmentLogRepository // nil disables the audit log
	eventPublisher   *natsbus.Publisher                 // nil disables bus events
	mailer           EmailSender
	log              logger.ILogger

	// Serializes session read-modify-write cycles within this instance.
	mu sync.Mutex
}

// EmailSender is the slice of the mailer the service needs.
type EmailSender interface {
	SendDraft(toEmail, subject, body string) error
}

func NewFulfillmentService(
	registry *fulfiller.Registry,
	sessions contract.ISessionRepository,
	publisherService IPublisherService,
	logRepo contract.IFulfillmentLogRepository,
	eventPublisher *natsbus.Publisher,
	mailer EmailSender,
	log logger.ILogger,
) IFulfillmentService {
	return &fulfillmentService{
		registry:         registry,
		sessions:         sessions,
		publisherService: publisherService,
		logRepo:          logRepo,
		eventPublisher:   eventPublisher,
		mailer:           mailer,
		log:              log,
	}
}

func (s *fulfillmentService) Submit(ctx context.Context, req *dto.FulfillRequest) (*dto.FulfillResponse, error) {
	freq := fulfiller.Request{
		DocumentText: req.DocumentText,
		Cursor:       card.Position{Line: req.Cursor[0], Col: req.Cursor[1]},
		Workspace: card.Workspace{
			ScopeRoot: req.Context.ScopeRoot,
			PlanPath:  req.Context.PlanPath,
		},
	}

	syncFs, asyncFs := s.registry.Split(ctx)

	// Run the cheap fulfillers inline. A failing fulfiller is logged and
	// skipped; it never fails the submit.
	type inlineRun struct {
		name  string
		count int
		dur   time.Duration
		err   error
	}
	var immediate []card.Card
	var runs []inlineRun
	for _, f := range syncFs {
		started := time.Now()
		cards, err := f.Fulfill(ctx, freq)
		runs = append(runs, inlineRun{name: f.Name(), count: len(cards), dur: time.Since(started), err: err})
		if err != nil {
			s.log.Warn("Fulfillment", "Inline fulfiller failed", map[string]interface{}{
				"fulfiller": f.Name(), "error": err.Error(),
			})
			continue
		}
		immediate = append(immediate, cards...)
	}

	s.mu.Lock()
	session, found, err := s.sessions.Get(ctx, req.SessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !found {
		session = &store.Session{ID: req.SessionID}
	}

	// New cycle supersedes the previous one: pending counts reset, the cycle
	// counter bump makes any in-flight job results stale on arrival.
	session.Cycle++
	session.Pending = len(asyncFs)
	session.Merge(immediate)

	if err := s.sessions.Save(ctx, session); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	snapshot := snapshotOf(session)
	cycle := session.Cycle
	s.mu.Unlock()

	for _, run := range runs {
		s.audit(ctx, req.SessionID, cycle, run.name, run.count, run.dur, run.err)
	}

	dispatchFailed := false
	for _, f := range asyncFs {
		job := dto.FulfillJobMessage{
			SessionID:    req.SessionID,
			Cycle:        cycle,
			Fulfiller:    f.Name(),
			DocumentText: req.DocumentText,
			CursorLine:   req.Cursor[0],
			CursorCol:    req.Cursor[1],
			ScopeRoot:    req.Context.ScopeRoot,
			PlanPath:     req.Context.PlanPath,
		}
		payload, err := json.Marshal(job)
		if err != nil {
			return nil, err
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			// Dispatch failure means this fulfiller will never land; undo its
			// pending slot so the client does not poll forever.
			s.log.Error("Fulfillment", "Failed to dispatch job", map[string]interface{}{
				"fulfiller": f.Name(), "error": err.Error(),
			})
			s.decrementPending(ctx, req.SessionID, cycle)
			dispatchFailed = true
		}
	}
	if dispatchFailed {
		// Jobs that did go out are still pending, so report the flag from the
		// session rather than assuming the whole cycle is dead.
		snapshot.Processing = s.stillProcessing(ctx, req.SessionID, cycle)
	}

	s.emit(ctx, events.TypeFulfillmentRequested, map[string]interface{}{
		"session_id": req.SessionID,
		"cycle":      cycle,
		"dispatched": len(asyncFs),
	})

	return snapshot, nil
}

func (s *fulfillmentService) Cached(ctx context.Context, sessionID string) (*dto.FulfillResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, found, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &dto.FulfillResponse{Cards: []dto.CardResponse{}, Processing: false}, nil
	}
	return snapshotOf(session), nil
}

func (s *fulfillmentService) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	err := s.sessions.Delete(ctx, sessionID)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.emit(ctx, events.TypeSessionCleared, map[string]interface{}{"session_id": sessionID})
	return nil
}

func (s *fulfillmentService) ApplyJobResult(ctx context.Context, job *dto.FulfillJobMessage, cards []card.Card, jobErr error) (*dto.FulfillResponse, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, found, err := s.sessions.Get(ctx, job.SessionID)
	if err != nil {
		return nil, false, err
	}
	if !found || session.Cycle != job.Cycle {
		// Session cleared or superseded while the job ran.
		return nil, false, nil
	}

	if session.Pending > 0 {
		session.Pending--
	}
	if jobErr == nil {
		session.Merge(cards)
	} else {
		session.UpdatedAt = time.Now()
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, false, err
	}

	if session.Pending == 0 {
		s.emit(ctx, events.TypeFulfillmentCompleted, map[string]interface{}{
			"session_id": job.SessionID,
			"cycle":      job.Cycle,
			"cards":      len(session.Cards),
		})
	}
	return snapshotOf(session), true, nil
}

func (s *fulfillmentService) Health(ctx context.Context) *dto.HealthResponse {
	status := make(map[string]bool, len(s.registry.All()))
	for _, f := range s.registry.All() {
		status[f.Name()] = f.Available(ctx)
	}
	return &dto.HealthResponse{Status: "healthy", Fulfillers: status}
}

func (s *fulfillmentService) SendEmailCard(ctx context.Context, sessionID string, req *dto.SendEmailCardRequest) error {
	if s.mailer == nil {
		return fmt.Errorf("email delivery is not configured")
	}

	s.mu.Lock()
	session, found, err := s.sessions.Get(ctx, sessionID)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("session not found")
	}

	idx := 0
	for _, c := range session.Cards {
		if c.Kind != card.KindEmail {
			continue
		}
		if idx == req.CardIndex {
			return s.mailer.SendDraft(req.To, c.Header, c.Text)
		}
		idx++
	}
	return fmt.Errorf("email card %d not found", req.CardIndex)
}

func (s *fulfillmentService) SessionCount(ctx context.Context) int {
	n, err := s.sessions.Count(ctx)
	if err != nil {
		return 0
	}
	return n
}

func (s *fulfillmentService) decrementPending(ctx context.Context, sessionID string, cycle uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, found, err := s.sessions.Get(ctx, sessionID)
	if err != nil || !found || session.Cycle != cycle {
		return
	}
	if session.Pending > 0 {
		session.Pending--
	}
	_ = s.sessions.Save(ctx, session)
}

func (s *fulfillmentService) stillProcessing(ctx context.Context, sessionID string, cycle uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, found, err := s.sessions.Get(ctx, sessionID)
	if err != nil || !found || session.Cycle != cycle {
		return false
	}
	return session.Processing()
}

func (s *fulfillmentService) audit(ctx context.Context, sessionID string, cycle uint64, name string, cardCount int, dur time.Duration, runErr error) {
	if s.logRepo == nil {
		return
	}
	entry := &entity.FulfillmentLog{
		Id:         uuid.New(),
		SessionId:  sessionID,
		Cycle:      cycle,
		Fulfiller:  name,
		CardCount:  cardCount,
		DurationMs: dur.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.log.Warn("Fulfillment", "Audit write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *fulfillmentService) emit(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("Fulfillment", "Event publish failed", map[string]interface{}{
			"event": eventType, "error": err.Error(),
		})
	}
}

func snapshotOf(session *store.Session) *dto.FulfillResponse {
	return &dto.FulfillResponse{
		Cards:      dto.CardsToResponse(session.Cards),
		Processing: session.Processing(),
	}
}
