package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	httpapi "github.com/jb04032000/offline-notes/internal/client/api"
	"github.com/jb04032000/offline-notes/internal/client/queue"
	"github.com/jb04032000/offline-notes/internal/client/storage"
	"github.com/jb04032000/offline-notes/internal/models"
	"github.com/jb04032000/offline-notes/pkg/api"
)

// maxDeliveryAttempts bounds retries per mutation within one drain pass.
// After the final failed attempt the mutation stays queued for the next pass.
const maxDeliveryAttempts = 3

// DefaultRetryDelay is the backoff unit between delivery attempts: attempt
// n waits n units before retrying.
const DefaultRetryDelay = time.Second

// Trigger identifies what woke the scheduler
type Trigger int

const (
	// TriggerOnline fires when connectivity is regained
	TriggerOnline Trigger = iota
	// TriggerScheduled fires on the periodic background wake-up
	TriggerScheduled
	// TriggerManual fires on an explicit user request
	TriggerManual
)

func (t Trigger) String() string {
	switch t {
	case TriggerOnline:
		return "online"
	case TriggerScheduled:
		return "scheduled"
	case TriggerManual:
		return "manual"
	default:
		return "unknown"
	}
}

// DrainResult summarizes one drain pass over the mutation queue
type DrainResult struct {
	Delivered int
	Failed    int
	Remaining int
}

// Scheduler drains the mutation queue against the server. It holds the
// shared gate for the whole pass, so reconciliation never interleaves with
// a drain.
type Scheduler struct {
	apiClient  httpapi.ClientAPI
	notes      storage.NoteStorage
	queue      *queue.Queue
	metadata   storage.MetadataStorage
	gate       *Gate
	events     *Broadcaster
	logger     *slog.Logger
	retryDelay time.Duration
}

func NewScheduler(
	apiClient httpapi.ClientAPI,
	noteStorage storage.NoteStorage,
	q *queue.Queue,
	metadataStorage storage.MetadataStorage,
	gate *Gate,
	events *Broadcaster,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		apiClient:  apiClient,
		notes:      noteStorage,
		queue:      q,
		metadata:   metadataStorage,
		gate:       gate,
		events:     events,
		logger:     logger,
		retryDelay: DefaultRetryDelay,
	}
}

// SetRetryDelay overrides the backoff unit between delivery attempts
func (s *Scheduler) SetRetryDelay(d time.Duration) {
	s.retryDelay = d
}

// RunScheduledSync performs one drain pass over the queue. If another pass
// or a reconciliation holds the gate, the call returns ErrInFlight and the
// request is coalesced into a follow-up pass run by the current holder.
func (s *Scheduler) RunScheduledSync(ctx context.Context) (*DrainResult, error) {
	if !s.gate.TryAcquire() {
		s.gate.MarkPending()
		return nil, ErrInFlight
	}

	var (
		result *DrainResult
		err    error
	)
	for {
		result, err = s.drain(ctx)

		// Coalesced requests that arrived during the pass get exactly one
		// follow-up pass.
		if !s.gate.Release() {
			break
		}
		if !s.gate.TryAcquire() {
			break
		}
	}
	return result, err
}

// Listen consumes trigger events until the context is done. Bursts of
// triggers collapse into a single pass.
func (s *Scheduler) Listen(ctx context.Context, triggers <-chan Trigger) {
	for {
		select {
		case <-ctx.Done():
			return
		case trig, ok := <-triggers:
			if !ok {
				return
			}
		coalesce:
			for {
				select {
				case <-triggers:
				default:
					break coalesce
				}
			}

			s.logger.Debug("sync triggered", "trigger", trig.String())
			if _, err := s.RunScheduledSync(ctx); err != nil && !errors.Is(err, ErrInFlight) {
				s.logger.Error("scheduled sync failed", "trigger", trig.String(), "error", err)
			}
		}
	}
}

// TrySync runs a best-effort drain after a local mutation. An in-flight
// pass is not an error: the mutation is durable and will be picked up by
// the coalesced follow-up.
func (s *Scheduler) TrySync(ctx context.Context) {
	if _, err := s.RunScheduledSync(ctx); err != nil && !errors.Is(err, ErrInFlight) {
		s.logger.Warn("background sync attempt failed", "error", err)
	}
}

func (s *Scheduler) drain(ctx context.Context) (*DrainResult, error) {
	s.events.Publish(Status{Syncing: true})

	result, err := s.drainQueue(ctx)
	succeeded := err == nil && result.Failed == 0

	s.recordOutcome(ctx, succeeded)
	s.events.Publish(Status{Syncing: false, Succeeded: succeeded})

	return result, err
}

func (s *Scheduler) drainQueue(ctx context.Context) (*DrainResult, error) {
	result := &DrainResult{}

	mutations, err := s.queue.Snapshot(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to snapshot queue: %w", err)
	}

	for _, snapshot := range mutations {
		if err := ctx.Err(); err != nil {
			result.Remaining = len(mutations) - result.Delivered
			return result, err
		}

		// Re-read the stored entry: an upsert since the snapshot carries a
		// fresher payload under the same key.
		mutation, err := s.queue.Get(ctx, snapshot.ID)
		if errors.Is(err, storage.ErrMutationNotFound) {
			continue
		}
		if err != nil {
			result.Failed++
			s.logger.Error("failed to read queued mutation",
				"mutation_id", snapshot.ID,
				"error", err,
			)
			continue
		}

		if err := s.deliverWithRetry(ctx, mutation); err != nil {
			// The mutation stays queued; siblings still get their turn
			result.Failed++
			s.logger.Warn("mutation delivery failed",
				"mutation_id", mutation.ID,
				"method", string(mutation.Method),
				"error", err,
			)
			continue
		}

		confirmed, err := s.queue.Confirm(ctx, mutation.ID, mutation.Timestamp)
		if err != nil {
			result.Failed++
			s.logger.Error("failed to confirm delivered mutation",
				"mutation_id", mutation.ID,
				"error", err,
			)
			continue
		}
		if !confirmed {
			// Superseded while in flight; the newer entry keeps its place in
			// the queue and the note keeps its pending flags.
			s.logger.Debug("mutation superseded during delivery",
				"mutation_id", mutation.ID,
			)
			continue
		}

		if err := s.settle(ctx, mutation); err != nil {
			result.Failed++
			s.logger.Error("failed to settle delivered mutation",
				"mutation_id", mutation.ID,
				"error", err,
			)
			continue
		}
		result.Delivered++

		s.logger.Info("mutation delivered",
			"mutation_id", mutation.ID,
			"method", string(mutation.Method),
		)
	}

	remaining, err := s.queue.Len(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to measure queue: %w", err)
	}
	result.Remaining = remaining

	return result, nil
}

// deliverWithRetry attempts delivery up to maxDeliveryAttempts times with a
// linearly growing delay. Only transient failures are retried.
func (s *Scheduler) deliverWithRetry(ctx context.Context, mutation *models.Mutation) error {
	backoff := retry.WithMaxRetries(maxDeliveryAttempts-1, linearBackoff(s.retryDelay))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := s.deliver(ctx, mutation)
		if err != nil {
			s.logger.Debug("delivery attempt failed",
				"mutation_id", mutation.ID,
				"attempt", attempt,
				"error", err,
			)
		}
		return err
	})
}

// linearBackoff waits attempt*unit before the next try
func linearBackoff(unit time.Duration) retry.Backoff {
	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * unit, false
	})
}

func (s *Scheduler) deliver(ctx context.Context, mutation *models.Mutation) error {
	switch mutation.Method {
	case models.MutationCreate:
		return s.deliverCreate(ctx, mutation)
	case models.MutationUpdate:
		return s.deliverUpdate(ctx, mutation)
	case models.MutationDelete:
		return s.deliverDelete(ctx, mutation)
	default:
		return fmt.Errorf("unknown mutation method %q", mutation.Method)
	}
}

func (s *Scheduler) deliverCreate(ctx context.Context, mutation *models.Mutation) error {
	note, err := s.notes.GetNote(ctx, mutation.NoteID)
	if errors.Is(err, storage.ErrNoteNotFound) {
		// The note was discarded locally; nothing left to create
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load note: %w", err)
	}

	if note.ServerID != nil {
		// Already created, e.g. by a reconciliation pass or an earlier
		// delivery whose confirmation was superseded. Push the current
		// fields so a refreshed payload still lands.
		if note.Synced {
			return nil
		}
		req := api.EditNoteRequest{
			Title:   note.Title,
			Content: note.Content,
			Tags:    note.Tags,
		}
		if err := s.apiClient.UpdateNote(ctx, *note.ServerID, req); err != nil {
			return classify(err)
		}
		return nil
	}

	var req api.SaveNoteRequest
	if err := json.Unmarshal(mutation.Payload, &req); err != nil {
		return fmt.Errorf("failed to decode create payload: %w", err)
	}

	resp, err := s.apiClient.CreateNote(ctx, req)
	if err != nil {
		return classify(err)
	}

	// Reload before recording the server id: the note may have been edited
	// while the request was on the wire.
	note, err = s.notes.GetNote(ctx, mutation.NoteID)
	if errors.Is(err, storage.ErrNoteNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to reload note: %w", err)
	}

	note.ServerID = &resp.InsertedID
	note.Version = resp.Version
	if err := s.notes.SaveNote(ctx, note); err != nil {
		return fmt.Errorf("failed to record server id: %w", err)
	}
	return nil
}

func (s *Scheduler) deliverUpdate(ctx context.Context, mutation *models.Mutation) error {
	note, err := s.notes.GetNote(ctx, mutation.NoteID)
	if errors.Is(err, storage.ErrNoteNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load note: %w", err)
	}

	// A delete supersedes any buffered edit
	if note.DeletePending {
		return nil
	}
	if note.ServerID == nil {
		return fmt.Errorf("note %s has no server id yet", note.LocalID)
	}

	var req api.EditNoteRequest
	if err := json.Unmarshal(mutation.Payload, &req); err != nil {
		return fmt.Errorf("failed to decode update payload: %w", err)
	}

	if err := s.apiClient.UpdateNote(ctx, *note.ServerID, req); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Scheduler) deliverDelete(ctx context.Context, mutation *models.Mutation) error {
	note, err := s.notes.GetNote(ctx, mutation.NoteID)
	if errors.Is(err, storage.ErrNoteNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load note: %w", err)
	}

	if note.ServerID != nil {
		// "Already gone" comes back as success from the client
		if err := s.apiClient.DeleteNote(ctx, *note.ServerID); err != nil {
			return classify(err)
		}
	}
	return nil
}

// settle normalizes local state after a delivery was confirmed: a delete
// purges the record, anything else clears the pending flags. Flags stay
// untouched while any mutation for the note is still queued, so an edit
// racing with the delivery keeps its pending signal.
func (s *Scheduler) settle(ctx context.Context, mutation *models.Mutation) error {
	note, err := s.notes.GetNote(ctx, mutation.NoteID)
	if errors.Is(err, storage.ErrNoteNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load note: %w", err)
	}

	if mutation.Method == models.MutationDelete {
		if err := s.notes.PurgeNote(ctx, note.LocalID); err != nil {
			return fmt.Errorf("failed to purge note: %w", err)
		}
		return nil
	}

	queued, err := s.hasQueued(ctx, note.LocalID)
	if err != nil {
		return err
	}
	if queued {
		return nil
	}

	note.MarkSynced(time.Now().UTC())
	if err := s.notes.SaveNote(ctx, note); err != nil {
		return fmt.Errorf("failed to mark note synced: %w", err)
	}
	return nil
}

// hasQueued reports whether any mutation for the note is still queued
func (s *Scheduler) hasQueued(ctx context.Context, noteID string) (bool, error) {
	methods := []models.MutationMethod{
		models.MutationCreate,
		models.MutationUpdate,
		models.MutationDelete,
	}
	for _, method := range methods {
		_, err := s.queue.Get(ctx, models.MutationID(method, noteID))
		if errors.Is(err, storage.ErrMutationNotFound) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to check queue: %w", err)
		}
		return true, nil
	}
	return false, nil
}

// classify wraps transient server failures so the retry loop sees them as
// retryable. Permanent rejections pass through and abort the retries.
func classify(err error) error {
	if httpapi.IsTemporary(err) {
		return retry.RetryableError(err)
	}
	return err
}

func (s *Scheduler) recordOutcome(ctx context.Context, succeeded bool) {
	if err := s.metadata.SaveLastSyncAt(ctx, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to record sync time", "error", err)
	}
	if err := s.metadata.SaveLastSyncResult(ctx, succeeded); err != nil {
		s.logger.Warn("failed to record sync result", "error", err)
	}
}
