package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avelev/review-system/internal/pkg/logger"
	"github.com/avelev/review-system/internal/usecase/review"
)

const (
	// Debounce window - collect events for the same product within this duration
	debounceWindow = 1 * time.Second

	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// RatingWorker consumes review lifecycle events and updates the denormalized
// product rating asynchronously, debouncing bursts per product.
type RatingWorker struct {
	calculator *Calculator
	logger     *logger.Logger

	mu             sync.Mutex
	pendingUpdates map[uuid.UUID]*pendingUpdate
	shutdownCh     chan struct{}
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
}

type pendingUpdate struct {
	productID uuid.UUID
	timestamp time.Time
	timer     *time.Timer
}

// NewRatingWorker creates a new rating worker
func NewRatingWorker(calculator *Calculator, logger *logger.Logger) *RatingWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &RatingWorker{
		calculator:     calculator,
		logger:         logger,
		pendingUpdates: make(map[uuid.UUID]*pendingUpdate),
		shutdownCh:     make(chan struct{}),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// HandleEvent processes a review lifecycle event
func (w *RatingWorker) HandleEvent(data []byte) error {
	var event review.Event
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.Error("Failed to unmarshal review event", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"event_type": event.EventType,
		"product_id": event.ProductID.String(),
		"review_id":  event.ReviewID.String(),
	}).Info("Received review event")

	w.scheduleUpdate(event.ProductID, event.Timestamp)

	return nil
}

// scheduleUpdate implements the debouncing: multiple events for the same
// product within the window collapse into a single recalculation.
func (w *RatingWorker) scheduleUpdate(productID uuid.UUID, timestamp time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.shutdownCh:
		w.logger.Info("Worker shutting down, ignoring new event")
		return
	default:
	}

	existing, found := w.pendingUpdates[productID]

	if found {
		// Ignore stale events
		if timestamp.Before(existing.timestamp) {
			w.logger.WithFields(map[string]interface{}{
				"product_id": productID.String(),
			}).Debug("Ignoring stale event")
			return
		}

		// Stop returning false means the timer already fired and its
		// update is in flight; that update owns the existing WaitGroup
		// slot, so the replacement needs its own.
		if !existing.timer.Stop() {
			w.wg.Add(1)
		}
	} else {
		w.wg.Add(1)
	}

	entry := &pendingUpdate{
		productID: productID,
		timestamp: timestamp,
	}
	entry.timer = time.AfterFunc(debounceWindow, func() {
		w.processUpdate(productID, entry)
	})

	w.pendingUpdates[productID] = entry
}

// processUpdate executes the recalculation with retry and backoff. It only
// clears the pending entry it was scheduled for; a newer entry that replaced
// it while this update was parked on the lock stays in the map.
func (w *RatingWorker) processUpdate(productID uuid.UUID, entry *pendingUpdate) {
	defer w.wg.Done()

	w.mu.Lock()
	if current, ok := w.pendingUpdates[productID]; ok && current == entry {
		delete(w.pendingUpdates, productID)
	}
	w.mu.Unlock()

	w.logger.WithFields(map[string]interface{}{
		"product_id": productID.String(),
	}).Info("Processing rating update")

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]interface{}{
				"product_id": productID.String(),
				"attempt":    attempt + 1,
			}).Warn("Retrying rating update")

			select {
			case <-time.After(backoff):
			case <-w.ctx.Done():
				w.logger.Info("Worker context cancelled, aborting retry")
				return
			}

			backoff *= 2
		}

		ctx, cancel := context.WithTimeout(w.ctx, 5*time.Second)
		err := w.calculator.CalculateAndUpdate(ctx, productID)
		cancel()

		if err == nil {
			return
		}

		lastErr = err
		w.logger.WithFields(map[string]interface{}{
			"product_id": productID.String(),
			"attempt":    attempt + 1,
		}).Error("Failed to update rating", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"product_id":  productID.String(),
		"max_retries": maxRetries,
	}).Error("Rating update failed after all retries", lastErr)
}

// Shutdown cancels pending timers and waits for in-flight updates.
func (w *RatingWorker) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down rating worker...")

	close(w.shutdownCh)
	w.cancel()

	w.mu.Lock()
	pendingCount := 0
	for _, update := range w.pendingUpdates {
		// An already-fired timer means the update is in flight and will
		// release its own WaitGroup slot; only cancelled timers are ours
		// to release.
		if update.timer.Stop() {
			w.wg.Done()
			pendingCount++
		}
	}
	w.pendingUpdates = make(map[uuid.UUID]*pendingUpdate)
	w.mu.Unlock()

	w.logger.WithFields(map[string]interface{}{
		"cancelled_updates": pendingCount,
	}).Info("Cancelled pending updates")

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("All in-flight updates completed")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Shutdown timeout reached, forcing exit")
		return ctx.Err()
	}
}

// GetPendingCount returns the number of pending updates (used in tests)
func (w *RatingWorker) GetPendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pendingUpdates)
}
