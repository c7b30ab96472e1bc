package services

import (
	"context"
	"sync"
	"time"

	"shelfsmart/internal/listview"
	"shelfsmart/internal/models"
	"shelfsmart/internal/notify"

	"go.uber.org/zap"
)

// Notifications is the content of the notifications panel.
type Notifications struct {
	Counts   models.NotificationCounts `json:"counts"`
	LowStock []models.InventoryItem    `json:"lowStock"`
	Expiring []models.ExpiryAlert      `json:"expiring"`
}

// NotificationService refreshes low-stock and expiry counts and fans them
// out to subscribers.
type NotificationService interface {
	Refresh(ctx context.Context) (Notifications, error)
	Latest() (Notifications, bool)
	Subscribe(buffer int) (<-chan models.NotificationCounts, func())
	Suggestions(ctx context.Context) (models.Suggestions, error)
}

type notificationService struct {
	*coordinator
	api AlertsAPI
	now func() time.Time
	seq listview.Latest

	mu          sync.RWMutex
	latest      *Notifications
	subscribers map[int]chan models.NotificationCounts
	nextSub     int
}

func NewNotificationService(api AlertsAPI, session SessionState, notifier notify.Notifier, logger *zap.Logger) NotificationService {
	return &notificationService{
		coordinator: newCoordinator(session, notifier, logger),
		api:         api,
		now:         time.Now,
		subscribers: make(map[int]chan models.NotificationCounts),
	}
}

// Refresh fetches both lists. A failure keeps the previous snapshot, and
// only the most recently started refresh replaces it.
func (s *notificationService) Refresh(ctx context.Context) (Notifications, error) {
	if err := s.requireSession(); err != nil {
		return Notifications{}, err
	}

	reqCtx, epoch := s.seq.Begin(ctx)
	var (
		wg                sync.WaitGroup
		lowStock          []models.InventoryItem
		expiring          []models.ExpiryAlert
		lowErr, expiryErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		lowStock, lowErr = s.api.LowStock(reqCtx)
	}()
	go func() {
		defer wg.Done()
		expiring, expiryErr = s.api.ExpiryAlerts(reqCtx)
	}()
	wg.Wait()

	n := Notifications{
		Counts: models.NotificationCounts{
			LowStock:  len(lowStock),
			Expiring:  len(expiring),
			UpdatedAt: s.now(),
		},
		LowStock: lowStock,
		Expiring: expiring,
	}
	applied := s.seq.Apply(epoch, func() {
		if lowErr != nil || expiryErr != nil {
			return
		}
		s.setLastError(nil)
		s.publish(n)
	})
	if !applied {
		return Notifications{}, listview.ErrSuperseded
	}
	if lowErr != nil {
		return Notifications{}, s.fail(ctx, lowErr, notify.KindRead, "Failed to load notifications")
	}
	if expiryErr != nil {
		return Notifications{}, s.fail(ctx, expiryErr, notify.KindRead, "Failed to load notifications")
	}
	return n, nil
}

func (s *notificationService) publish(n Notifications) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &n
	for _, ch := range s.subscribers {
		// keep only the newest counts for slow subscribers
		select {
		case ch <- n.Counts:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- n.Counts:
			default:
			}
		}
	}
}

func (s *notificationService) Latest() (Notifications, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Notifications{}, false
	}
	return *s.latest, true
}

// Subscribe returns a channel of count updates and a function that ends the subscription.
func (s *notificationService) Subscribe(buffer int) (<-chan models.NotificationCounts, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan models.NotificationCounts, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Suggestions fetches the AI restocking suggestions.
func (s *notificationService) Suggestions(ctx context.Context) (models.Suggestions, error) {
	if err := s.requireSession(); err != nil {
		return models.Suggestions{}, err
	}
	suggestions, err := s.api.Suggestions(ctx)
	if err != nil {
		return models.Suggestions{}, s.fail(ctx, err, notify.KindRead, "Failed to load suggestions")
	}
	return suggestions, nil
}
