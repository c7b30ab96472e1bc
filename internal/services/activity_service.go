package services

import (
	"context"

	"shelfsmart/internal/listview"
	"shelfsmart/internal/models"
	"shelfsmart/internal/notify"

	"go.uber.org/zap"
)

// ActivityService loads the audit trail shown on the user activity screen.
type ActivityService interface {
	Load(ctx context.Context) error
	View() *listview.View[models.ActivityEntry]
	LastError() error
}

type activityService struct {
	*coordinator
	api    ActivityAPI
	view   *listview.View[models.ActivityEntry]
	latest listview.Latest
}

func NewActivityService(api ActivityAPI, session SessionState, notifier notify.Notifier, logger *zap.Logger, pageSize int) ActivityService {
	return &activityService{
		coordinator: newCoordinator(session, notifier, logger),
		api:         api,
		view:        listview.NewView[models.ActivityEntry](pageSize),
	}
}

func (s *activityService) View() *listview.View[models.ActivityEntry] {
	return s.view
}

func (s *activityService) Load(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	reqCtx, epoch := s.latest.Begin(ctx)
	entries, err := s.api.Activity(reqCtx)
	applied := s.latest.Apply(epoch, func() {
		if err == nil {
			s.view.SetItems(entries)
			s.setLastError(nil)
		}
	})
	if !applied {
		return listview.ErrSuperseded
	}
	if err != nil {
		return s.fail(ctx, err, notify.KindRead, "Failed to load user activity")
	}
	return nil
}
