package application

import (
	"context"

	"county-revenue/internal/domain"
	"county-revenue/internal/filter"
	"county-revenue/internal/ports"
)

type NotificationService struct {
	registry *Registry
	store    ports.NotificationStore
	metrics  ports.Metrics
	logger   ports.Logger
}

func NewNotificationService(registry *Registry, store ports.NotificationStore, metrics ports.Metrics, logger ports.Logger) *NotificationService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &NotificationService{registry: registry, store: store, metrics: metrics, logger: logger}
}

type NotificationList struct {
	filter.Result[domain.Notification]
	Unread int `json:"unread"`
}

// List filters notifications by q. Unread counts every notification, not
// only the matching ones.
func (s *NotificationService) List(ctx context.Context, user domain.User, q filter.Query) (NotificationList, error) {
	if err := s.registry.Require(user, domain.ViewNotifications, ""); err != nil {
		return NotificationList{}, err
	}
	if err := filter.Notifications.Validate(q); err != nil {
		return NotificationList{}, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return NotificationList{}, err
	}
	res := filter.Summarize(all, filter.Notifications, filter.Unscoped(), q)
	s.metrics.ListResult("notifications", len(res.Items))
	return NotificationList{Result: res, Unread: countUnread(all)}, nil
}

// Unread returns the number of unread notifications.
func (s *NotificationService) Unread(ctx context.Context, user domain.User) (int, error) {
	if err := s.registry.Require(user, domain.ViewNotifications, ""); err != nil {
		return 0, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	return countUnread(all), nil
}

func (s *NotificationService) MarkRead(ctx context.Context, user domain.User, id string) (domain.Notification, error) {
	if err := s.registry.Require(user, domain.ViewNotifications, domain.ActionMarkRead); err != nil {
		return domain.Notification{}, err
	}
	n, err := s.store.Update(ctx, id, markRead)
	if err != nil {
		return domain.Notification{}, err
	}
	s.metrics.Mutation("notifications", "mark_read")
	return n, nil
}

// MarkAllRead marks every unread notification and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, user domain.User) (int, error) {
	if err := s.registry.Require(user, domain.ViewNotifications, domain.ActionMarkRead); err != nil {
		return 0, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, n := range all {
		if n.Read {
			continue
		}
		if _, err := s.store.Update(ctx, n.ID, markRead); err != nil {
			return changed, err
		}
		changed++
	}
	if changed > 0 {
		s.metrics.Mutation("notifications", "mark_all_read")
		s.logger.Debug(ctx, "notifications marked read", "count", changed)
	}
	return changed, nil
}

func markRead(n domain.Notification) domain.Notification {
	n.Read = true
	return n
}

func countUnread(all []domain.Notification) int {
	unread := 0
	for _, n := range all {
		if !n.Read {
			unread++
		}
	}
	return unread
}
