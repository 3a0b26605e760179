package service

import (
	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/inbound"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

type notificationService struct {
	registry outbound.NotificationRegistry
	logger   outbound.Logger
}

// NewNotificationService crée le service de notifications
func NewNotificationService(
	registry outbound.NotificationRegistry,
	logger outbound.Logger,
) inbound.NotificationService {
	return &notificationService{
		registry: registry,
		logger:   logger,
	}
}

func (s *notificationService) Subscribe() (string, <-chan model.Notification) {
	id, ch := s.registry.RegisterSubscriber()
	s.logger.Debug("Notification subscriber registered", "subscriberID", id)
	return id, ch
}

func (s *notificationService) Unsubscribe(id string) error {
	if err := s.registry.UnregisterSubscriber(id); err != nil {
		s.logger.Warn("Failed to unregister subscriber", "subscriberID", id, "error", err)
		return err
	}
	s.logger.Debug("Notification subscriber removed", "subscriberID", id)
	return nil
}

func (s *notificationService) SubscriberCount() int {
	return s.registry.SubscriberCount()
}
