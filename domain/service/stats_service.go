package service

import (
	"context"
	"sync"
	"time"

	"github.com/ajkula/GoLayoutView/domain/port/inbound"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

// StatsData représente les statistiques du système
type StatsData struct {
	UptimeSeconds          int64  `json:"uptimeSeconds"`
	EventsSeen             uint64 `json:"eventsSeen"`
	NotificationsPublished uint64 `json:"notificationsPublished"`
	NotificationsDropped   uint64 `json:"notificationsDropped"`
	Subscribers            int    `json:"subscribers"`
	WatchActive            bool   `json:"watchActive"`
	WatchPath              string `json:"watchPath,omitempty"`
	WatchedSinceUnix       int64  `json:"watchedSince,omitempty"`
	LastEventUnix          int64  `json:"lastEventAt,omitempty"`
	WatchSessions          int    `json:"watchSessions"`
}

// metricsStore garde les compteurs du service de statistiques
type metricsStore struct {
	startedAt time.Time

	eventsSeen             uint64
	notificationsPublished uint64

	watchActive   bool
	watchPath     string
	watchedSince  time.Time
	watchSessions int

	lastEventAt time.Time

	// Mutex pour les accès concurrents
	mu sync.RWMutex
}

// StatsServiceImpl implémente le service des statistiques
type StatsServiceImpl struct {
	registry outbound.NotificationRegistry
	metrics  *metricsStore
}

// NewStatsService crée un nouveau service de statistiques
func NewStatsService(registry outbound.NotificationRegistry) inbound.StatsService {
	return &StatsServiceImpl{
		registry: registry,
		metrics: &metricsStore{
			startedAt: time.Now(),
		},
	}
}

// GetStats récupère un instantané des statistiques
func (s *StatsServiceImpl) GetStats(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.metrics.mu.RLock()
	defer s.metrics.mu.RUnlock()

	stats := &StatsData{
		UptimeSeconds:          int64(time.Since(s.metrics.startedAt).Seconds()),
		EventsSeen:             s.metrics.eventsSeen,
		NotificationsPublished: s.metrics.notificationsPublished,
		NotificationsDropped:   s.registry.DroppedCount(),
		Subscribers:            s.registry.SubscriberCount(),
		WatchActive:            s.metrics.watchActive,
		WatchPath:              s.metrics.watchPath,
		WatchSessions:          s.metrics.watchSessions,
	}

	if !s.metrics.watchedSince.IsZero() {
		stats.WatchedSinceUnix = s.metrics.watchedSince.Unix()
	}
	if !s.metrics.lastEventAt.IsZero() {
		stats.LastEventUnix = s.metrics.lastEventAt.Unix()
	}

	return stats, nil
}

func (s *StatsServiceImpl) RecordEventSeen() {
	s.metrics.mu.Lock()
	defer s.metrics.mu.Unlock()

	s.metrics.eventsSeen++
	s.metrics.lastEventAt = time.Now()
}

func (s *StatsServiceImpl) RecordNotificationPublished() {
	s.metrics.mu.Lock()
	defer s.metrics.mu.Unlock()

	s.metrics.notificationsPublished++
}

func (s *StatsServiceImpl) RecordWatchStarted(path string) {
	s.metrics.mu.Lock()
	defer s.metrics.mu.Unlock()

	s.metrics.watchActive = true
	s.metrics.watchPath = path
	s.metrics.watchedSince = time.Now()
	s.metrics.watchSessions++
}

func (s *StatsServiceImpl) RecordWatchStopped(path string) {
	s.metrics.mu.Lock()
	defer s.metrics.mu.Unlock()

	// un arrêt tardif d'une session précédente ne doit pas masquer la session active
	if s.metrics.watchPath != path {
		return
	}

	s.metrics.watchActive = false
	s.metrics.watchPath = ""
	s.metrics.watchedSince = time.Time{}
}
