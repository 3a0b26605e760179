package inbound

import (
	"context"
)

// StatsService définit les opérations pour les statistiques du backend
type StatsService interface {
	// GetStats récupère un instantané des compteurs
	GetStats(ctx context.Context) (any, error)

	// RecordEventSeen enregistre un événement de fichier reçu du watcher
	RecordEventSeen()

	// RecordNotificationPublished enregistre une notification poussée
	RecordNotificationPublished()

	// RecordWatchStarted / RecordWatchStopped suivent le cycle de vie du watch
	RecordWatchStarted(path string)
	RecordWatchStopped(path string)
}
