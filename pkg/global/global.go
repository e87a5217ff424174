package global

import (
	"sync"

	"summon/pkg/config"
	"summon/pkg/logger"
	"summon/pkg/notify"
)

var (
	notifier *notify.NotifyService
	initOnce sync.Once
	mu       sync.RWMutex
)

// InitGlobals creates the process-wide notifier. Only the first call has any
// effect.
func InitGlobals(config *config.Config, logger *logger.Logger) {
	initOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		notifier = notify.NewNotifyService(config.NotifyCommand, logger)
	})
}

// GetNotifier returns the global notifier instance
func GetNotifier() *notify.NotifyService {
	mu.RLock()
	defer mu.RUnlock()
	return notifier
}
