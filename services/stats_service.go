package services

import (
	"sync"

	"github.com/vleclerc/guildhall/models"
	"gorm.io/gorm"
)

// FooterStats is the small counters block shown on every page footer.
type FooterStats struct {
	Members       int64 `json:"members"`
	Conversations int64 `json:"conversations"`
	Messages      int64 `json:"messages"`
}

var (
	statsMu     sync.RWMutex
	cachedStats FooterStats
)

// RefreshFooterStats recounts and swaps the cache. Called at boot and from
// the cron schedule.
func RefreshFooterStats(db *gorm.DB) error {
	var stats FooterStats
	if err := db.Model(&models.User{}).Count(&stats.Members).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Conversation{}).Count(&stats.Conversations).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Message{}).Count(&stats.Messages).Error; err != nil {
		return err
	}

	statsMu.Lock()
	cachedStats = stats
	statsMu.Unlock()
	return nil
}

func GetFooterStats() FooterStats {
	statsMu.RLock()
	defer statsMu.RUnlock()
	return cachedStats
}
