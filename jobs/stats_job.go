package jobs

import (
	"log"

	"github.com/vleclerc/guildhall/database"
	"github.com/vleclerc/guildhall/services"
)

// RefreshFooterStats recomputes the cached footer counters. Scheduled from
// main via cron.
func RefreshFooterStats() {
	if err := services.RefreshFooterStats(database.DB); err != nil {
		log.Printf("🔥 Failed to refresh footer stats: %v", err)
		return
	}
	log.Println("Footer stats refreshed.")
}
