package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/josephbrockw/base-build/internal/payment"
)

// InitCatalogSyncCron refreshes the local catalog from the gateway every
// night. The sync is idempotent, so overlapping runs after a missed schedule
// are harmless.
func InitCatalogSyncCron(sync *payment.CatalogSync) {
	c := cron.New()

	_, err := c.AddFunc("0 4 * * *", func() {
		runCatalogSync(sync)
	})

	if err != nil {
		log.Printf("Could not initialize catalog sync cron: %v", err)
		return
	}

	c.Start()
}

func runCatalogSync(sync *payment.CatalogSync) {
	log.Println("Syncing catalog from payment gateway...")

	if err := sync.Run(); err != nil {
		log.Printf("Catalog sync failed: %v", err)
		return
	}

	log.Println("Catalog sync completed")
}
