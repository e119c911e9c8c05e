package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/josephbrockw/base-build/internal/account"
)

// InitTokenCleanupCron removes verification tokens that expired more than a
// day ago.
func InitTokenCleanupCron(tokens *account.TokenService) {
	c := cron.New()

	_, err := c.AddFunc("30 3 * * *", func() {
		removed, err := tokens.CleanupExpired(24 * time.Hour)
		if err != nil {
			log.Printf("Token cleanup failed: %v", err)
			return
		}
		log.Printf("Removed %d expired tokens", removed)
	})

	if err != nil {
		log.Printf("Could not initialize token cleanup cron: %v", err)
		return
	}

	c.Start()
}
