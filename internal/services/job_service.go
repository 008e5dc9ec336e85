package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kstobd/DriveNext/internal/repos"
)

// pendingTTL is how long an unconfirmed booking may hold its dates.
const pendingTTL = 48 * time.Hour

// JobService runs the booking maintenance passes: completed stays are
// closed out and stale pending bookings release their dates.
type JobService struct {
	Bookings *repos.BookingRepo
}

func NewJobService(bookings *repos.BookingRepo) *JobService {
	return &JobService{Bookings: bookings}
}

// RunMaintenance executes one pass. now is injectable for tests.
func (s *JobService) RunMaintenance(now time.Time) {
	if n, err := s.Bookings.CompleteFinished(now); err != nil {
		log.Printf("[jobs] complete finished failed: %v", err)
	} else if n > 0 {
		log.Printf("[jobs] completed %d finished bookings", n)
	}

	if n, err := s.Bookings.CancelStalePending(now.Add(-pendingTTL)); err != nil {
		log.Printf("[jobs] cancel stale pending failed: %v", err)
	} else if n > 0 {
		log.Printf("[jobs] cancelled %d stale pending bookings", n)
	}
}

// Schedule registers the hourly maintenance pass on the given cron runner.
func (s *JobService) Schedule(c *cron.Cron) error {
	_, err := c.AddFunc("@hourly", func() {
		s.RunMaintenance(time.Now().UTC())
	})
	return err
}
