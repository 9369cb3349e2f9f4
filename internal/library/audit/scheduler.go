package audit

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/sulaymani-library/go-library-backend/internal/library/sync"
)

// Scheduler runs the integrity audit nightly against the mirror's
// current snapshot.
type Scheduler struct {
	mirror *sync.Mirror
	cron   *cron.Cron
}

func NewScheduler(mirror *sync.Mirror) *Scheduler {
	return &Scheduler{mirror: mirror}
}

// Start registers the nightly run (12:00 AM).
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.RunOnce()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Audit scheduler started (running nightly at 12:00AM)")
	c.Start()
	s.cron = c
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunOnce audits the current snapshot and logs every broken reference.
func (s *Scheduler) RunOnce() Report {
	snap := s.mirror.Snapshot()
	report := Run(snap.Content, snap.Categories)

	if len(report.Orphans) == 0 {
		log.Printf("integrity audit: %d items checked, no broken references", report.Checked)
		return report
	}
	for _, o := range report.Orphans {
		log.Printf("integrity audit: item %s (%q) -> category %q: %s",
			o.Item.ID, o.Item.Title, o.Item.MainCategory, o.Reason)
	}
	return report
}
