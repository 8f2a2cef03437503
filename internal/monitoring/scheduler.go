package monitoring

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"bookshelf/internal/services"
)

// Scheduler periodically snapshots the persisted store files into the backup
// directory. The JSON stores have no partial-write protection beyond the
// atomic rename, so timestamped copies are the recovery path for a bad
// deploy or an operator mistake.
type Scheduler struct {
	schedule cron.Schedule
	sources  []string
	dest     string
	events   services.EventServiceProvider
	ticker   *time.Ticker
	done     chan bool
}

// NewScheduler creates a scheduler from a standard cron expression.
func NewScheduler(expr string, sources []string, dest string, events services.EventServiceProvider) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", expr, err)
	}
	return &Scheduler{
		schedule: schedule,
		sources:  sources,
		dest:     dest,
		events:   events,
		done:     make(chan bool),
	}, nil
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	log.Info().Msg("Starting backup scheduler")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	next := s.schedule.Next(time.Now())
	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping backup scheduler")
			return
		case now := <-s.ticker.C:
			if now.Before(next) {
				continue
			}
			s.Snapshot()
			next = s.schedule.Next(now)
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// Snapshot copies each existing source file into the backup directory with a
// timestamped name.
func (s *Scheduler) Snapshot() {
	stamp := time.Now().Format("20060102T150405")
	for _, src := range s.sources {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}

		base := filepath.Base(src)
		ext := filepath.Ext(base)
		name := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(base, ext), stamp, ext)
		dst := filepath.Join(s.dest, name)

		if err := copyFile(src, dst); err != nil {
			log.Error().Err(err).Str("source", src).Msg("Failed to snapshot store file")
			continue
		}
		log.Info().Str("backup", dst).Msg("Store file snapshot written")
		if s.events != nil {
			s.events.Record("backup", "snapshot written: "+name, nil)
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
