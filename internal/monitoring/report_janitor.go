package monitoring

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/isdelr/hrdesk-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReportJanitor periodically deletes generated report files once they are
// older than the retention period.
type ReportJanitor struct {
	dir       string
	retention time.Duration
	prefixes  []string
	eventSvc  services.EventServiceProvider
	cron      *cron.Cron
	now       func() time.Time
}

// NewReportJanitor creates a janitor for dir running on the given cron spec
// (standard five-field syntax or descriptors such as "@hourly").
func NewReportJanitor(dir string, retention time.Duration, spec string, eventSvc services.EventServiceProvider) (*ReportJanitor, error) {
	j := &ReportJanitor{
		dir:       dir,
		retention: retention,
		prefixes:  []string{services.CSVReportPrefix, services.HTMLReportPrefix},
		eventSvc:  eventSvc,
		cron:      cron.New(),
		now:       time.Now,
	}
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return nil, fmt.Errorf("invalid report cleanup schedule %q: %w", spec, err)
	}
	return j, nil
}

// Start runs the schedule in the background.
func (j *ReportJanitor) Start() {
	log.Info().Str("dir", j.dir).Dur("retention", j.retention).Msg("Starting report janitor")
	j.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *ReportJanitor) Stop() {
	<-j.cron.Stop().Done()
	log.Info().Msg("Stopped report janitor")
}

func (j *ReportJanitor) run() {
	removed, err := j.Sweep()
	if err != nil {
		log.Error().Err(err).Msg("Report cleanup failed")
		return
	}
	if removed > 0 && j.eventSvc != nil {
		msg := fmt.Sprintf("Removed %d expired report file(s)", removed)
		if err := j.eventSvc.CreateEvent(context.Background(), "report.cleanup", "info", "", msg); err != nil {
			log.Warn().Err(err).Msg("Failed to record cleanup event")
		}
	}
}

// Sweep deletes expired report files and returns how many were removed. Files
// that were not generated as reports are left alone.
func (j *ReportJanitor) Sweep() (int, error) {
	entries, err := os.ReadDir(j.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := j.now().Add(-j.retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !j.isReport(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove expired report")
			continue
		}
		removed++
	}
	return removed, nil
}

func (j *ReportJanitor) isReport(name string) bool {
	for _, prefix := range j.prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
