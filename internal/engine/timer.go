package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// StartStatsTimer refreshes the persisted stats snapshot now and then daily
// at the given hour. The snapshot only exists so dashboards load without a
// full replay; correctness never depends on it.
func (e *Engine) StartStatsTimer(refreshHour int) {
	if err := e.RefreshStats(); err != nil {
		log.Printf("stats refresh error: %v", err)
	}

	s := gocron.NewScheduler(time.UTC)
	s.Every(1).Day().At(fmt.Sprintf("%02d:00", refreshHour)).Do(func() {
		if err := e.RefreshStats(); err != nil {
			log.Printf("stats refresh error: %v", err)
		}
	})
	s.StartAsync()
	e.sched = s
}

// Stop shuts down the engine's background scheduler.
func (e *Engine) Stop() {
	if e.sched != nil {
		e.sched.Stop()
	}
}
