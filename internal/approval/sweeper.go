package approval

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// Sweeper runs the expiry sweep at a fixed cadence (spec §4.D: "a timer
// runs the expiry sweep at a fixed short cadence, ~5s"), grounded in the
// teacher's use of robfig/cron elsewhere in the pack (internal/cron)
// applied here to a fixed-interval housekeeping job instead of a
// user-scheduled one.
type Sweeper struct {
	queue    *Queue
	cron     *cron.Cron
	entryID  cron.EntryID
	onExpire func(models.ApprovalRequest)
}

// NewSweeper builds a sweeper that flips expired pending requests every
// interval. onExpire, if non-nil, is invoked once per newly expired
// request so a caller can audit the transition.
func NewSweeper(q *Queue, interval time.Duration, onExpire func(models.ApprovalRequest)) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	s := &Sweeper{queue: q, cron: cron.New(), onExpire: onExpire}
	id, err := s.cron.AddFunc("@every "+interval.String(), s.sweep)
	if err != nil {
		// A malformed interval string should never happen given the
		// constructor's Duration input, but fail safe rather than panic.
		return s
	}
	s.entryID = id
	return s
}

// Start begins the background sweep schedule.
func (s *Sweeper) Start() { s.cron.Start() }

// Stop halts the schedule and waits for any in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	for _, r := range s.queue.ExpirePending(time.Now()) {
		if s.onExpire != nil {
			s.onExpire(r)
		}
	}
}
