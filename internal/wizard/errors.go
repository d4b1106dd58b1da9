package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var ErrWrongStep = errors.New("operation not allowed at the current step")

// Submission stages, in the order they run.
const (
	StageBasicInfo = "basic_info"
	StageSchedules = "schedules"
	StageLocations = "locations"
)

// PartialFailure reports a submission that stopped midway. Stages listed in
// Completed already exist remotely and are not rolled back. TourID is empty
// when the first stage failed.
type PartialFailure struct {
	TourID    string
	Completed []string
	Failed    string
	Err       error
}

func (e *PartialFailure) Error() string {
	done := "none"
	if len(e.Completed) > 0 {
		done = strings.Join(e.Completed, ",")
	}
	return fmt.Sprintf("submit tour %q: stage %s failed (completed: %s): %v", e.TourID, e.Failed, done, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }
