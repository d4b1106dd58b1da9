package wizard

// Step is a position in the builder wizard.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepSchedule
	StepLocations
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "BASIC_INFO"
	case StepSchedule:
		return "SCHEDULE"
	case StepLocations:
		return "LOCATIONS"
	case StepDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
