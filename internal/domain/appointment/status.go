package appointment

// State transitions:
//
//	scheduled → waiting_room → in_progress → completed
//	scheduled → cancelled
//	waiting_room → cancelled
//
// completed and cancelled are terminal.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusWaitingRoom Status = "waiting_room"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusWaitingRoom, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

var statusTransitions = map[Status][]Status{
	StatusScheduled:   {StatusWaitingRoom, StatusCancelled},
	StatusWaitingRoom: {StatusInProgress, StatusCancelled},
	StatusInProgress:  {StatusCompleted},
	StatusCompleted:   {},
	StatusCancelled:   {},
}

// CanTransitionTo consults the transition table.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
