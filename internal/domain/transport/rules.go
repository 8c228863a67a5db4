package transport

import "fleet-console/internal/domain/account"

// Driver actions on the driver's own transport list.
type Action string

const (
	ActionAccept Action = "accept"
	ActionStart  Action = "start"
	ActionFinish Action = "finish"
)

// TargetStatus maps a driver action to the status it requests.
func (a Action) TargetStatus() (Status, bool) {
	switch a {
	case ActionAccept:
		return StatusAccepted, true
	case ActionStart:
		return StatusInProgress, true
	case ActionFinish:
		return StatusFinished, true
	}
	return "", false
}

// HasInProgress reports whether any transport in the list is running.
func HasInProgress(list []Transport) bool {
	for _, t := range list {
		if t.Status == StatusInProgress {
			return true
		}
	}
	return false
}

// CurrentID returns the id of the running transport, else the accepted one.
func CurrentID(list []Transport) (int64, bool) {
	for _, want := range []Status{StatusInProgress, StatusAccepted} {
		for _, t := range list {
			if t.Status == want {
				return t.ID, true
			}
		}
	}
	return 0, false
}

func CanAccept(t Transport, inProgress bool) bool {
	return t.Status == StatusPlanned && !inProgress
}

func CanStart(t Transport, inProgress bool) bool {
	return t.Status == StatusAccepted && !inProgress
}

func CanFinish(t Transport) bool {
	return t.Status == StatusInProgress
}

// CanPerform evaluates the rule for action.
func CanPerform(t Transport, action Action, inProgress bool) bool {
	switch action {
	case ActionAccept:
		return CanAccept(t, inProgress)
	case ActionStart:
		return CanStart(t, inProgress)
	case ActionFinish:
		return CanFinish(t)
	}
	return false
}

// ActionTooltip explains why an action is available or not.
func ActionTooltip(t Transport, action Action, inProgress, busy bool) string {
	if busy {
		return "Action in progress"
	}

	switch action {
	case ActionAccept:
		if t.Status != StatusPlanned {
			return "Cannot accept: only PLANNED transports can be accepted."
		}
		if inProgress {
			return "Finish current transport first."
		}
		return "Accept transport"
	case ActionStart:
		if t.Status != StatusAccepted {
			return "Cannot start: only ACCEPTED transports can be started."
		}
		if inProgress {
			return "Finish current transport first."
		}
		return "Start transport"
	}

	if t.Status != StatusInProgress {
		return "Cannot finish: only IN_PROGRESS transports can be finished."
	}
	return "Finish transport"
}

func CanEdit(t Transport) bool {
	return t.Status == StatusPlanned
}

func CanDelete(t Transport, me *account.Me) bool {
	return me.HasAnyRole(account.RoleAdmin, account.RoleDispatcher) && t.Status == StatusPlanned
}

func EditTooltip(t Transport) string {
	if !CanEdit(t) {
		return "Cannot edit: only PLANNED transports are editable."
	}
	return "Edit transport"
}

func DeleteTooltip(t Transport, me *account.Me) string {
	if !me.HasAnyRole(account.RoleAdmin, account.RoleDispatcher) {
		return "Cannot delete: only admin/dispatcher can delete transports."
	}
	if t.Status != StatusPlanned {
		return "Cannot delete: only PLANNED transports can be deleted."
	}
	return "Delete transport"
}

// IsTerminal reports statuses after which no dispatcher action applies.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusFinished, StatusCancelled, StatusFailed, StatusRejected:
		return true
	}
	return false
}
