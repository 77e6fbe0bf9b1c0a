package marketplace

import "errors"

var ErrAlertNotFound = errors.New("tracked alert not found")

// MaxAlerts keeps the tracked items list within a single chat message.
const MaxAlerts = 20

// TrackedAlert is a saved item name with the maximum price the user is willing to pay.
type TrackedAlert struct {
	Name     string
	MaxPrice float64
}

// AlertList is an ordered list of user's alerts addressed by zero-based position.
type AlertList []TrackedAlert

func (l *AlertList) Add(alert TrackedAlert) int {
	*l = append(*l, alert)

	return len(*l) - 1
}

func (l AlertList) IsFull() bool {
	return len(l) >= MaxAlerts
}

func (l AlertList) Get(index int) (TrackedAlert, error) {
	if index < 0 || index >= len(l) {
		return TrackedAlert{}, ErrAlertNotFound
	}

	return l[index], nil
}

func (l AlertList) Replace(index int, alert TrackedAlert) error {
	if index < 0 || index >= len(l) {
		return ErrAlertNotFound
	}

	l[index] = alert

	return nil
}

func (l *AlertList) Delete(index int) error {
	if index < 0 || index >= len(*l) {
		return ErrAlertNotFound
	}

	*l = append((*l)[:index], (*l)[index+1:]...)

	return nil
}
