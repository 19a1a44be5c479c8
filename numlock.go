package main

// NumLockManager turns NUMLOCK off for the duration of a key sequence.
// Some combinations such as ^+{LEFT} behave differently with NUMLOCK on.
type NumLockManager struct {
	originalState bool
	turnedOff     bool
	kb            NumLocker
}

// NewNumLockManager creates a new NUMLOCK manager
func NewNumLockManager(kb NumLocker) *NumLockManager {
	return &NumLockManager{
		kb: kb,
	}
}

// IsNumLockOn checks if NUMLOCK is currently enabled
func (n *NumLockManager) IsNumLockOn() (bool, error) {
	return n.kb.NumLockState()
}

// DisableNumLock turns NUMLOCK off and remembers whether it was on
func (n *NumLockManager) DisableNumLock() error {
	on, err := n.IsNumLockOn()
	if err != nil {
		return err
	}
	n.originalState = on

	if on {
		if err := n.kb.SetNumLockState(false); err != nil {
			return err
		}
		n.turnedOff = true
	}

	return nil
}

// RestoreNumLock turns NUMLOCK back on if DisableNumLock turned it off
func (n *NumLockManager) RestoreNumLock() error {
	if !n.turnedOff {
		return nil
	}
	if err := n.kb.SetNumLockState(n.originalState); err != nil {
		return err
	}
	n.turnedOff = false
	return nil
}
