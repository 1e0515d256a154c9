package heads

// Assembler buffers the leaders of the state currently being walked and
// commits the buffer to a Recorder at each state boundary.
type Assembler struct {
	out     Recorder
	rec     Record
	started bool
}

// NewAssembler returns an Assembler committing into out.
func NewAssembler(out Recorder) *Assembler {
	return &Assembler{out: out}
}

// State returns the identity of the state being buffered.
func (a *Assembler) State() State {
	return a.rec.State
}

// Started reports whether any state boundary has been seen.
func (a *Assembler) Started() bool {
	return a.started
}

// Buffered returns the number of leaders in the active buffer.
func (a *Assembler) Buffered() int {
	return a.rec.Len()
}

// ResetIdentity starts a new state. The buffer is cleared; callers commit
// the previous state first.
func (a *Assembler) ResetIdentity(name, href string) {
	a.started = true
	a.rec = Record{State: State{Name: name, Href: href}}
}

// Append adds leaders to the buffer sequence for role. Appending for
// RoleState is a no-op.
func (a *Assembler) Append(role Role, leaders []*Leader) {
	switch role {
	case RoleHeadOfState:
		a.rec.HeadOfState = append(a.rec.HeadOfState, leaders...)
	case RoleHeadOfGovernment:
		a.rec.HeadOfGovernment = append(a.rec.HeadOfGovernment, leaders...)
	case RoleHeadOfStateAndGovernment:
		a.rec.HeadOfStateAndGovernment = append(a.rec.HeadOfStateAndGovernment, leaders...)
	}
}

// Commit hands the buffer and state identity to the Recorder, then clears
// the buffer. It is a no-op while no state name is set.
func (a *Assembler) Commit() error {
	if a.rec.State.Name == "" {
		return nil
	}
	rec := a.rec
	if err := a.out.Insert(&rec); err != nil {
		return err
	}
	a.rec = Record{State: a.rec.State}
	return nil
}
