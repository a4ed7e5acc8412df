package replay

// Emitter numbers frames for one cursor and hands them to observers. It is
// the step shared by every driver: the timer-based Player and the TUI's
// message-driven tick chain.
type Emitter struct {
	cursor    *Cursor
	observers []Observer
	seq       int
}

// NewEmitter creates an Emitter over cursor.
func NewEmitter(cursor *Cursor, observers ...Observer) *Emitter {
	return &Emitter{cursor: cursor, observers: observers}
}

// Cursor returns the driven cursor.
func (e *Emitter) Cursor() *Cursor { return e.cursor }

// Seq is the number of frames emitted so far.
func (e *Emitter) Seq() int { return e.seq }

// Emit sends the current position to every observer.
func (e *Emitter) Emit() {
	e.seq++
	f := Frame{Seq: e.seq, State: e.cursor.State(), Events: e.cursor.Revealed()}
	for _, obs := range e.observers {
		if obs != nil {
			obs(f)
		}
	}
}

// Begin emits the arming frame. It reports false, without emitting, when
// the cursor has nothing to reveal.
func (e *Emitter) Begin() bool {
	if !e.cursor.Armed() {
		return false
	}
	e.Emit()
	return true
}

// Step advances the cursor by one tick and emits only when it moved.
func (e *Emitter) Step() bool {
	if !e.cursor.Tick() {
		return false
	}
	e.Emit()
	return true
}
