package ecs

// UpdateFrame is handed to every system run by one Scheduler.Once call.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage

	err error
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}

// Fail records an unrecoverable error. The remaining systems of the frame are
// skipped and Scheduler.Once returns the first recorded error.
func (f *UpdateFrame) Fail(err error) {
	if err != nil && f.err == nil {
		f.err = err
	}
}

// Err returns the error recorded by Fail, if any.
func (f *UpdateFrame) Err() error {
	return f.err
}
