package ecs

// System is one step of a frame. Query and Singleton fields on the system
// struct are wired by the Scheduler at registration; any other fields keep
// their values between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to System. Function systems have no
// Query fields; use frame.Storage or a View instead.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}

// Condition gates a system. It is evaluated before each run.
type Condition func(storage *Storage) bool
