package match3

import "github.com/plus3/gemboard/geom"

type CommandKind int

const (
	CommandSwap CommandKind = iota
	CommandPop
	CommandShuffle
)

// Command is a queued request against the board singleton.
type Command struct {
	Kind      CommandKind
	A, B      geom.UVec2
	Positions []geom.UVec2
}

// Commands is the singleton other systems use to ask for board changes.
// Queued commands are applied by the plugin's resolve system.
type Commands struct {
	queue []Command
}

func (c *Commands) Swap(a, b geom.UVec2) {
	c.queue = append(c.queue, Command{Kind: CommandSwap, A: a, B: b})
}

func (c *Commands) Pop(positions ...geom.UVec2) {
	c.queue = append(c.queue, Command{Kind: CommandPop, Positions: positions})
}

func (c *Commands) Shuffle() {
	c.queue = append(c.queue, Command{Kind: CommandShuffle})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.queue)
}

func (c *Commands) drain() []Command {
	q := c.queue
	c.queue = nil
	return q
}

type EventKind int

const (
	EventSwapped EventKind = iota
	EventFailedSwap
	EventMatched
	EventPopped
	EventDropped
	EventSpawned
	EventShuffled
)

func (k EventKind) String() string {
	switch k {
	case EventSwapped:
		return "Swapped"
	case EventFailedSwap:
		return "FailedSwap"
	case EventMatched:
		return "Matched"
	case EventPopped:
		return "Popped"
	case EventDropped:
		return "Dropped"
	case EventSpawned:
		return "Spawned"
	case EventShuffled:
		return "Shuffled"
	default:
		return "Unknown"
	}
}

// Event describes one change made while resolving commands. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind       EventKind
	A, B       geom.UVec2
	Positions  []geom.UVec2
	Moves      []Move
	Placements []Placement
	Err        error
}

// Events holds the events of the most recent resolve pass. They are
// replaced on every pass, so readers must run after the resolve system in
// the same tick.
type Events struct {
	list []Event
}

func (e *Events) push(ev Event) {
	e.list = append(e.list, ev)
}

func (e *Events) reset() {
	e.list = e.list[:0]
}

// All returns the events of the last pass in the order they happened.
func (e *Events) All() []Event {
	return e.list
}

// Of returns the events of one kind.
func (e *Events) Of(kind EventKind) []Event {
	var out []Event
	for _, ev := range e.list {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
