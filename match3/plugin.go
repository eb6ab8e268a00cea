package match3

import (
	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/internal/logging"
	"github.com/sirupsen/logrus"
)

// maxCascade bounds how many match-pop-drop-fill rounds one command may
// trigger.
const maxCascade = 64

// Plugin generates a board from Config at build time and stores it, along
// with the Commands and Events singletons, in the app. A zero Config means
// DefaultConfig.
type Plugin struct {
	Config Config
}

func (p Plugin) Build(a *app.App) {
	cfg := p.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}

	board, err := Generate(cfg)
	if err != nil {
		a.Fail(err)
		return
	}

	logging.For("match3").WithFields(logrus.Fields{
		"width":  cfg.Dimensions.X,
		"height": cfg.Dimensions.Y,
		"types":  cfg.GemTypes,
	}).Info("board generated")

	a.Storage.AddSingleton(board)
	ecs.NewSingleton(a.Storage, Commands{})
	ecs.NewSingleton(a.Storage, Events{})
	a.AddSystem(app.Update, &ResolveSystem{}, ecs.Named("match3.Resolve"))
}

// ResolveSystem applies queued board commands and cascades the resulting
// matches until the board is stable.
type ResolveSystem struct {
	Board    ecs.Singleton[Board]
	Commands ecs.Singleton[Commands]
	Events   ecs.Singleton[Events]
}

func (s *ResolveSystem) Execute(frame *ecs.UpdateFrame) {
	events := s.Events.Get()
	events.reset()

	board := s.Board.Get()
	for _, cmd := range s.Commands.Get().drain() {
		switch cmd.Kind {
		case CommandSwap:
			if err := board.Swap(cmd.A, cmd.B); err != nil {
				events.push(Event{Kind: EventFailedSwap, A: cmd.A, B: cmd.B, Err: err})
				continue
			}
			events.push(Event{Kind: EventSwapped, A: cmd.A, B: cmd.B})
		case CommandPop:
			popped := board.Pop(cmd.Positions)
			events.push(Event{Kind: EventPopped, Positions: popped})
			settle(board, events)
		case CommandShuffle:
			board.Shuffle()
			events.push(Event{Kind: EventShuffled})
		}
		Resolve(board, events)
	}
}

// Resolve pops matches, drops and refills the board until no match remains,
// recording every step in events when it is non-nil. It returns the number
// of rounds played.
func Resolve(board *Board, events *Events) int {
	rounds := 0
	for ; rounds < maxCascade; rounds++ {
		matched := board.Matches()
		if len(matched) == 0 {
			break
		}
		if events != nil {
			events.push(Event{Kind: EventMatched, Positions: matched})
		}
		popped := board.Pop(matched)
		if events != nil {
			events.push(Event{Kind: EventPopped, Positions: popped})
		}
		settle(board, events)
	}
	return rounds
}

func settle(board *Board, events *Events) {
	moves := board.Drop()
	placed := board.Fill()
	if events == nil {
		return
	}
	if len(moves) > 0 {
		events.push(Event{Kind: EventDropped, Moves: moves})
	}
	if len(placed) > 0 {
		events.push(Event{Kind: EventSpawned, Placements: placed})
	}
}
