package main

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/ecs/debugui"
	debugui_ebiten "github.com/plus3/gemboard/ecs/debugui/ebiten"
	"github.com/plus3/gemboard/match3"
)

const eventLogSize = 32

// BoardInspector keeps the recent match3 events shown by the board window.
type BoardInspector struct {
	Log []string
}

func (bi *BoardInspector) record(events []match3.Event) {
	for _, ev := range events {
		bi.Log = append(bi.Log, describeEvent(ev))
	}
	if over := len(bi.Log) - eventLogSize; over > 0 {
		bi.Log = bi.Log[over:]
	}
}

func describeEvent(ev match3.Event) string {
	switch ev.Kind {
	case match3.EventSwapped:
		return fmt.Sprintf("%s (%d,%d) <-> (%d,%d)", ev.Kind, ev.A.X, ev.A.Y, ev.B.X, ev.B.Y)
	case match3.EventFailedSwap:
		return fmt.Sprintf("%s (%d,%d) <-> (%d,%d): %v", ev.Kind, ev.A.X, ev.A.Y, ev.B.X, ev.B.Y, ev.Err)
	case match3.EventMatched, match3.EventPopped:
		return fmt.Sprintf("%s %d gems", ev.Kind, len(ev.Positions))
	case match3.EventDropped:
		return fmt.Sprintf("%s %d gems", ev.Kind, len(ev.Moves))
	case match3.EventSpawned:
		return fmt.Sprintf("%s %d gems", ev.Kind, len(ev.Placements))
	default:
		return ev.Kind.String()
	}
}

// BoardInspectorSystem collects events after match3.Resolve and draws the
// board layout next to them.
type BoardInspectorSystem struct {
	Inspector ecs.Singleton[BoardInspector]
	Events    ecs.Singleton[match3.Events]
	Board     ecs.Singleton[match3.Board]
}

func (s *BoardInspectorSystem) Execute(frame *ecs.UpdateFrame) {
	inspector := s.Inspector.Get()
	if events := s.Events.Get(); events != nil {
		inspector.record(events.All())
	}

	board := s.Board.Get()
	if board == nil {
		return
	}
	frame.Commands.Defer(func() { renderBoard(board, inspector) })
}

func renderBoard(board *match3.Board, inspector *BoardInspector) {
	if !imgui.BeginV("Board", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	dims := board.Dimensions()
	imgui.Text(fmt.Sprintf("%dx%d, %d gem types", dims.X, dims.Y, board.GemTypes()))
	imgui.Text(fmt.Sprintf("Open matches: %d", len(board.Matches())))
	imgui.Separator()
	for _, row := range strings.Split(board.String(), "\n") {
		imgui.Text(row)
	}

	if imgui.TreeNodeStr("Events") {
		for i := len(inspector.Log) - 1; i >= 0; i-- {
			imgui.BulletText(inspector.Log[i])
		}
		imgui.TreePop()
	}

	imgui.End()
}

// installDebugUI puts a Dear ImGui overlay on a with the entity browser,
// performance and board windows.
func installDebugUI(a *app.App) {
	a.AddPlugins(debugui.Plugin{Overlay: debugui_ebiten.New()})
	ecs.NewSingleton(a.Storage, BoardInspector{})
	a.AddSystem(app.PostUpdate, &BoardInspectorSystem{}, ecs.Named("BoardInspector"))
}
