package app

// Stage selects which scheduler a system runs in.
type Stage int

const (
	// Startup runs once, before the first PreUpdate.
	Startup Stage = iota
	PreUpdate
	Update
	PostUpdate
	// Render runs once per drawn frame, after every update stage.
	Render

	stageCount
)

var stageNames = [stageCount]string{"Startup", "PreUpdate", "Update", "PostUpdate", "Render"}

func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return "Stage(?)"
	}
	return stageNames[s]
}
