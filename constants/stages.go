package constants

// Stages of a single package assembly.
const (
	StageStarted   = "Started"
	StageStreaming = "Streaming"
	StageFinished  = "Finished"
)

type Stage struct {
	Name  string
	Order int
}

var AssemblyStages = []Stage{
	{
		Name:  StageStarted,
		Order: 1,
	},
	{
		Name:  StageStreaming,
		Order: 2,
	},
	{
		Name:  StageFinished,
		Order: 3,
	},
}

// StageOrder returns the order of the named assembly stage, or zero
// if there is no such stage.
func StageOrder(name string) int {
	for _, stage := range AssemblyStages {
		if stage.Name == name {
			return stage.Order
		}
	}
	return 0
}

// CanTransition returns true if an assembly in stage from may move to
// stage to. Assemblies never move backward, and nothing follows
// StageFinished. Streaming may repeat, once per custodial resource.
func CanTransition(from, to string) bool {
	fromOrder := StageOrder(from)
	toOrder := StageOrder(to)
	if fromOrder == 0 || toOrder == 0 || from == StageFinished {
		return false
	}
	return toOrder >= fromOrder && !(from == StageStarted && to == StageStarted)
}
