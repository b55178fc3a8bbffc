package pipeline

// State is a stage of a pipeline run.
type State int

const (
	Idle State = iota
	Partitioning
	Computing // per-group surface computation, interleaved with merging
	Coloring
	Delivered
	Aborted
)

var stateNames = [...]string{"idle", "partitioning", "computing", "coloring", "delivered", "aborted"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
