package match

// Status is the match lifecycle state. Transitions only ever move forward:
// waiting -> countdown -> fighting -> finished, with countdown optional for
// deterministic starts.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusCountdown Status = "countdown"
	StatusFighting  Status = "fighting"
	StatusFinished  Status = "finished"
)
