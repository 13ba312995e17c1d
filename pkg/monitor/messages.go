package monitor

const (
	starting = "starting"
	finished = "finished"

	probeFailed = "probe-failed"
)
