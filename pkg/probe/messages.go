package probe

const (
	starting = "starting"
	finished = "finished"

	failedStep              = "failed-step"
	failedToCleanup         = "failed-to-cleanup"
	failedToObserveDuration = "failed-to-observe-duration"
	exceededMaxLatency      = "exceeded-max-latency"
	incorrectResponse       = "incorrect-response"
)
