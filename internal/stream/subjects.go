package stream

const (
	SubjectEventReceived = "hep.event.received"
	SubjectStats         = "hep.weights.stats"

	StreamName   = "JETWEIGHT_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectEventWeighted(eventID string) string { return "hep.weights." + eventID + ".computed" }
func SubjectEventRejected(eventID string) string { return "hep.weights." + eventID + ".rejected" }
