package domain

// ResultStatus classifies a dispatched operation for the rendering layer.
type ResultStatus string

const (
	StatusSuccess   ResultStatus = "success"
	StatusNoResults ResultStatus = "no-results"
	StatusError     ResultStatus = "error"
)

// Result is the normalized outcome the dispatcher hands to the renderer.
// Payload is the raw serialized upstream response; the dispatcher never
// interprets it.
type Result struct {
	Status    ResultStatus
	Payload   []byte
	FromCache bool
	KeyIndex  int
}
