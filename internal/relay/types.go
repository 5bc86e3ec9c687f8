package relay

// ProcessInput is one raw webhook delivery.
type ProcessInput struct {
	Body []byte
}

// ProcessOutput reports what happened to a webhook delivery.
type ProcessOutput struct {
	Delivered bool   // a message was produced and sent
	Ignored   bool   // the parser intentionally yielded no message
	Event     string // the event key the payload was dispatched by
}
