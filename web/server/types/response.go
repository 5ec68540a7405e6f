package types

// Outcome is the final status and body of a response.
type Outcome struct {
	Status int
	Body   any
}

// Message is the body of most error responses.
type Message struct {
	Message string `json:"message"`
}

// Health is the body of the health check response.
type Health struct {
	Status string `json:"status"`
}
