package llm

import "fmt"

// maxErrBody bounds how much of a failed response body ends up in an error.
const maxErrBody = 200

// RequestError is returned when the model endpoint answers with a non-2xx
// status or an explicit error payload. It fails the entry's analysis.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("model API error (status %d): %s", e.Status, e.Body)
}

// ResponseFormatError is returned when the reply payload does not carry the
// expected chat-completion "choices" shape.
type ResponseFormatError struct {
	Body string
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("unexpected model API response format: %s", e.Body)
}

func truncateBody(body string) string {
	if len(body) > maxErrBody {
		return body[:maxErrBody]
	}
	return body
}
