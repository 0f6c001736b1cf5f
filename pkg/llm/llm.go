package llm

// LLM is the contract the analyzer needs from a model backend: one prompt
// in, one raw text reply out.
type LLM interface {
	Chat(prompt string) (string, error)
}
