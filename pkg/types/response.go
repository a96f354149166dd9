package types

// Fields is the payload merged into a success envelope next to "success".
type Fields map[string]any

type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
