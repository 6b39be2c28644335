package core

type MessageType string

const (
	MessageSuccess MessageType = "success"
	MessageError   MessageType = "error"
)

// StatusMessage is the user-facing outcome banner of an operation.
type StatusMessage struct {
	Message string      `json:"message"`
	Type    MessageType `json:"type"`
}

func Success(msg string) StatusMessage { return StatusMessage{Message: msg, Type: MessageSuccess} }
func Failure(msg string) StatusMessage { return StatusMessage{Message: msg, Type: MessageError} }

func (m StatusMessage) IsError() bool { return m.Type == MessageError }
