package types

// Sender tags the origin of a message shown in the widget transcript
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// IsValid checks if the sender is valid
func (s Sender) IsValid() bool {
	switch s {
	case SenderUser, SenderBot:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sender
func (s Sender) String() string {
	return string(s)
}
