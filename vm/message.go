package vm

type MessageType int

const (
	_ MessageType = iota
	MsgDebug
	MsgError
	MsgTrace
	MsgInput
	MsgOutput
	MsgBlocked
	MsgHalt
	MsgRound
)

func (mt MessageType) String() string {
	switch mt {
	case MsgDebug:
		return "Debug"
	case MsgError:
		return "Error"
	case MsgTrace:
		return "Trace"
	case MsgInput:
		return "Input"
	case MsgOutput:
		return "Output"
	case MsgBlocked:
		return "Blocked"
	case MsgHalt:
		return "Halt"
	case MsgRound:
		return "Round"
	default:
		return "Unknown"
	}
}

type Message struct {
	Type     MessageType
	Computer *Computer
	Message  string
}

func NewMessage(mt MessageType, c *Computer, msg string) Message {
	return Message{
		Type:     mt,
		Computer: c,
		Message:  msg,
	}
}
