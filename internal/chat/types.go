package chat

type CommandKind int

const (
	CmdEmpty CommandKind = iota
	CmdChat
	CmdHelp
	CmdRooms
	CmdJoin
	CmdName
	CmdQuit
)

var commandKindNames = [...]string{
	CmdEmpty: "empty",
	CmdChat:  "chat",
	CmdHelp:  "help",
	CmdRooms: "rooms",
	CmdJoin:  "join",
	CmdName:  "name",
	CmdQuit:  "quit",
}

func (k CommandKind) String() string {
	if int(k) < len(commandKindNames) {
		return commandKindNames[k]
	}
	return "unknown"
}

// Command is one parsed inbound line. Arg is set for join and name, Text
// for chat.
type Command struct {
	Kind CommandKind
	Arg  string
	Text string
}

var (
	ErrUsage       = errorString("usage")
	ErrLineTooLong = errorString("line too long")
)

type errorString string

func (e errorString) Error() string { return string(e) }
