package chat

import (
	"fmt"
	"strconv"
	"strings"
)

const HelpText = "Commands: /help (this text) | /rooms (list rooms) | " +
	"/join <room> (switch room) | /name <new> (rename) | /quit (disconnect). " +
	"Anything else is sent to your current room."

// ParseCommand turns an inbound line into a Command. Lines that are not one
// of the command words, slash-prefixed or not, are chat. Errors wrap
// ErrUsage and carry a message fit for the client.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return Command{Kind: CmdEmpty}, nil
	}
	if !strings.HasPrefix(line, "/") {
		return Command{Kind: CmdChat, Text: line}, nil
	}

	fields := strings.Fields(line)
	word, args := fields[0], fields[1:]

	switch word {
	case "/help":
		return Command{Kind: CmdHelp}, nil
	case "/rooms":
		return Command{Kind: CmdRooms}, nil
	case "/quit":
		return Command{Kind: CmdQuit}, nil
	case "/join":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: /join <room>", ErrUsage)
		}
		return Command{Kind: CmdJoin, Arg: args[0]}, nil
	case "/name":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: /name <new>", ErrUsage)
		}
		return Command{Kind: CmdName, Arg: args[0]}, nil
	default:
		return Command{Kind: CmdChat, Text: line}, nil
	}
}

func FormatRooms(list []RoomInfo) string {
	parts := make([]string, 0, len(list))
	for _, r := range list {
		parts = append(parts, r.Name+" ("+strconv.Itoa(r.Members)+")")
	}
	return "Rooms -> " + strings.Join(parts, ", ")
}

func youAreLine(name string) string { return "You are " + name }
func joinedLine(name, room string) string { return name + " joined " + room }
func leftLine(name, room string) string { return name + " left " + room }
func chatLine(name, text string) string { return name + ": " + text }
func renamedLine(oldName, newName string) string { return oldName + " is now " + newName }
func takenLine(name string) string { return name + " is already taken" }
func alreadyInLine(room string) string { return "You are already inside the room " + room }
func errorLine(err error) string { return "error: " + err.Error() }
