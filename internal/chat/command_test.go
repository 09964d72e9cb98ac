package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Kind: CmdEmpty}},
		{"   \r\n", Command{Kind: CmdEmpty}},
		{"hello world", Command{Kind: CmdChat, Text: "hello world"}},
		{"  indented /join x", Command{Kind: CmdChat, Text: "  indented /join x"}},
		{"/help", Command{Kind: CmdHelp}},
		{"/rooms", Command{Kind: CmdRooms}},
		{"/quit", Command{Kind: CmdQuit}},
		{"/join lobby", Command{Kind: CmdJoin, Arg: "lobby"}},
		{"/join   lobby  ", Command{Kind: CmdJoin, Arg: "lobby"}},
		{"/name alice\r", Command{Kind: CmdName, Arg: "alice"}},
		{"/shrug ok", Command{Kind: CmdChat, Text: "/shrug ok"}},
		{"/helpme", Command{Kind: CmdChat, Text: "/helpme"}},
		{"/", Command{Kind: CmdChat, Text: "/"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	tests := []struct {
		line    string
		wantErr error
		wantMsg string
	}{
		{"/join", ErrUsage, "usage: /join <room>"},
		{"/join a b", ErrUsage, "usage: /join <room>"},
		{"/name", ErrUsage, "usage: /name <new>"},
		{"/name two words", ErrUsage, "usage: /name <new>"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := ParseCommand(tt.line)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestFormatRooms(t *testing.T) {
	assert.Equal(t, "Rooms -> main (2), lobby (1)",
		FormatRooms([]RoomInfo{{Name: "main", Members: 2}, {Name: "lobby", Members: 1}}))
	assert.Equal(t, "Rooms -> ", FormatRooms(nil))
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "join", CmdJoin.String())
	assert.Equal(t, "unknown", CommandKind(99).String())
}
