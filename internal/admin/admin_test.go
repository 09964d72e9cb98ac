package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy6609/roomchat/internal/chat"
)

type fakeRooms []chat.RoomInfo

func (f fakeRooms) List() []chat.RoomInfo { return f }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_Healthz(t *testing.T) {
	rec := get(t, NewRouter(fakeRooms{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_Rooms(t *testing.T) {
	rooms := fakeRooms{{Name: "main", Members: 3}, {Name: "lobby", Members: 0}}
	rec := get(t, NewRouter(rooms), "/rooms")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rooms []chat.RoomInfo `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []chat.RoomInfo(rooms), body.Rooms)
}

func TestRouter_RoomsFromRegistry(t *testing.T) {
	reg := chat.NewRooms(4)
	reg.Join("main")
	reg.Join("main")

	rec := get(t, NewRouter(reg), "/rooms")
	assert.JSONEq(t, `{"rooms":[{"name":"main","members":2}]}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	rec := get(t, NewRouter(fakeRooms{}), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "chat_connected_clients"))
}
