package media

import "codeberg.org/mutker/loopfetch/internal/errors"

const (
	ErrBusConnect   = errors.ErrorCode("media_bus_connect_failed")
	ErrListPlayers  = errors.ErrorCode("media_list_players_failed")
	ErrPlayerQuery  = errors.ErrorCode("media_player_query_failed")
	ErrNotConnected = errors.ErrorCode("media_not_connected")
)

func init() {
	errors.RegisterMessage(ErrBusConnect, "Failed to connect to the session bus")
	errors.RegisterMessage(ErrListPlayers, "Failed to list media players")
	errors.RegisterMessage(ErrPlayerQuery, "Failed to query media player")
	errors.RegisterMessage(ErrNotConnected, "Session bus not connected")
}
