// Package websocket pushes live game updates to browsers and other watchers.
//
// A single Hub goroutine owns the table of connected clients, keyed by
// session ID without regard to case. Every roll, acknowledgement, reset or
// mode change on a session is fanned out to the clients watching it as one
// JSON text frame:
//
//	{"session_id":"ab12","event":"roll","game_state":{...},"outcome":{...}}
//
// Events are "roll", "ack", "reset" and "mode". Client input is read only to
// keep the connection alive; commands go through the REST API or MCP.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Broadcast never blocks the caller. Clients that cannot keep up are
// disconnected, and cancelling the Run context closes every connection.
package websocket
