// Package api provides the HTTP REST API for the Snakes & Ladders server.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                          {config_id, mode}
//   - GET    /api/sessions                          ?sort=created|accessed&order=asc|desc&limit=N
//   - GET    /api/sessions/{id}
//   - DELETE /api/sessions/{id}
//
// Play:
//   - GET  /api/sessions/{id}/state
//   - POST /api/sessions/{id}/roll                  {die?, auto_ack?}
//   - POST /api/sessions/{id}/ack
//   - POST /api/sessions/{id}/reset
//   - PUT  /api/sessions/{id}/players/{player}/kind {kind}
//   - PUT  /api/sessions/{id}/mode                  {mode}
//   - GET  /api/sessions/{id}/history               ?page&limit&order&current
//
// Boards:
//   - GET  /api/configs
//   - POST /api/configs                             board document, optional config_id
//   - GET  /api/configs/{name}
//
// Other:
//   - GET /ws?session={id}  live updates, see package websocket
//   - GET /metrics          Prometheus exposition
//   - GET /healthz
//
// A roll without "die" is resolved with the server's die. Every successful
// roll, acknowledgement, reset or mode change is also pushed to WebSocket
// watchers of the session.
//
// Error Handling:
//
// Errors are returned as JSON with the matching status code:
//
//	{"error": "previous roll has not been acknowledged", "code": 409}
//
// Invalid dice, players, kinds, modes or bodies give 400; unknown sessions
// and boards 404; rolling after the game ended, before acknowledging, or
// acknowledging with nothing pending 409; boards that break the layout
// rules 422.
package api
