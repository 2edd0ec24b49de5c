// Package http provides HTTP handlers and middleware for the seat planner API.
//
// The router exposes the following endpoints:
//   - GET /api/data, POST /api/data: the whole planner document. POST replaces
//     it and answers {"success":true}; the body is limited by the configured
//     maximum size.
//   - POST /api/days/{date}/auto-assign: seats everyone present on the date who
//     is not yet seated. Response: {"date","assignments","unseated"}.
//   - DELETE /api/days/{date}: clears all assignments of the date.
//   - PUT /api/days/{date}/seats/{seatId} with {"personId": "..." | null} and
//     DELETE on the same path: manual assignment of one seat.
//   - GET /api/days/{date}/seats/{seatId}/candidates: people a selection for
//     the seat should offer.
//   - GET /api/days/{date}/sheet and GET /api/weeks/{date}: read-only
//     projections for printing and the week overview.
//   - /api/rooms, /api/seats and /api/people: entity maintenance exchanging
//     the DTOs defined next to their handlers.
//   - GET /healthz and GET /metrics.
//
// Dates use the YYYY-MM-DD format. A change that was applied but could not be
// saved is answered with 200 and a "warning" field.
package http
