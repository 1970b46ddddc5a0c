// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to HTTP status codes without inspecting raw SQL errors.
package repository

import "errors"

// ErrRoomNotFound is returned when a sala lookup yields no rows.
var ErrRoomNotFound = errors.New("sala not found")

// ErrSeatNotFound is returned when an asiento lookup yields no rows, or
// when a reservation names a seat that does not belong to its sala.
var ErrSeatNotFound = errors.New("asiento not found")

// ErrMovieNotFound is returned when a pelicula lookup yields no rows.
var ErrMovieNotFound = errors.New("pelicula not found")

// ErrScreeningNotFound is returned when a funcion lookup yields no rows.
var ErrScreeningNotFound = errors.New("funcion not found")

// ErrReservationNotFound is returned when a reservacion lookup yields no rows.
var ErrReservationNotFound = errors.New("reservacion not found")

// ErrUserNotFound is returned when a usuario lookup yields no rows.
var ErrUserNotFound = errors.New("usuario not found")

// ErrNameExists is returned when registering a user whose login name is
// already taken. Handlers should translate this into HTTP 409.
var ErrNameExists = errors.New("nombre already in use")

// ErrSeatConflict is returned when a seat already carries an active
// reservation for the requested funcion. Handlers should translate this
// into HTTP 409.
var ErrSeatConflict = errors.New("asiento already reserved for this funcion")

// ErrSeatsReserved is returned when shrinking a sala would delete seats
// that still carry active reservations. The resize is rejected instead
// of orphaning those reservations. Handlers should translate this into
// HTTP 409.
var ErrSeatsReserved = errors.New("resize would drop seats with active reservations")

// ErrScreeningMismatch is returned when a reservation names a funcion
// that is not scheduled in the reservation's sala.
var ErrScreeningMismatch = errors.New("funcion does not belong to this sala")
