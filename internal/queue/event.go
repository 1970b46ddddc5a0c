// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// ReservationCreatedEvent is published when a reservation is successfully
// created. It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64   `json:"id_reservacion"`
	UserID        uint64   `json:"id_usuario"`
	RoomID        uint64   `json:"id_sala"`
	ScreeningID   uint64   `json:"id_funcion"`
	Status        string   `json:"estado"`
	Date          string   `json:"fecha"`
	SeatIDs       []uint64 `json:"id_asientos"`
	CreatedAt     string   `json:"created_at"`
}
