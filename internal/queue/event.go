// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketConfirmedEvent is published when a ticket is confirmed.  It
// carries enough information for downstream consumers to log, notify
// or feed analytics without querying the primary database.
type TicketConfirmedEvent struct {
    TicketID    uint64 `json:"ticket_id"`
    PassengerID uint64 `json:"passenger_id"`
    ScheduleID  uint64 `json:"schedule_id"`
    ServiceCode string `json:"service_code"`
    RouteID     uint64 `json:"route_id"`
    FareClass   string `json:"fare_class"`
    DepartsAt   string `json:"departs_at"`
    ConfirmedAt string `json:"confirmed_at"`
}

// TicketCancelledEvent is published when a ticket is cancelled and
// its seat returned to the fare class allotment.
type TicketCancelledEvent struct {
    TicketID    uint64 `json:"ticket_id"`
    PassengerID uint64 `json:"passenger_id"`
    ScheduleID  uint64 `json:"schedule_id"`
    ServiceCode string `json:"service_code"`
    FareClass   string `json:"fare_class"`
    CancelledAt string `json:"cancelled_at"`
}
