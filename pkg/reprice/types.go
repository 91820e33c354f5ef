package reprice

import "time"

// Order is the booking under repricing. The caller owns it; the manager
// only reads it for the duration of a single run.
type Order struct {
	FlightRef      string  `json:"flight_ref"`
	HotelRef       string  `json:"hotel_ref"`
	HotelCommitted bool    `json:"hotel_committed"`
	Price          float64 `json:"price"`
}

// Leg names one bookable component of an order.
type Leg string

const (
	LegFlight Leg = "flight"
	LegHotel  Leg = "hotel"
)

// PriceSnapshot is one price observation for one leg. Valid is false when
// the leg was not priced (hotel already committed).
type PriceSnapshot struct {
	Amount float64 `json:"amount"`
	Valid  bool    `json:"valid"`
}

// PriceInfo groups the flight and hotel snapshots taken at one point in
// time. Hotel.Valid holds exactly when the order's hotel leg is still
// subject to repricing.
type PriceInfo struct {
	Flight PriceSnapshot `json:"flight"`
	Hotel  PriceSnapshot `json:"hotel"`
}

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusChanged   Status = "CHANGED"
)

// Result is the outcome of one repricing run.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// RunRecord is the audit row written to the run history after a run.
type RunRecord struct {
	ID              int64     `json:"id"`
	RunID           string    `json:"run_id"`
	FlightRef       string    `json:"flight_ref"`
	HotelRef        string    `json:"hotel_ref"`
	HotelCommitted  bool      `json:"hotel_committed"`
	OldPrice        float64   `json:"old_price"`
	NewFlightPrice  *float64  `json:"new_flight_price,omitempty"`
	NewHotelPrice   *float64  `json:"new_hotel_price,omitempty"`
	Delta           *float64  `json:"delta,omitempty"`
	Status          string    `json:"status"`
	Message         string    `json:"message"`
	MatchedPriority *int      `json:"matched_priority,omitempty"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
