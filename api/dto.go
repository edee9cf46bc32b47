/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the external contract. Amounts are float64 in DTOs (decimal internally).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

Rent terms and rent change bodies are NOT typed here: they arrive as raw
field maps and go through the factory validation boundary, which owns the
full error taxonomy.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rent.go: Raw input validation
*/
package api

import (
	"time"

	"github.com/warp/rent-engine/lease"
	"github.com/warp/rent-engine/schedule"
)

// LeaseDTO represents a lease in API responses.
type LeaseDTO struct {
	ID            string  `json:"id"`
	Amount        float64 `json:"amount"`
	Frequency     string  `json:"frequency"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	PaymentMethod string  `json:"payment_method"`
	Adjusted      bool    `json:"adjusted"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// LeaseScheduleDTO is a lease together with its rendered schedule.
type LeaseScheduleDTO struct {
	Lease    LeaseDTO          `json:"lease"`
	Schedule []schedule.Record `json:"schedule"`
}

// SetPaymentMethodRequest is the request to change a lease's payment method.
type SetPaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toLeaseDTO(l *lease.Lease) LeaseDTO {
	amount, _ := l.Terms.Amount.Float64()
	return LeaseDTO{
		ID:            l.ID,
		Amount:        amount,
		Frequency:     string(l.Terms.Frequency),
		StartDate:     l.Terms.StartDate.String(),
		EndDate:       l.Terms.EndDate.String(),
		PaymentMethod: string(l.Method()),
		Adjusted:      l.Adjusted(),
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
}

func toLeaseScheduleDTO(l *lease.Lease, records []schedule.Record) LeaseScheduleDTO {
	return LeaseScheduleDTO{Lease: toLeaseDTO(l), Schedule: records}
}
