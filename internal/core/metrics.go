package core

import "errors"

// ErrInvertedRange is returned when a metrics query has end before start.
var ErrInvertedRange = errors.New("end date must be greater than start date")

type (
	// DateRange is an inclusive [Start, End] calendar range.
	DateRange struct {
		Start Date
		End   Date
	}

	// RevenueSummary holds range totals. Pointers keep SQL aggregate
	// semantics: an empty range yields null, never 0.
	RevenueSummary struct {
		TotalRevenueSGD      *float64 `json:"total_revenue_sgd"`
		AverageOrderValueSGD *float64 `json:"average_order_value_sgd"`
	}

	// DailyRevenue is the revenue total for one day that had sales.
	DailyRevenue struct {
		Date       Date    `json:"date"`
		RevenueSGD float64 `json:"revenue_sgd"`
	}
)

// Validate accepts equal start and end dates; only an inverted range fails.
func (r DateRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return err
	}
	if err := r.End.Validate(); err != nil {
		return err
	}
	if r.End.Before(r.Start.Time) {
		return ErrInvertedRange
	}
	return nil
}
