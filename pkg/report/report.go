package report

import (
	"fmt"
	"math"

	"github.com/mchmarny/churn/pkg/customer"
)

// Result is the structured form of a churn prediction.
type Result struct {
	CustomerID  string  `json:"customer_id" yaml:"customer_id"`
	Probability float64 `json:"churn_probability" yaml:"churn_probability"`
	Percentage  string  `json:"churn_percentage" yaml:"churn_percentage"`
}

// New creates a Result for the record and its churn probability.
func New(r *customer.Record, p float64) *Result {
	res := &Result{
		Probability: p,
		Percentage:  Percentage(p),
	}
	if r != nil {
		res.CustomerID = r.CustomerID
	}
	return res
}

// Line renders the result the way the text output prints it.
func (r *Result) Line() string {
	return "Churn Probability: " + r.Percentage
}

// Percentage formats p as a percentage with two decimals (0.2137 -> 21.37%).
// Values outside [0, 1] are clamped, NaN is treated as 0.
func Percentage(p float64) string {
	switch {
	case math.IsNaN(p), p < 0:
		p = 0
	case p > 1:
		p = 1
	}
	return fmt.Sprintf("%.2f%%", p*100)
}
