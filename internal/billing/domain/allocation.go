package billing

import (
	"fmt"
	"math"
	"strconv"
)

// LineItem is one allocated charge on an invoice.
type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Allocation is the share of every expense assigned to a single unit.
type Allocation struct {
	Unit  Unit
	Items []LineItem
	Total float64
}

// Allocate divides every expense across all units.
//
// Items are rounded to two decimals one by one while the total accumulates the
// unrounded shares and is rounded once at the end. Unknown distribution types
// are allocated by meter reading.
func Allocate(units []Unit, expenses []Expense) ([]Allocation, error) {
	if len(units) == 0 {
		return nil, ErrNoUnits
	}

	var weights allocationWeights
	for _, unit := range units {
		weights.landShare += unit.LandShare
		weights.squareMeter += unit.SquareMeter
	}
	weights.unitCount = len(units)

	for _, expense := range expenses {
		if !isFinite(expense.Amount) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, expense.Name)
		}
		switch expense.DistributionType {
		case DistributionLandShare:
			if weights.landShare == 0 {
				return nil, fmt.Errorf("%w: land share for %q", ErrZeroTotalWeight, expense.Name)
			}
		case DistributionSquareMeter:
			if weights.squareMeter == 0 {
				return nil, fmt.Errorf("%w: square meter for %q", ErrZeroTotalWeight, expense.Name)
			}
		}
	}

	out := make([]Allocation, 0, len(units))
	for _, unit := range units {
		items := make([]LineItem, 0, len(expenses))
		total := 0.0
		for _, expense := range expenses {
			allocated := weights.share(unit, expense)
			if !isFinite(allocated) {
				return nil, fmt.Errorf("%w: %q overflows for unit %s", ErrInvalidAmount, expense.Name, unit.ID)
			}
			items = append(items, LineItem{Description: expense.Name, Amount: Round2(allocated)})
			total += allocated
		}
		if !isFinite(total) {
			return nil, fmt.Errorf("%w: total overflows for unit %s", ErrInvalidAmount, unit.ID)
		}
		out = append(out, Allocation{Unit: unit, Items: items, Total: Round2(total)})
	}
	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type allocationWeights struct {
	landShare   float64
	squareMeter float64
	unitCount   int
}

func (w allocationWeights) share(unit Unit, expense Expense) float64 {
	switch expense.DistributionType {
	case DistributionLandShare:
		return expense.Amount * (unit.LandShare / w.landShare)
	case DistributionSquareMeter:
		return expense.Amount * (unit.SquareMeter / w.squareMeter)
	case DistributionFixed:
		return expense.Amount / float64(w.unitCount)
	default:
		return expense.Amount * expense.MeterReadings[unit.ID] / totalReadings(expense.MeterReadings)
	}
}

// totalReadings sums every recorded reading, including units outside the
// registry. A zero sum is coerced to 1 so all units receive nothing.
func totalReadings(readings map[string]float64) float64 {
	total := 0.0
	for _, reading := range readings {
		total += reading
	}
	if total == 0 {
		return 1
	}
	return total
}

// Round2 rounds to two decimals using the shortest correctly rounded decimal
// form of the value, so ties resolve on the exact binary value.
func Round2(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', 2, 64), 64)
	if err != nil {
		return value
	}
	return rounded
}
