package billing

// DistributionType selects how an expense is divided across units.
type DistributionType string

const (
	DistributionLandShare    DistributionType = "landShare"
	DistributionSquareMeter  DistributionType = "squareMeter"
	DistributionFixed        DistributionType = "fixed"
	DistributionMeterReading DistributionType = "meterReading"
)

// Expense is a single cost entered for a period run.
type Expense struct {
	Name             string             `json:"name"`
	Amount           float64            `json:"amount"`
	DistributionType DistributionType   `json:"distribution_type"`
	MeterReadings    map[string]float64 `json:"meter_readings,omitempty"`
}

// Clone returns a copy with its own meter readings map.
func (e Expense) Clone() Expense {
	out := e
	if e.MeterReadings != nil {
		out.MeterReadings = make(map[string]float64, len(e.MeterReadings))
		for unitID, reading := range e.MeterReadings {
			out.MeterReadings[unitID] = reading
		}
	}
	return out
}

func cloneExpenses(in []Expense) []Expense {
	if in == nil {
		return nil
	}
	out := make([]Expense, len(in))
	for i, expense := range in {
		out[i] = expense.Clone()
	}
	return out
}
