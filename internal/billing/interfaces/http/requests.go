package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"aidat-mock/internal/billing/application"
	billing "aidat-mock/internal/billing/domain"
)

const maxBodyBytes = 1 << 20

var errInvalidJSON = fmt.Errorf("%w: invalid json", billing.ErrValidation)

type expenseRequest struct {
	Name             string             `json:"name"`
	Amount           *float64           `json:"amount"`
	DistributionType string             `json:"distribution_type"`
	MeterReadings    map[string]float64 `json:"meter_readings"`
}

type upsertPeriodRequest struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Status            string           `json:"status"`
	Expenses          []expenseRequest `json:"expenses"`
	GeneratedInvoices []string         `json:"generated_invoices"`
}

type runPeriodRequest struct {
	Name     string           `json:"name"`
	Expenses []expenseRequest `json:"expenses"`
}

type paymentRequest struct {
	Gateway string `json:"gateway"`
}

type invoiceStatusRequest struct {
	Status *string `json:"status"`
}

type invoiceStatusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// decodeJSON reads an optional JSON object body; an empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidJSON
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return nil
}

// toExpenses validates expenses. Name and amount are required; an unknown or
// empty distribution type is kept and allocated by meter reading.
func toExpenses(in []expenseRequest) ([]billing.Expense, error) {
	out := make([]billing.Expense, 0, len(in))
	for i, req := range in {
		if req.Name == "" {
			return nil, fmt.Errorf("%w: expenses[%d].name required", billing.ErrValidation, i)
		}
		if req.Amount == nil {
			return nil, fmt.Errorf("%w: expenses[%d].amount required", billing.ErrValidation, i)
		}
		out = append(out, billing.Expense{
			Name:             req.Name,
			Amount:           *req.Amount,
			DistributionType: billing.DistributionType(req.DistributionType),
			MeterReadings:    req.MeterReadings,
		})
	}
	return out, nil
}

func (req upsertPeriodRequest) command() (application.UpsertPeriodCommand, error) {
	if req.Name == "" {
		return application.UpsertPeriodCommand{}, billing.ErrEmptyPeriodName
	}
	expenses, err := toExpenses(req.Expenses)
	if err != nil {
		return application.UpsertPeriodCommand{}, err
	}
	return application.UpsertPeriodCommand{
		ID:                req.ID,
		Name:              req.Name,
		Status:            req.Status,
		Expenses:          expenses,
		GeneratedInvoices: req.GeneratedInvoices,
	}, nil
}

func (req runPeriodRequest) command() (application.RunPeriodCommand, error) {
	expenses, err := toExpenses(req.Expenses)
	if err != nil {
		return application.RunPeriodCommand{}, err
	}
	return application.RunPeriodCommand{Name: req.Name, Expenses: expenses}, nil
}
