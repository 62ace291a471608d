package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

func testRates() models.RateTable {
	return models.RateTable{
		DocumentTypes: map[models.DocumentType]decimal.Decimal{
			models.DocumentTypeEstimate:      decimal.NewFromInt(150),
			models.DocumentTypePlumberReport: decimal.NewFromInt(200),
		},
		Trades: map[string]decimal.Decimal{
			"plumbing":   decimal.NewFromInt(75),
			"electrical": decimal.NewFromInt(85),
		},
	}
}

func activeCredit(amount int64) models.Credit {
	return models.Credit{Amount: decimal.NewFromInt(amount), IsActive: true}
}

func TestCalculateWorkOrderCost_ZeroInputs(t *testing.T) {
	got := CalculateWorkOrderCost(WorkOrderCostInput{Rates: testRates()})

	assert.True(t, got.BaseCost.IsZero(), "base cost = %s", got.BaseCost)
	assert.True(t, got.CreditsApplied.IsZero(), "credits applied = %s", got.CreditsApplied)
	assert.True(t, got.FinalCost.IsZero(), "final cost = %s", got.FinalCost)
}

func TestCalculateWorkOrderCost_BaseCost(t *testing.T) {
	tests := []struct {
		name     string
		docType  models.DocumentType
		trades   []string
		expected int64
	}{
		{"document type only", models.DocumentTypeEstimate, nil, 150},
		{"document type plus trade", models.DocumentTypeEstimate, []string{"plumbing"}, 225},
		{"trade lookup is case-insensitive", models.DocumentTypeEstimate, []string{"PLUMBING"}, 225},
		{"duplicate trades sum independently", "", []string{"plumbing", "plumbing"}, 150},
		{"unknown document type and trade cost zero", "not_a_type", []string{"unknown_trade"}, 0},
		{"unknown trade among known ones", models.DocumentTypePlumberReport, []string{"electrical", "basket_weaving"}, 285},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateWorkOrderCost(WorkOrderCostInput{
				DocumentType:   tt.docType,
				SelectedTrades: tt.trades,
				Rates:          testRates(),
			})
			assert.True(t, got.BaseCost.Equal(decimal.NewFromInt(tt.expected)),
				"base cost = %s, want %d", got.BaseCost, tt.expected)
		})
	}
}

func TestCalculateWorkOrderCost_CreditCap(t *testing.T) {
	// Base cost 100, active credits 200: the 80% cap limits the offset to 80.
	rates := models.RateTable{
		DocumentTypes: map[models.DocumentType]decimal.Decimal{
			models.DocumentTypeInvoice: decimal.NewFromInt(100),
		},
	}

	got := CalculateWorkOrderCost(WorkOrderCostInput{
		DocumentType: models.DocumentTypeInvoice,
		Credits:      []models.Credit{activeCredit(120), activeCredit(80)},
		Rates:        rates,
	})

	assert.True(t, got.AvailableCredits.Equal(decimal.NewFromInt(200)), "available = %s", got.AvailableCredits)
	assert.True(t, got.CreditsApplied.Equal(decimal.NewFromInt(80)), "applied = %s", got.CreditsApplied)
	assert.True(t, got.FinalCost.Equal(decimal.NewFromInt(20)), "final = %s", got.FinalCost)
}

func TestCalculateWorkOrderCost_CreditsBelowCap(t *testing.T) {
	got := CalculateWorkOrderCost(WorkOrderCostInput{
		DocumentType: models.DocumentTypeEstimate,
		Credits:      []models.Credit{activeCredit(50)},
		Rates:        testRates(),
	})

	// 50 < 150 × 0.8, so the whole credit applies.
	assert.True(t, got.CreditsApplied.Equal(decimal.NewFromInt(50)), "applied = %s", got.CreditsApplied)
	assert.True(t, got.FinalCost.Equal(decimal.NewFromInt(100)), "final = %s", got.FinalCost)
}

func TestCalculateWorkOrderCost_InactiveCreditsExcluded(t *testing.T) {
	got := CalculateWorkOrderCost(WorkOrderCostInput{
		DocumentType: models.DocumentTypeEstimate,
		Credits: []models.Credit{
			{Amount: decimal.NewFromInt(10000), IsActive: false},
			activeCredit(20),
		},
		Rates: testRates(),
	})

	assert.True(t, got.AvailableCredits.Equal(decimal.NewFromInt(20)), "available = %s", got.AvailableCredits)
	assert.True(t, got.CreditsApplied.Equal(decimal.NewFromInt(20)), "applied = %s", got.CreditsApplied)
}

func TestCalculateWorkOrderCost_ManualOverride(t *testing.T) {
	got := CalculateWorkOrderCost(WorkOrderCostInput{
		ManualOverride:      true,
		ManualOverrideValue: decimal.NewFromInt(9999),
		Rates:               testRates(),
	})

	// Override wins even when the derived cost is zero; derived fields stay
	// populated for display.
	assert.True(t, got.FinalCost.Equal(decimal.NewFromInt(9999)), "final = %s", got.FinalCost)
	assert.True(t, got.BaseCost.IsZero())
	assert.True(t, got.CreditsApplied.IsZero())
}

func TestCalculateWorkOrderCost_ConfigurableCap(t *testing.T) {
	got := CalculateWorkOrderCost(WorkOrderCostInput{
		DocumentType: models.DocumentTypeEstimate,
		Credits:      []models.Credit{activeCredit(500)},
		Rates:        testRates(),
		CreditCap:    decimal.NewFromFloat(0.5),
	})

	assert.True(t, got.CreditsApplied.Equal(decimal.NewFromInt(75)), "applied = %s", got.CreditsApplied)
	assert.True(t, got.FinalCost.Equal(decimal.NewFromInt(75)), "final = %s", got.FinalCost)
}

func TestCalculateWorkOrderCost_DerivedCostNeverNegative(t *testing.T) {
	// Full-cap credit application can never push the derived cost below zero
	// regardless of credit volume.
	got := CalculateWorkOrderCost(WorkOrderCostInput{
		DocumentType: models.DocumentTypeEstimate,
		Credits:      []models.Credit{activeCredit(1000000)},
		Rates:        testRates(),
		CreditCap:    decimal.NewFromInt(1),
	})

	require.True(t, got.FinalCost.GreaterThanOrEqual(decimal.Zero), "final = %s", got.FinalCost)
}

func TestCalculateWorkOrderCost_Idempotent(t *testing.T) {
	in := WorkOrderCostInput{
		DocumentType:   models.DocumentTypeEstimate,
		SelectedTrades: []string{"plumbing", "electrical"},
		Credits:        []models.Credit{activeCredit(100)},
		Rates:          testRates(),
	}

	first := CalculateWorkOrderCost(in)
	second := CalculateWorkOrderCost(in)

	assert.Equal(t, first, second)
}
