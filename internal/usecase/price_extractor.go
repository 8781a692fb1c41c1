package usecase

import (
	"errors"

	"MarketEngine/internal/domain/models"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var ErrEmptySeries = errors.New("cannot extract price from empty series")

// PriceExtractor reads the latest close from a series and rounds it to the
// currency's minor unit, half away from zero.
type PriceExtractor struct {
	currency *money.Currency
}

func NewPriceExtractor() *PriceExtractor {
	return &PriceExtractor{currency: money.GetCurrency(money.USD)}
}

// Currency is the ISO code attached to every extracted price.
func (e *PriceExtractor) Currency() string {
	return e.currency.Code
}

func (e *PriceExtractor) Extract(bars []models.PriceBar) (decimal.Decimal, error) {
	if len(bars) == 0 {
		return decimal.Zero, ErrEmptySeries
	}
	last := bars[len(bars)-1].Close
	return last.Round(int32(e.currency.Fraction)), nil
}
