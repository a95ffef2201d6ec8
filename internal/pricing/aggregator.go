// Package pricing derives cart totals from line items and an optional coupon
// evaluation. All arithmetic runs on decimals; rounding to whole currency
// units happens only at the display boundary, never while accumulating.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/servease/household-services-platform/internal/config"
	"github.com/servease/household-services-platform/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

type Totals struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	GST           decimal.Decimal
	ServiceCharge decimal.Decimal
	Final         decimal.Decimal
}

// DisplayTotals is the whole-unit view of Totals for invoices and API
// responses.
type DisplayTotals struct {
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	GST           float64 `json:"gst"`
	ServiceCharge float64 `json:"service_charge"`
	Final         float64 `json:"final"`
}

func (t Totals) Rounded() DisplayTotals {
	return DisplayTotals{
		Subtotal:      t.Subtotal.Round(0).InexactFloat64(),
		Discount:      t.Discount.Round(0).InexactFloat64(),
		GST:           t.GST.Round(0).InexactFloat64(),
		ServiceCharge: t.ServiceCharge.Round(0).InexactFloat64(),
		Final:         t.Final.Round(0).InexactFloat64(),
	}
}

// ApplyTo writes the exact totals onto the cart.
func (t Totals) ApplyTo(cart *models.Cart) {
	cart.Subtotal = t.Subtotal.InexactFloat64()
	cart.DiscountAmount = t.Discount.InexactFloat64()
	cart.GSTAmount = t.GST.InexactFloat64()
	cart.ServiceChargeAmount = t.ServiceCharge.InexactFloat64()
	cart.FinalAmount = t.Final.InexactFloat64()
}

type Aggregator struct {
	cfg *config.Pricing
}

func NewAggregator(cfg *config.Pricing) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Compute derives all totals for the given line items. evaluation is
// optional; its discount is re-bounded to the eligible amount here so a
// stale evaluation can never push the invoice negative.
func (a *Aggregator) Compute(items []models.CartLineItem, evaluation *models.CouponApplicationResult) Totals {

	subtotal := Subtotal(items)

	discount := decimal.Zero
	if evaluation != nil {
		discount = decimal.NewFromFloat(evaluation.DiscountAmount)

		if eligible := decimal.NewFromFloat(evaluation.EligibleAmount); discount.GreaterThan(eligible) {
			discount = eligible
		}

		if discount.IsNegative() {
			discount = decimal.Zero
		}
	}

	gst := a.gstTotal(items)
	serviceCharge := a.serviceCharge(items, subtotal)

	final := subtotal.Sub(discount).Add(gst).Add(serviceCharge)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return Totals{
		Subtotal:      subtotal,
		Discount:      discount,
		GST:           gst,
		ServiceCharge: serviceCharge,
		Final:         final,
	}
}

func Subtotal(items []models.CartLineItem) decimal.Decimal {
	total := decimal.Zero

	for idx := range items {
		total = total.Add(decimal.NewFromFloat(items[idx].TotalPrice))
	}

	return total
}

// LineTotal is unitPrice × quantity for one line.
func LineTotal(item *models.CartLineItem) float64 {
	unit := decimal.NewFromFloat(item.UnitPrice())

	return unit.Mul(decimal.NewFromInt(int64(item.Quantity))).InexactFloat64()
}

// Discount computes the coupon discount bounded to the eligible amount.
// Percentage coupons are additionally capped by MaximumDiscountAmount.
func (a *Aggregator) Discount(coupon *models.Coupon, eligible decimal.Decimal) decimal.Decimal {

	if eligible.IsNegative() {
		return decimal.Zero
	}

	var discount decimal.Decimal

	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		discount = eligible.Mul(decimal.NewFromFloat(coupon.Value)).Div(oneHundred)

		if coupon.MaximumDiscountAmount != nil {
			cap := decimal.NewFromFloat(*coupon.MaximumDiscountAmount)
			if discount.GreaterThan(cap) {
				discount = cap
			}
		}
	case models.DiscountTypeFixed:
		discount = decimal.NewFromFloat(coupon.Value)
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(eligible) {
		discount = eligible
	}

	if discount.IsNegative() {
		return decimal.Zero
	}

	return discount
}

// gstTotal sums GST per line on the pre-discount line total. The upstream
// billing system taxes the undiscounted amount; keep it that way until the
// tax team signs off on a change.
func (a *Aggregator) gstTotal(items []models.CartLineItem) decimal.Decimal {
	total := decimal.Zero

	for idx := range items {
		line := decimal.NewFromFloat(items[idx].TotalPrice)
		rate := decimal.NewFromFloat(items[idx].GSTPercentage).Div(oneHundred)
		total = total.Add(line.Mul(rate))
	}

	return total
}

// serviceCharge is a flat configured fee per distinct category in the cart,
// waived entirely when the fee total falls below the configured threshold or
// the cart subtotal already qualifies for free service.
func (a *Aggregator) serviceCharge(items []models.CartLineItem, subtotal decimal.Decimal) decimal.Decimal {

	if len(items) == 0 {
		return decimal.Zero
	}

	categories := make(map[string]struct{})
	for idx := range items {
		categories[items[idx].CategoryID] = struct{}{}
	}

	fee := decimal.NewFromFloat(a.cfg.ServiceChargePerCategory).Mul(decimal.NewFromInt(int64(len(categories))))

	if a.cfg.ServiceChargeWaiveBelow > 0 && fee.LessThan(decimal.NewFromFloat(a.cfg.ServiceChargeWaiveBelow)) {
		return decimal.Zero
	}

	if a.cfg.FreeServiceSubtotal > 0 && subtotal.GreaterThanOrEqual(decimal.NewFromFloat(a.cfg.FreeServiceSubtotal)) {
		return decimal.Zero
	}

	return fee
}
