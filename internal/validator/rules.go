package validator

import (
	"fmt"
	"strconv"
	"time"

	"invoicehub/internal/domain"
)

// invoiceRule adapts a check function to the Rule interface.
type invoiceRule struct {
	ruleKey  string
	ruleName string
	check    func(*domain.Invoice, time.Time) []domain.Violation
}

func (r *invoiceRule) RuleKey() string  { return r.ruleKey }
func (r *invoiceRule) RuleName() string { return r.ruleName }

func (r *invoiceRule) Check(inv *domain.Invoice, now time.Time) []domain.Violation {
	return r.check(inv, now)
}

// startOfDay truncates now to local midnight of the same calendar day.
func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// floatTotals sums items and sundries in float64, left to right from zero, the
// way browser clients compute the totalAmount they submit. The explicit
// conversions keep each product rounded on its own (no fused multiply-add).
func floatTotals(inv *domain.Invoice) (items, sundries float64) {
	for i := range inv.Items {
		items += float64(inv.Items[i].Quantity * inv.Items[i].Price)
	}
	for i := range inv.BillSundrys {
		sundries += inv.BillSundrys[i].Amount
	}
	return items, sundries
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// BuiltinRules returns the invoice rules in evaluation order.
func BuiltinRules() []Rule {
	return []Rule{
		&invoiceRule{
			ruleKey: "invoice.date", ruleName: "Date not in past",
			check: func(inv *domain.Invoice, now time.Time) []domain.Violation {
				if !inv.Date.IsZero() && !inv.Date.Before(startOfDay(now)) {
					return nil
				}
				return []domain.Violation{{
					Kind:     domain.ViolationDateInPast,
					Field:    "date",
					Expected: startOfDay(now).Format("2006-01-02"),
					Actual:   inv.Date.String(),
					Message:  "Date must be today or a future date.",
				}}
			},
		},
		&invoiceRule{
			ruleKey: "invoice.items_required", ruleName: "At least one item",
			check: func(inv *domain.Invoice, _ time.Time) []domain.Violation {
				if len(inv.Items) > 0 {
					return nil
				}
				return []domain.Violation{{
					Kind:    domain.ViolationItemsRequired,
					Field:   "items",
					Message: "At least one item is required.",
				}}
			},
		},
		&invoiceRule{
			ruleKey: "invoice.item_values", ruleName: "Positive item price and quantity",
			check: func(inv *domain.Invoice, _ time.Time) []domain.Violation {
				var out []domain.Violation
				for i := range inv.Items {
					item := &inv.Items[i]
					pos := i + 1
					if item.Price <= 0 {
						out = append(out, domain.Violation{
							Kind:    domain.ViolationItemPrice,
							Field:   fmt.Sprintf("items[%d].price", i),
							Item:    pos,
							Actual:  formatAmount(item.Price),
							Message: fmt.Sprintf("Item %d: price must be > 0", pos),
						})
					}
					if item.Quantity <= 0 {
						out = append(out, domain.Violation{
							Kind:    domain.ViolationItemQuantity,
							Field:   fmt.Sprintf("items[%d].quantity", i),
							Item:    pos,
							Actual:  formatAmount(item.Quantity),
							Message: fmt.Sprintf("Item %d: quantity must be > 0", pos),
						})
					}
				}
				return out
			},
		},
		&invoiceRule{
			ruleKey: "invoice.total", ruleName: "Total matches items and sundries",
			check: func(inv *domain.Invoice, _ time.Time) []domain.Violation {
				items, sundries := floatTotals(inv)
				expected := float64(items + sundries)
				if inv.TotalAmount == expected {
					return nil
				}
				return []domain.Violation{{
					Kind:     domain.ViolationTotalMismatch,
					Field:    "totalAmount",
					Expected: formatAmount(expected),
					Actual:   formatAmount(inv.TotalAmount),
					Message: fmt.Sprintf("totalAmount (%s) does not match items + sundries (%s)",
						formatAmount(inv.TotalAmount), formatAmount(expected)),
				}}
			},
		},
	}
}
