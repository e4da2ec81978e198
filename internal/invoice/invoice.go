// Package invoice holds the canonical record produced by the extraction
// engine: header fields plus an ordered list of line items. Values are built
// fresh per parse and carry no state across calls.
package invoice

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnknownSupplier is the sentinel used when no supplier name can be
// extracted. The supplier field is never left empty.
const UnknownSupplier = "Unknown Supplier"

// Invoice is a fully populated extraction result. Fields that could not be
// resolved hold their documented defaults, never partial/absent values.
type Invoice struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	Supplier   string          `json:"supplier"`
	Buyer      string          `json:"buyer,omitempty"`
	BuyerTaxID string          `json:"buyerTaxId,omitempty"`
	Date       time.Time       `json:"date"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"createdAt"`
	Items      []LineItem      `json:"items"`
}

// LineItem is one invoice line. Total excludes VAT; TotalWithVAT may be zero
// when the layout does not carry a gross column.
type LineItem struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	ListPrice    decimal.Decimal `json:"listPrice"`
	Discount     Discount        `json:"discount"`
	VATCode      string          `json:"vatCode,omitempty"`
	Total        decimal.Decimal `json:"total"`
	TotalWithVAT decimal.Decimal `json:"totalWithVat"`
}

// Valid reports whether the row carries any substance. A row with zero
// quantity and zero total is not a line item and must be dropped.
func (li LineItem) Valid() bool {
	return !li.Quantity.IsZero() || !li.Total.IsZero()
}

// DiscountKind distinguishes the two units the source layouts print a
// discount in. The extraction paths never reconcile them, so the kind is
// part of the contract instead of an untyped number.
type DiscountKind string

const (
	DiscountNone    DiscountKind = "none"
	DiscountPercent DiscountKind = "percent"
	DiscountAmount  DiscountKind = "amount"
)

// Discount is a tagged discount value: a percentage of list price, an
// absolute currency amount, or none.
type Discount struct {
	Kind  DiscountKind
	Value decimal.Decimal
}

// NoDiscount returns the zero discount.
func NoDiscount() Discount {
	return Discount{Kind: DiscountNone}
}

// PercentDiscount tags v as a percentage of list price.
func PercentDiscount(v decimal.Decimal) Discount {
	return Discount{Kind: DiscountPercent, Value: v}
}

// AmountDiscount tags v as an absolute currency amount.
func AmountDiscount(v decimal.Decimal) Discount {
	return Discount{Kind: DiscountAmount, Value: v}
}

// IsZero reports whether no discount was recorded.
func (d Discount) IsZero() bool {
	return d.Kind == DiscountNone || d.Kind == "" || d.Value.IsZero()
}

type discountJSON struct {
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// MarshalJSON renders the tag explicitly so downstream consumers cannot
// mistake a percentage for a currency amount.
func (d Discount) MarshalJSON() ([]byte, error) {
	if d.Kind == "" {
		d.Kind = DiscountNone
	}
	return json.Marshal(discountJSON{Kind: d.Kind, Value: d.Value})
}

// UnmarshalJSON accepts the tagged form produced by MarshalJSON.
func (d *Discount) UnmarshalJSON(b []byte) error {
	var dj discountJSON
	if err := json.Unmarshal(b, &dj); err != nil {
		return err
	}
	if dj.Kind == "" {
		dj.Kind = DiscountNone
	}
	d.Kind = dj.Kind
	d.Value = dj.Value
	return nil
}

// New returns an Invoice shell with identity and creation time assigned and
// the invoice number preset to its fallback value.
func New(fallbackNumber string) Invoice {
	return Invoice{
		ID:        uuid.New(),
		Number:    fallbackNumber,
		CreatedAt: time.Now().UTC(),
		Total:     decimal.Zero,
	}
}
