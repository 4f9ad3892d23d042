// Package pricing defines the pricer capability the calculators depend on and
// a dispatch table resolving derivative kinds to model functions.
package pricing

import (
	"fmt"

	"github.com/meenmo/mogreeks/errs"
	"github.com/meenmo/mogreeks/market"
)

// Kind identifies the concrete type of a derivative.
type Kind int

const (
	KindEuropeanOption Kind = iota + 1
	KindEquityForward
	KindIndexFuture
	KindCashFlows
)

func (k Kind) String() string {
	switch k {
	case KindEuropeanOption:
		return "EuropeanOption"
	case KindEquityForward:
		return "EquityForward"
	case KindIndexFuture:
		return "IndexFuture"
	case KindCashFlows:
		return "CashFlows"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Derivative is an instrument reduced to times measured from a valuation date.
type Derivative interface {
	Kind() Kind
}

// Pricer prices derivatives against a static replication bundle.
type Pricer interface {
	Price(d Derivative, b *market.Bundle) (float64, error)
	TimeToSettlement(d Derivative) (float64, error)
}

// PriceFunc prices one kind of derivative.
type PriceFunc func(d Derivative, b *market.Bundle) (float64, error)

// SettlementFunc returns the settlement time of one kind of derivative.
type SettlementFunc func(d Derivative) (float64, error)

// Case registers a model's handling of one derivative kind.
type Case struct {
	Kind       Kind
	Price      PriceFunc
	Settlement SettlementFunc
}

// Model is an immutable dispatch table from derivative kind to model functions.
type Model struct {
	name       string
	price      map[Kind]PriceFunc
	settlement map[Kind]SettlementFunc
}

// NewModel builds a model from its cases. A kind may be registered once.
func NewModel(name string, cases ...Case) (*Model, error) {
	m := &Model{
		name:       name,
		price:      make(map[Kind]PriceFunc, len(cases)),
		settlement: make(map[Kind]SettlementFunc, len(cases)),
	}
	for _, c := range cases {
		if _, dup := m.price[c.Kind]; dup {
			return nil, errs.InvalidArgument("model %s: %s registered twice", name, c.Kind)
		}
		if c.Price == nil || c.Settlement == nil {
			return nil, errs.InvalidArgument("model %s: incomplete case for %s", name, c.Kind)
		}
		m.price[c.Kind] = c.Price
		m.settlement[c.Kind] = c.Settlement
	}
	return m, nil
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Supports reports whether k has a registered case.
func (m *Model) Supports(k Kind) bool {
	_, ok := m.price[k]
	return ok
}

// Price dispatches on the derivative kind.
func (m *Model) Price(d Derivative, b *market.Bundle) (float64, error) {
	if d == nil {
		return 0, errs.InvalidArgument("model %s: nil derivative", m.name)
	}
	if b == nil {
		return 0, errs.InvalidArgument("model %s: nil bundle", m.name)
	}
	fn, ok := m.price[d.Kind()]
	if !ok {
		return 0, errs.UnsupportedType("model %s cannot price %s", m.name, d.Kind())
	}
	return fn(d, b)
}

// TimeToSettlement dispatches on the derivative kind.
func (m *Model) TimeToSettlement(d Derivative) (float64, error) {
	if d == nil {
		return 0, errs.InvalidArgument("model %s: nil derivative", m.name)
	}
	fn, ok := m.settlement[d.Kind()]
	if !ok {
		return 0, errs.UnsupportedType("model %s has no settlement time for %s", m.name, d.Kind())
	}
	return fn(d)
}
