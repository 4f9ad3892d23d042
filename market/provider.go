package market

import (
	"sort"

	"github.com/meenmo/mogreeks/currency"
	"github.com/meenmo/mogreeks/curve"
	"github.com/meenmo/mogreeks/errs"
)

// Provider is a multi-curve market: discount curves per currency and an FX table.
type Provider interface {
	DiscountCurve(ccy currency.Currency) (curve.DiscountCurve, error)
	FX() *currency.FXMatrix
}

// MulticurveProvider holds discount curves by currency, forward (projection)
// curves by index name and the FX table.
type MulticurveProvider struct {
	discount map[currency.Currency]curve.DiscountCurve
	forwards map[string]curve.DiscountCurve
	fx       *currency.FXMatrix
}

// NewMulticurveProvider copies the curve maps; fx is shared.
func NewMulticurveProvider(discount map[currency.Currency]curve.DiscountCurve, forwards map[string]curve.DiscountCurve, fx *currency.FXMatrix) (*MulticurveProvider, error) {
	if fx == nil {
		return nil, errs.InvalidArgument("multicurve provider: nil fx matrix")
	}
	p := &MulticurveProvider{
		discount: make(map[currency.Currency]curve.DiscountCurve, len(discount)),
		forwards: make(map[string]curve.DiscountCurve, len(forwards)),
		fx:       fx,
	}
	for k, c := range discount {
		if c == nil {
			return nil, errs.InvalidArgument("multicurve provider: nil discount curve for %s", k)
		}
		p.discount[k] = c
	}
	for k, c := range forwards {
		if c == nil {
			return nil, errs.InvalidArgument("multicurve provider: nil forward curve for %s", k)
		}
		p.forwards[k] = c
	}
	return p, nil
}

// DiscountCurve returns the discount curve for ccy.
func (p *MulticurveProvider) DiscountCurve(ccy currency.Currency) (curve.DiscountCurve, error) {
	c, ok := p.discount[ccy]
	if !ok {
		return nil, errs.InvalidArgument("multicurve provider: no discount curve for %s", ccy)
	}
	return c, nil
}

// ForwardCurve returns the projection curve for index.
func (p *MulticurveProvider) ForwardCurve(index string) (curve.DiscountCurve, error) {
	c, ok := p.forwards[index]
	if !ok {
		return nil, errs.InvalidArgument("multicurve provider: no forward curve for %s", index)
	}
	return c, nil
}

func (p *MulticurveProvider) FX() *currency.FXMatrix { return p.fx }

// Currencies returns the discounting currencies, sorted.
func (p *MulticurveProvider) Currencies() []currency.Currency {
	out := make([]currency.Currency, 0, len(p.discount))
	for c := range p.discount {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Indices returns the projection index names, sorted.
func (p *MulticurveProvider) Indices() []string {
	out := make([]string, 0, len(p.forwards))
	for k := range p.forwards {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MapCurves returns a provider of the same shape whose curves are fn applied
// to each curve of p. The FX table is shared.
func (p *MulticurveProvider) MapCurves(fn func(curve.DiscountCurve) (curve.DiscountCurve, error)) (*MulticurveProvider, error) {
	next := &MulticurveProvider{
		discount: make(map[currency.Currency]curve.DiscountCurve, len(p.discount)),
		forwards: make(map[string]curve.DiscountCurve, len(p.forwards)),
		fx:       p.fx,
	}
	for k, c := range p.discount {
		m, err := fn(c)
		if err != nil {
			return nil, err
		}
		next.discount[k] = m
	}
	for k, c := range p.forwards {
		m, err := fn(c)
		if err != nil {
			return nil, err
		}
		next.forwards[k] = m
	}
	return next, nil
}

// IssuerProvider extends a multi-curve provider with issuer-specific curves.
type IssuerProvider struct {
	multicurve *MulticurveProvider
	issuers    map[string]curve.DiscountCurve
}

// NewIssuerProvider copies the issuer map.
func NewIssuerProvider(multicurve *MulticurveProvider, issuers map[string]curve.DiscountCurve) (*IssuerProvider, error) {
	if multicurve == nil {
		return nil, errs.InvalidArgument("issuer provider: nil multicurve provider")
	}
	p := &IssuerProvider{multicurve: multicurve, issuers: make(map[string]curve.DiscountCurve, len(issuers))}
	for k, c := range issuers {
		if c == nil {
			return nil, errs.InvalidArgument("issuer provider: nil curve for %s", k)
		}
		p.issuers[k] = c
	}
	return p, nil
}

func (p *IssuerProvider) DiscountCurve(ccy currency.Currency) (curve.DiscountCurve, error) {
	return p.multicurve.DiscountCurve(ccy)
}

func (p *IssuerProvider) FX() *currency.FXMatrix { return p.multicurve.fx }

// Multicurve returns the underlying multi-curve provider.
func (p *IssuerProvider) Multicurve() *MulticurveProvider { return p.multicurve }

// IssuerCurve returns the curve for issuer.
func (p *IssuerProvider) IssuerCurve(issuer string) (curve.DiscountCurve, error) {
	c, ok := p.issuers[issuer]
	if !ok {
		return nil, errs.InvalidArgument("issuer provider: no curve for issuer %q", issuer)
	}
	return c, nil
}

// Issuers returns the issuer keys, sorted.
func (p *IssuerProvider) Issuers() []string {
	out := make([]string, 0, len(p.issuers))
	for k := range p.issuers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MapCurves applies fn to every discount, forward and issuer curve.
func (p *IssuerProvider) MapCurves(fn func(curve.DiscountCurve) (curve.DiscountCurve, error)) (*IssuerProvider, error) {
	mc, err := p.multicurve.MapCurves(fn)
	if err != nil {
		return nil, err
	}
	next := &IssuerProvider{multicurve: mc, issuers: make(map[string]curve.DiscountCurve, len(p.issuers))}
	for k, c := range p.issuers {
		m, err := fn(c)
		if err != nil {
			return nil, err
		}
		next.issuers[k] = m
	}
	return next, nil
}
