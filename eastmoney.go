package rebalance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Eastmoney fetches live quotes from the free Eastmoney endpoints: the
// push2 spot API for exchange-traded instruments and the fundgz
// estimated-NAV API for open-end funds. Responses are cached on disk
// with a daily expiry.
type Eastmoney struct {
	currency string
	client   *http.Client
}

// NewEastmoney returns a quote source quoting in the given currency.
func NewEastmoney(currency string) *Eastmoney {
	return &Eastmoney{currency: currency, client: daily()}
}

// Price implements PriceSource. Cash is always worth one unit of the
// reporting currency and never hits the network.
func (e *Eastmoney) Price(ctx context.Context, code string, kind InstrumentKind) (Money, error) {
	switch kind {
	case Cash:
		return M(1, e.currency), nil
	case Continuous:
		return e.fundNAV(ctx, code)
	default:
		return e.spot(ctx, code)
	}
}

// secid prefixes the code with the exchange id expected by push2:
// 1 for Shanghai, 0 for Shenzhen.
func secid(code string) string {
	if strings.HasPrefix(code, "5") || strings.HasPrefix(code, "6") {
		return "1." + code
	}
	return "0." + code
}

/*
	{
	    "rc": 0,
	    "data": {
	        "f43": 3915,
	        "f59": 3
	    }
	}
*/
func (e *Eastmoney) spot(ctx context.Context, code string) (Money, error) {
	addr := fmt.Sprintf("https://push2.eastmoney.com/api/qt/stock/get?secid=%s&fields=f43,f59", secid(code))
	var jobj any
	if err := jwget(e.client, addr, &jobj); err != nil {
		return Money{}, fmt.Errorf("%w: %q: %v", ErrPriceUnavailable, code, err)
	}

	price, err := jsonfloat(jobj, "$.data.f43")
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: %v", ErrPriceUnavailable, code, err)
	}
	// f43 is scaled by the instrument's decimal precision in f59.
	scale, err := jsonfloat(jobj, "$.data.f59")
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: %v", ErrPriceUnavailable, code, err)
	}
	val := price / math.Pow(10, scale)
	if val == 0 {
		return Money{}, fmt.Errorf("%w: %q: empty quote", ErrPriceUnavailable, code)
	}
	return M(val, e.currency), nil
}

// jsonfloat extracts a single float from a parsed JSON document.
func jsonfloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("error parsing %q: not a float: %v", path, jval)
	}
	return val, nil
}

/*
	jsonpgz({"fundcode":"110022","name":"...","dwjz":"2.4280","gsz":"2.4342","gztime":"2026-08-28 15:00"});
*/
func (e *Eastmoney) fundNAV(ctx context.Context, code string) (Money, error) {
	addr := "https://fundgz.1234567.com.cn/js/" + code + ".js"
	content, err := wget(e.client, addr)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: %v", ErrPriceUnavailable, code, err)
	}
	// the endpoint wraps JSON in a jsonp callback, strip it.
	content = bytes.TrimSpace(content)
	content = bytes.TrimPrefix(content, []byte("jsonpgz("))
	content = bytes.TrimSuffix(content, []byte(");"))

	var jobj struct {
		NAV       string `json:"dwjz"`
		Estimated string `json:"gsz"`
	}
	if err := json.Unmarshal(content, &jobj); err != nil {
		return Money{}, fmt.Errorf("%w: %q: %v", ErrPriceUnavailable, code, err)
	}

	// prefer the intraday estimate, the settled NAV lags a day.
	raw := jobj.Estimated
	if raw == "" {
		raw = jobj.NAV
	}
	if raw == "" {
		return Money{}, fmt.Errorf("%w: %q: empty quote", ErrPriceUnavailable, code)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: invalid quote %q", ErrPriceUnavailable, code, raw)
	}
	return Money{value: d, cur: e.currency}, nil
}

var _ PriceSource = (*Eastmoney)(nil)
