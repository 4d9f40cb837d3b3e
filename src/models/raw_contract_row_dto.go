package models

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// RawContractRowDTO is one vendor-supplied option chain row. Numeric fields
// arrive as strings because vendors disagree on empty-cell encoding ("", "NaN",
// "null"). Optional columns simply come through empty.
type RawContractRowDTO struct {
	ContractSymbol    string `csv:"contractSymbol" json:"contractSymbol"`
	UnderlyingSymbol  string `csv:"underlyingSymbol" json:"underlyingSymbol"`
	Strike            string `csv:"strike" json:"strike"`
	Bid               string `csv:"bid" json:"bid"`
	Ask               string `csv:"ask" json:"ask"`
	LastPrice         string `csv:"lastPrice" json:"lastPrice"`
	Volume            string `csv:"volume" json:"volume"`
	OpenInterest      string `csv:"openInterest" json:"openInterest"`
	ImpliedVolatility string `csv:"impliedVolatility" json:"impliedVolatility"`
	InTheMoney        string `csv:"inTheMoney" json:"inTheMoney"`
	Expiration        string `csv:"expiration" json:"expiration"`
	OptionType        string `csv:"optionType" json:"optionType"`
}

func isAbsent(s string) bool {
	return s == "" || s == "NaN" || s == "nan" || s == "null"
}

// parseOptionalFloat returns NaN for an absent cell and an error for a cell
// that is present but malformed.
func parseOptionalFloat(field, s string) (float64, error) {
	if isAbsent(s) {
		return math.NaN(), nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %v", field, err)
	}

	return v, nil
}

func parseOptionalInt(field, s string) (*int64, error) {
	if isAbsent(s) {
		return nil, nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %v", field, err)
	}

	return &v, nil
}

func parseExpiration(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("error parsing expiration: %v", err)
		}
	}

	return t, nil
}

// HasVolume reports whether the vendor populated the volume cell.
func (dto *RawContractRowDTO) HasVolume() bool {
	return !isAbsent(dto.Volume)
}

// HasOpenInterest reports whether the vendor populated the open interest cell.
func (dto *RawContractRowDTO) HasOpenInterest() bool {
	return !isAbsent(dto.OpenInterest)
}

// ToModel coerces the raw row into a normalized contract. Strike, expiration
// and option type are required; a malformed value fails the conversion so that
// data-quality problems surface instead of silently thinning the chain.
func (dto *RawContractRowDTO) ToModel(now time.Time) (*OptionContract, error) {
	if isAbsent(dto.Strike) {
		return nil, fmt.Errorf("ToModel: missing strike")
	}

	strike, err := strconv.ParseFloat(dto.Strike, 64)
	if err != nil {
		return nil, fmt.Errorf("ToModel: error parsing strike: %v", err)
	}

	if strike <= 0 {
		return nil, fmt.Errorf("ToModel: invalid strike: %v", strike)
	}

	expiration, err := parseExpiration(dto.Expiration)
	if err != nil {
		return nil, fmt.Errorf("ToModel: %v", err)
	}

	optionType, err := NewOptionType(dto.OptionType)
	if err != nil {
		return nil, fmt.Errorf("ToModel: %v", err)
	}

	bid, err := parseOptionalFloat("bid", dto.Bid)
	if err != nil {
		return nil, fmt.Errorf("ToModel: %v", err)
	}

	ask, err := parseOptionalFloat("ask", dto.Ask)
	if err != nil {
		return nil, fmt.Errorf("ToModel: %v", err)
	}

	lastPrice, err := parseOptionalFloat("lastPrice", dto.LastPrice)
	if err != nil {
		return nil, fmt.Errorf("ToModel: %v", err)
	}

	iv, err := parseOptionalFloat("impliedVolatility", dto.ImpliedVolatility)
	if err != nil {
		return nil, fmt.Errorf("ToModel: %v", err)
	}

	volume, err := parseOptionalInt("volume", dto.Volume)
	if err != nil {
		return nil, fmt.Errorf("ToModel: %v", err)
	}

	openInterest, err := parseOptionalInt("openInterest", dto.OpenInterest)
	if err != nil {
		return nil, fmt.Errorf("ToModel: %v", err)
	}

	var inTheMoney *bool
	if !isAbsent(dto.InTheMoney) {
		v, err := strconv.ParseBool(dto.InTheMoney)
		if err != nil {
			return nil, fmt.Errorf("ToModel: error parsing inTheMoney: %v", err)
		}

		inTheMoney = &v
	}

	// Mid price from the quote when both sides are present, otherwise fall
	// back to the last traded price.
	mid := math.NaN()
	if !math.IsNaN(bid) && !math.IsNaN(ask) {
		mid = (bid + ask) / 2
	} else if !math.IsNaN(lastPrice) {
		mid = lastPrice
	}

	// Premium is the cost to buy one contract. Use the ask when quoted; the
	// mid estimate otherwise.
	premium := mid * ContractSize
	if !math.IsNaN(ask) {
		premium = ask * ContractSize
	}

	// IV arrives as a fraction (0.25 == 25%). Never fabricate a value when
	// the vendor omits it.
	ivPct := math.NaN()
	if !math.IsNaN(iv) {
		ivPct = iv * 100
	}

	liquidityRatio := math.NaN()
	if volume != nil && openInterest != nil && *openInterest > 0 {
		liquidityRatio = float64(*volume) / float64(*openInterest)
	}

	return &OptionContract{
		Symbol:           OptionSymbol(dto.ContractSymbol),
		UnderlyingSymbol: StockSymbol(dto.UnderlyingSymbol),
		OptionType:       optionType,
		Strike:           strike,
		Expiration:       expiration,
		DaysToExpiration: CalendarDaysBetween(now, expiration),
		Bid:              bid,
		Ask:              ask,
		MidPrice:         mid,
		Premium:          premium,
		IVPct:            ivPct,
		Volume:           volume,
		OpenInterest:     openInterest,
		InTheMoney:       inTheMoney,
		LiquidityRatio:   liquidityRatio,
	}, nil
}

// CalendarDaysBetween counts whole calendar days between the two instants,
// comparing dates in UTC.
func CalendarDaysBetween(from, to time.Time) int {
	fromDate := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDate := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	return int(toDate.Sub(fromDate).Hours() / 24)
}
