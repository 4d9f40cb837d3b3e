package models

import (
	"fmt"
	"strconv"
	"time"
)

type CandleDTO struct {
	Date   string `csv:"date" json:"date"`
	Open   string `csv:"open" json:"open"`
	High   string `csv:"high" json:"high"`
	Low    string `csv:"low" json:"low"`
	Close  string `csv:"close" json:"close"`
	Volume string `csv:"volume" json:"volume"`
}

func (dto *CandleDTO) ToModel() (*Candle, error) {
	t, err := time.Parse(time.RFC3339, dto.Date)
	if err != nil {
		t, err = time.Parse("2006-01-02", dto.Date)
		if err != nil {
			return nil, fmt.Errorf("ToModel: error parsing date: %v", err)
		}
	}

	open, err := strconv.ParseFloat(dto.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("ToModel: error parsing open: %v", err)
	}

	high, err := strconv.ParseFloat(dto.High, 64)
	if err != nil {
		return nil, fmt.Errorf("ToModel: error parsing high: %v", err)
	}

	low, err := strconv.ParseFloat(dto.Low, 64)
	if err != nil {
		return nil, fmt.Errorf("ToModel: error parsing low: %v", err)
	}

	closePrice, err := strconv.ParseFloat(dto.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("ToModel: error parsing close: %v", err)
	}

	var volume int64
	if !isAbsent(dto.Volume) {
		volume, err = strconv.ParseInt(dto.Volume, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ToModel: error parsing volume: %v", err)
		}
	}

	return &Candle{
		Timestamp: t,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
	}, nil
}
