package utils

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/options-edge/src/models"
)

// LoadChainRows reads a raw option chain export.
func LoadChainRows(inDir string) ([]*models.RawContractRowDTO, error) {
	f, err := os.Open(inDir)
	if err != nil {
		return nil, fmt.Errorf("LoadChainRows: error opening file: %v", err)
	}

	defer f.Close()

	var rows []*models.RawContractRowDTO
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("LoadChainRows: error unmarshalling file: %v", err)
	}

	log.Infof("loaded %d chain rows from %s", len(rows), inDir)

	return rows, nil
}

// LoadCandles reads daily price history, oldest row first.
func LoadCandles(inDir string) ([]models.Candle, error) {
	f, err := os.Open(inDir)
	if err != nil {
		return nil, fmt.Errorf("LoadCandles: error opening file: %v", err)
	}

	defer f.Close()

	var dtos []*models.CandleDTO
	if err := gocsv.UnmarshalFile(f, &dtos); err != nil {
		return nil, fmt.Errorf("LoadCandles: error unmarshalling file: %v", err)
	}

	candles := make([]models.Candle, 0, len(dtos))
	for i, dto := range dtos {
		candle, err := dto.ToModel()
		if err != nil {
			return nil, fmt.Errorf("LoadCandles: row %d: %v", i, err)
		}

		candles = append(candles, *candle)
	}

	log.Infof("loaded %d candles from %s", len(candles), inDir)

	return candles, nil
}
