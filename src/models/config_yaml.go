package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ScanConfigYAML mirrors ScanConfig for config files. Omitted fields keep
// their defaults, so a config file only states what it overrides.
type ScanConfigYAML struct {
	MinIVRank         *float64 `yaml:"min_iv_rank"`
	MaxIVRank         *float64 `yaml:"max_iv_rank"`
	MinVolume         *int64   `yaml:"min_volume"`
	MinOpenInterest   *int64   `yaml:"min_open_interest"`
	MaxPremium        *float64 `yaml:"max_premium"`
	MinDTE            *int     `yaml:"min_dte"`
	MaxDTE            *int     `yaml:"max_dte"`
	MinLiquidityRatio *float64 `yaml:"min_liquidity_ratio"`
}

type RiskConfigYAML struct {
	MaxPortfolioRisk  *float64 `yaml:"max_portfolio_risk"`
	MaxPositionSize   *float64 `yaml:"max_position_size"`
	MaxSectorExposure *float64 `yaml:"max_sector_exposure"`
	MaxPremium        *float64 `yaml:"max_premium"`
	StopLossPct       *float64 `yaml:"stop_loss_pct"`
	ProfitTargetPct   *float64 `yaml:"profit_target_pct"`
}

type ConfigYAML struct {
	Scanning *ScanConfigYAML `yaml:"scanning"`
	Risk     *RiskConfigYAML `yaml:"risk"`
}

func ParseConfigYAML(data []byte) (*ScanConfig, *RiskConfig, error) {
	var dto ConfigYAML
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, nil, fmt.Errorf("ParseConfigYAML: failed to unmarshal config: %v", err)
	}

	scanConfig := NewDefaultScanConfig()
	riskConfig := NewDefaultRiskConfig()

	if dto.Scanning != nil {
		s := dto.Scanning

		if s.MinIVRank != nil {
			scanConfig.MinIVRank = *s.MinIVRank
		}
		if s.MaxIVRank != nil {
			scanConfig.MaxIVRank = *s.MaxIVRank
		}
		if s.MinVolume != nil {
			scanConfig.MinVolume = *s.MinVolume
		}
		if s.MinOpenInterest != nil {
			scanConfig.MinOpenInterest = *s.MinOpenInterest
		}
		if s.MaxPremium != nil {
			scanConfig.MaxPremium = *s.MaxPremium
		}
		if s.MinDTE != nil {
			scanConfig.MinDTE = *s.MinDTE
		}
		if s.MaxDTE != nil {
			scanConfig.MaxDTE = *s.MaxDTE
		}
		if s.MinLiquidityRatio != nil {
			scanConfig.MinLiquidityRatio = *s.MinLiquidityRatio
		}
	}

	if dto.Risk != nil {
		r := dto.Risk

		if r.MaxPortfolioRisk != nil {
			riskConfig.MaxPortfolioRisk = *r.MaxPortfolioRisk
		}
		if r.MaxPositionSize != nil {
			riskConfig.MaxPositionSize = *r.MaxPositionSize
		}
		if r.MaxSectorExposure != nil {
			riskConfig.MaxSectorExposure = *r.MaxSectorExposure
		}
		if r.MaxPremium != nil {
			riskConfig.MaxPremium = *r.MaxPremium
		}
		if r.StopLossPct != nil {
			riskConfig.StopLossPct = *r.StopLossPct
		}
		if r.ProfitTargetPct != nil {
			riskConfig.ProfitTargetPct = *r.ProfitTargetPct
		}
	}

	if riskConfig.MaxPortfolioRisk < 0 || riskConfig.MaxPortfolioRisk > 1 {
		return nil, nil, fmt.Errorf("ParseConfigYAML: max_portfolio_risk must be a value between 0 and 1")
	}

	return scanConfig, riskConfig, nil
}
