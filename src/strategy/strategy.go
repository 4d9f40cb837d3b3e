package strategy

import "github.com/jiaming2012/options-edge/src/models"

// Strategy evaluates scored candidates for entries and open positions for
// exits. Implementations hold no mutable state: every call is a pure
// function of its inputs, so one instance may serve concurrent scans.
type Strategy interface {
	Name() string
	EvaluateEntry(candidates []models.ScoredContract, snapshot models.MarketSnapshot) *models.Signal
	EvaluateExit(position models.Position, snapshot models.MarketSnapshot) *models.Signal
}
