package models

import (
	"time"

	"github.com/google/uuid"
)

type SignalAction string

const (
	SignalActionBuy  SignalAction = "buy"
	SignalActionSell SignalAction = "sell"
)

// Signal is a proposed entry or exit produced by a strategy. It is consumed
// by the journal and display layers; the core never persists it.
type Signal struct {
	ID           uuid.UUID
	Action       SignalAction
	Symbol       StockSymbol
	OptionType   OptionType
	Strike       float64
	Expiration   time.Time
	DTE          int
	Premium      float64
	Contracts    int
	CurrentPrice float64
	IVPct        float64
	IVRank       float64
	Volume       *int64
	OpenInterest *int64
	Reason       string
	Rationale    string
	PnL          float64
	Timestamp    time.Time
}
