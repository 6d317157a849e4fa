package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertCondition is the comparison direction of a price alert.
type AlertCondition string

const (
	ConditionAbove AlertCondition = "above"
	ConditionBelow AlertCondition = "below"
)

// Alert pairs a symbol with a target price and a comparison direction.
// Triggered is one-way: once set it never reverts.
type Alert struct {
	ID          int             `json:"id"`
	Symbol      string          `json:"symbol"`
	Condition   AlertCondition  `json:"condition"`
	TargetPrice decimal.Decimal `json:"target_price"`
	Triggered   bool            `json:"triggered"`
	CreatedAt   time.Time       `json:"created_at"`
}
