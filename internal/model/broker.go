package model

// Account is a demo brokerage account record
type Account struct {
	AccountID string  `json:"account_id"`
	Name      string  `json:"name"`
	Currency  string  `json:"currency"`
	Balance   float64 `json:"balance"`
	Equity    float64 `json:"equity"`
}

// Order is a demo working order record
type Order struct {
	OrderID   string  `json:"order_id"`
	AccountID string  `json:"account_id"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Type      string  `json:"type"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	Timestamp int64   `json:"timestamp"`
}

// BrokerTrade is a demo fill record
type BrokerTrade struct {
	TradeID   string  `json:"trade_id"`
	OrderID   string  `json:"order_id"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

// Position is a demo open position record
type Position struct {
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Quantity  float64 `json:"quantity"`
	AvgPrice  float64 `json:"avg_price"`
	MarkPrice float64 `json:"mark_price"`
	PnL       float64 `json:"pnl"`
}

// BrokerSnapshot bundles the demo account state handed to the chart engine
// once at chart-ready time. It is a read-only snapshot; nothing mutates it
// after construction.
type BrokerSnapshot struct {
	Accounts  []Account     `json:"accounts"`
	Orders    []Order       `json:"orders"`
	Trades    []BrokerTrade `json:"trades"`
	Positions []Position    `json:"positions"`
}
