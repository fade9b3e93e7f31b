package model

// Bar represents one OHLCV sample at a millisecond timestamp
type Bar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Tick represents a single simulated trade print used to build bars
type Tick struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Size      float64 `json:"size"`
	Timestamp int64   `json:"timestamp"`
}

// SymbolInfo describes a tradable instrument in the catalog.
// Instances are immutable once constructed.
type SymbolInfo struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Exchange    string `json:"exchange"`
	Type        string `json:"type"`
	PriceScale  int    `json:"price_scale"`
	Session     string `json:"session"`
	Timezone    string `json:"timezone"`
}
