package broker

import (
	"errors"
	"fmt"
	"time"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// Demo account constants
const (
	DemoAccountID = "demo-001"
	DemoCurrency  = "USD"
)

// NewDemoSnapshot builds the static broker state the chart displays when
// trading is enabled: one paper account with a few resting orders, fills,
// and open positions over the catalog symbols. Built once at startup and
// never mutated afterwards.
func NewDemoSnapshot(symbols []model.SymbolInfo) model.BrokerSnapshot {
	now := time.Now().UnixMilli()

	snapshot := model.BrokerSnapshot{
		Accounts: []model.Account{
			{
				AccountID: DemoAccountID,
				Name:      "Demo Paper Account",
				Currency:  DemoCurrency,
				Balance:   100_000,
				Equity:    101_250.50,
			},
		},
		Orders:    []model.Order{},
		Trades:    []model.BrokerTrade{},
		Positions: []model.Position{},
	}

	for i, s := range symbols {
		if i >= 3 {
			break
		}
		price := 100.0 * float64(i+1)

		snapshot.Orders = append(snapshot.Orders, model.Order{
			OrderID:   fmt.Sprintf("o-%d", i+1),
			AccountID: DemoAccountID,
			Symbol:    s.Name,
			Side:      "buy",
			Type:      "limit",
			Quantity:  0.5,
			Price:     price * 0.95,
			Status:    "working",
			Timestamp: now - int64(i+1)*60_000,
		})
		snapshot.Trades = append(snapshot.Trades, model.BrokerTrade{
			TradeID:   fmt.Sprintf("f-%d", i+1),
			OrderID:   fmt.Sprintf("o-%d", i+1),
			Symbol:    s.Name,
			Side:      "buy",
			Quantity:  0.25,
			Price:     price,
			Timestamp: now - int64(i+1)*120_000,
		})
		snapshot.Positions = append(snapshot.Positions, model.Position{
			Symbol:    s.Name,
			Side:      "long",
			Quantity:  0.25,
			AvgPrice:  price,
			MarkPrice: price * 1.01,
			PnL:       price * 0.01 * 0.25,
		})
	}

	return snapshot
}

// Validate rejects snapshots the chart engine cannot apply. An empty account
// list is the malformed-payload case; the caller degrades it to a status
// message rather than failing the mount.
func Validate(snapshot model.BrokerSnapshot) error {
	if len(snapshot.Accounts) == 0 {
		return errors.New("broker snapshot has no accounts")
	}
	for _, o := range snapshot.Orders {
		if o.AccountID == "" {
			return fmt.Errorf("order %s has no account id", o.OrderID)
		}
	}
	return nil
}
