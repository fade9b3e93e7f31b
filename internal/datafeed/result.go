package datafeed

import "github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"

// HistoryStatus distinguishes the three outcomes of a history request. The
// charting engine renders each differently: OK draws bars, NoData shows an
// empty state, Error surfaces a message.
type HistoryStatus int

const (
	StatusOK HistoryStatus = iota
	StatusNoData
	StatusError
)

// String returns the wire-friendly form of the status
func (s HistoryStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoData:
		return "no_data"
	default:
		return "error"
	}
}

// HistoryResult is the tristate answer to a GetBars request. Bars is only
// populated for StatusOK; Err is only set for StatusError.
type HistoryResult struct {
	Status HistoryStatus
	Bars   []model.Bar
	Err    error
}

func okResult(bars []model.Bar) HistoryResult {
	return HistoryResult{Status: StatusOK, Bars: bars}
}

func noDataResult() HistoryResult {
	return HistoryResult{Status: StatusNoData, Bars: []model.Bar{}}
}

func errorResult(err error) HistoryResult {
	return HistoryResult{Status: StatusError, Err: err}
}
