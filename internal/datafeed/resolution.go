package datafeed

import "github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"

// Bar interval constants in milliseconds
const (
	OneMinuteMs     = 60 * 1000
	FiveMinuteMs    = 5 * 60 * 1000
	FifteenMinuteMs = 15 * 60 * 1000
	OneHourMs       = 60 * 60 * 1000
	OneDayMs        = 24 * 60 * 60 * 1000
)

// ResolutionToMs converts a charting-engine resolution string to the bar
// interval in milliseconds. The boolean is false for unsupported resolutions.
func ResolutionToMs(resolution string) (int64, bool) {
	switch resolution {
	case "1":
		return OneMinuteMs, true
	case "5":
		return FiveMinuteMs, true
	case "15":
		return FifteenMinuteMs, true
	case "60":
		return OneHourMs, true
	case "1D", "D":
		return OneDayMs, true
	default:
		return 0, false
	}
}

// SupportedResolutions lists the resolutions the demo datafeed serves
func SupportedResolutions() []string {
	return []string{"1", "5", "15", "60", "1D"}
}

// aggregateBars rolls ascending 1-minute bars up into intervalMs buckets.
// Within a bucket the first bar's open and the last bar's close win, high and
// low extend, volume sums. Input ordering is preserved in the output.
func aggregateBars(oneMinBars []model.Bar, intervalMs int64) []model.Bar {
	if intervalMs <= OneMinuteMs {
		return oneMinBars
	}

	var result []model.Bar
	var current *model.Bar

	for _, bar := range oneMinBars {
		bucket := (bar.Timestamp / intervalMs) * intervalMs

		if current == nil || current.Timestamp != bucket {
			if current != nil {
				result = append(result, *current)
			}
			current = &model.Bar{
				Timestamp: bucket,
				Open:      bar.Open,
				High:      bar.High,
				Low:       bar.Low,
				Close:     bar.Close,
				Volume:    bar.Volume,
			}
			continue
		}

		if bar.High > current.High {
			current.High = bar.High
		}
		if bar.Low < current.Low {
			current.Low = bar.Low
		}
		current.Close = bar.Close
		current.Volume += bar.Volume
	}

	if current != nil {
		result = append(result, *current)
	}
	return result
}
