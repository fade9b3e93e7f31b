package api

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/datafeed"
)

// BarsRequest is a validated history request
type BarsRequest struct {
	Symbol     string
	Resolution string
	From       int64
	To         int64
}

// Validator handles validation logic separate from HTTP concerns
type Validator struct {
	supportedResolutions map[string]bool
	symbolRegex          *regexp.Regexp
}

var (
	validatorInstance *Validator
	validatorOnce     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	validatorOnce.Do(func() {
		supported := make(map[string]bool)
		for _, r := range datafeed.SupportedResolutions() {
			supported[r] = true
		}
		// The catalog decides which symbols exist; validation only rejects
		// names that could not be a catalog entry at all, so config-supplied
		// symbols like a plain AAPL stay reachable.
		validatorInstance = &Validator{
			supportedResolutions: supported,
			symbolRegex:          regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,19}$`),
		}
	})
	return validatorInstance
}

// ValidateSymbolName validates and sanitizes a symbol path or query value
func (v *Validator) ValidateSymbolName(symbol string) (string, error) {
	cleanSymbol := v.sanitizeInput(symbol)
	if cleanSymbol == "" {
		return "", errors.New("symbol parameter is required")
	}
	if !v.symbolRegex.MatchString(cleanSymbol) {
		return "", errors.New("symbol may only contain letters, digits, '.', '_' or '-', e.g. BTC-USD or AAPL")
	}
	return cleanSymbol, nil
}

// ValidateBarsRequest validates the symbol, resolution, and time range for
// a history request
func (v *Validator) ValidateBarsRequest(symbol, resolution, fromStr, toStr string) (BarsRequest, error) {
	cleanSymbol, err := v.ValidateSymbolName(symbol)
	if err != nil {
		return BarsRequest{}, err
	}

	cleanResolution := v.sanitizeInput(resolution)
	if cleanResolution == "" {
		cleanResolution = "1"
	}
	if !v.supportedResolutions[cleanResolution] {
		return BarsRequest{}, fmt.Errorf("invalid resolution %q. Supported values: %s",
			cleanResolution, strings.Join(datafeed.SupportedResolutions(), ", "))
	}

	from, err := v.parseTimestamp(fromStr, "from")
	if err != nil {
		return BarsRequest{}, err
	}
	to, err := v.parseTimestamp(toStr, "to")
	if err != nil {
		return BarsRequest{}, err
	}
	if from >= to {
		return BarsRequest{}, errors.New("from must be earlier than to")
	}

	return BarsRequest{
		Symbol:     cleanSymbol,
		Resolution: cleanResolution,
		From:       from,
		To:         to,
	}, nil
}

// ValidateStreamRequest validates the symbol and resolution for a live
// bar stream
func (v *Validator) ValidateStreamRequest(symbol, resolution string) (string, string, error) {
	cleanSymbol, err := v.ValidateSymbolName(symbol)
	if err != nil {
		return "", "", err
	}

	cleanResolution := v.sanitizeInput(resolution)
	if cleanResolution == "" {
		cleanResolution = "1"
	}
	if !v.supportedResolutions[cleanResolution] {
		return "", "", fmt.Errorf("invalid resolution %q. Supported values: %s",
			cleanResolution, strings.Join(datafeed.SupportedResolutions(), ", "))
	}

	return cleanSymbol, cleanResolution, nil
}

// sanitizeInput removes control characters and trims whitespace
func (v *Validator) sanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, input)

	// Limit length to prevent DoS
	if len(input) > 100 {
		input = input[:100]
	}

	return input
}

// parseTimestamp parses a millisecond timestamp query parameter
func (v *Validator) parseTimestamp(value, name string) (int64, error) {
	value = v.sanitizeInput(value)
	if value == "" {
		return 0, fmt.Errorf("%s parameter is required", name)
	}

	ts, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a millisecond timestamp", name)
	}
	if ts < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return ts, nil
}
