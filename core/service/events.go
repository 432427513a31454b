// Package service provides the filter, flatten and dashboard logic for Terminus.
package service

import (
	"log"
	"regexp"
)

// Display algorithms for shortening a raw log line into its action label.
const (
	AlgorithmRegex  = "regex"
	AlgorithmCustom = "custom"
)

// DefaultActionMaxLength bounds the truncation fallback.
const DefaultActionMaxLength = 50

// ExtractorConfig selects and parameterizes an extraction strategy.
type ExtractorConfig struct {
	Algorithm string
	Pattern   string              // regex with one capture group
	MaxLength int                 // truncation fallback length
	Custom    func(string) string // opaque transform for AlgorithmCustom
}

// ActionExtractor shortens raw log messages for display. Strategy
// evaluation never propagates a failure to the caller: any panic inside a
// strategy is caught and converted to the truncation fallback.
type ActionExtractor struct {
	algorithm string
	pattern   *regexp.Regexp
	maxLength int
	custom    func(string) string
}

// NewActionExtractor builds an extractor from configuration. An
// unrecognized algorithm name logs a warning and falls back to the regex
// strategy; an invalid pattern logs a warning and leaves only the
// truncation fallback.
func NewActionExtractor(cfg ExtractorConfig) *ActionExtractor {
	algorithm := cfg.Algorithm
	switch algorithm {
	case AlgorithmRegex, AlgorithmCustom:
	case "":
		algorithm = AlgorithmRegex
	default:
		log.Printf("Warning: unrecognized display algorithm %q, falling back to regex", algorithm)
		algorithm = AlgorithmRegex
	}

	maxLength := cfg.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultActionMaxLength
	}

	var pattern *regexp.Regexp
	if cfg.Pattern != "" {
		var err error
		pattern, err = regexp.Compile(cfg.Pattern)
		if err != nil {
			log.Printf("Warning: invalid action regex %q: %v", cfg.Pattern, err)
			pattern = nil
		}
	}

	return &ActionExtractor{
		algorithm: algorithm,
		pattern:   pattern,
		maxLength: maxLength,
		custom:    cfg.Custom,
	}
}

// Extract returns the shortened display form of a log message.
func (e *ActionExtractor) Extract(message string) string {
	if action, ok := e.evaluate(message); ok && action != "" {
		return action
	}
	return e.truncate(message)
}

// evaluate runs the configured strategy. The recover boundary lives here
// so a misbehaving custom transform or pathological regex input can only
// ever degrade to the truncation fallback.
func (e *ActionExtractor) evaluate(message string) (action string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Action extraction failed: %v", r)
			action, ok = "", false
		}
	}()

	switch e.algorithm {
	case AlgorithmCustom:
		if e.custom == nil {
			return "", false
		}
		return e.custom(message), true
	default:
		if e.pattern == nil {
			return "", false
		}
		m := e.pattern.FindStringSubmatch(message)
		if len(m) < 2 {
			return "", false
		}
		return m[1], true
	}
}

// truncate bounds a message to the configured length with an ellipsis
// suffix, counting runes so multibyte text is not split.
func (e *ActionExtractor) truncate(message string) string {
	runes := []rune(message)
	if len(runes) <= e.maxLength {
		return message
	}
	return string(runes[:e.maxLength]) + "..."
}
