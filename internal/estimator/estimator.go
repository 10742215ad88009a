// Package estimator approximates token counts from raw text.
//
// The numbers are a heuristic, not a tokenizer: there is no accuracy bound,
// and they should only be used where an exact count is unavailable.
package estimator

import (
	"unicode/utf8"

	"github.com/anomredux/tokenwatch/internal/parser"
)

const (
	DefaultCharsPerToken = 4
	DefaultBuffer        = 1.1

	codeDensity    = 0.10
	codeFactor     = 1.2
	specialDensity = 0.05
	specialFactor  = 1.1
)

type Estimator struct {
	charsPerToken int
	buffer        float64
}

// New returns an estimator; non-positive arguments fall back to defaults.
func New(charsPerToken int, buffer float64) Estimator {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return Estimator{charsPerToken: charsPerToken, buffer: buffer}
}

func Default() Estimator {
	return New(DefaultCharsPerToken, DefaultBuffer)
}

// Estimate returns the approximate token count of text. It is a pure
// function of its input.
func (e Estimator) Estimate(text string) int {
	if text == "" {
		return 0
	}
	chars := utf8.RuneCountInString(text)
	code, special := countClasses(text)

	estimated := float64(chars) / float64(e.charsPerToken)
	if float64(code) > float64(chars)*codeDensity {
		estimated *= codeFactor
	}
	if float64(special) > float64(chars)*specialDensity {
		estimated *= specialFactor
	}
	return int(estimated * e.buffer)
}

// EstimateConversation splits messages into input (user and system turns)
// and output (everything else) and estimates each side.
func (e Estimator) EstimateConversation(msgs []parser.Message) (input, output int) {
	for _, m := range msgs {
		n := e.Estimate(m.Content)
		if m.IsInput() {
			input += n
		} else {
			output += n
		}
	}
	return input, output
}

// EstimateTranscript estimates a pasted transcript or request body. Request
// bodies are decoded into messages; anything else is split on speaker markers.
func (e Estimator) EstimateTranscript(content string) (input, output int) {
	if msgs, ok := parser.ExtractMessages(content); ok {
		return e.EstimateConversation(msgs)
	}
	in, out := parser.SplitConversation(content)
	return e.Estimate(in), e.Estimate(out)
}

func countClasses(text string) (code, special int) {
	for _, r := range text {
		switch r {
		case '{', '}', '(', ')', '[', ']', ';', ',', '.':
			code++
		case '<', '>', '@', '#', '$', '%', '^', '&', '*', '+', '=', '|', '\\':
			special++
		}
	}
	return code, special
}
