package polls

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

const (
	titleMinLen    = 3
	titleMaxLen    = 200
	descriptionMax = 500
	optionMinCount = 2
	optionMaxCount = 10
	optionMaxLen   = 100
)

// SanitizedPoll is validated, markup-free poll input ready for persistence.
type SanitizedPoll struct {
	Title       string
	Description string
	Options     []string
}

// StripTags removes all HTML tags and attributes while preserving text
// content, including the text inside script/style elements: the goal is
// neutralizing markup, not censoring characters. "<b>Hi</b>" becomes "Hi".
//
// Text tokens are emitted raw, not via Tokenizer.Text: Text entity-decodes,
// which would turn "&lt;script&gt;" into a live "<script>" in the stored
// value. Raw keeps entities encoded, so the transform is idempotent.
func StripTags(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}

// sanitizePollInput trims, strips markup, and validates poll input. All
// violations are collected so the caller sees every problem at once.
func sanitizePollInput(title, description string, options []string) (*SanitizedPoll, []string) {
	var errs []string

	title = strings.TrimSpace(StripTags(title))
	if n := len([]rune(title)); n < titleMinLen || n > titleMaxLen {
		errs = append(errs, fmt.Sprintf("title must be %d-%d characters", titleMinLen, titleMaxLen))
	}

	description = strings.TrimSpace(StripTags(description))
	if len([]rune(description)) > descriptionMax {
		errs = append(errs, fmt.Sprintf("description must be at most %d characters", descriptionMax))
	}

	if len(options) < optionMinCount || len(options) > optionMaxCount {
		errs = append(errs, fmt.Sprintf("polls must have %d-%d options", optionMinCount, optionMaxCount))
	}

	cleaned := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for i, opt := range options {
		opt = strings.TrimSpace(StripTags(opt))
		if opt == "" || len([]rune(opt)) > optionMaxLen {
			errs = append(errs, fmt.Sprintf("option %d must be 1-%d characters", i+1, optionMaxLen))
			continue
		}
		key := strings.ToLower(opt)
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Sprintf("option %d is a duplicate", i+1))
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, opt)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &SanitizedPoll{Title: title, Description: description, Options: cleaned}, nil
}
