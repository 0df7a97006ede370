package intent

import (
	"regexp"
	"strings"
)

// The rule table. Action rules are checked in order and the first match
// wins; widget rules match independently, so one sentence can request
// several widget types.
var (
	actionRules = []struct {
		action  Action
		pattern *regexp.Regexp
	}{
		{ActionAdd, regexp.MustCompile(`(?i)add|create|new`)},
		{ActionRemove, regexp.MustCompile(`(?i)remove|delete`)},
		{ActionMove, regexp.MustCompile(`(?i)move|reorder`)},
		{ActionPin, regexp.MustCompile(`(?i)pin|fix|lock`)},
	}

	tabPattern = regexp.MustCompile(`(?i)tab`)

	widgetRules = []struct {
		widget  string
		pattern *regexp.Regexp
	}{
		{"kpi", regexp.MustCompile(`(?i)kpi|metric card`)},
		{"chart", regexp.MustCompile(`(?i)chart|graph`)},
		{"table", regexp.MustCompile(`(?i)table|list`)},
		{"action", regexp.MustCompile(`(?i)action|button`)},
	}

	metricPattern = regexp.MustCompile(`(?i)reply rate|conversion|revenue|leads|campaigns|workflows`)

	vizRules = []struct {
		viz     string
		pattern *regexp.Regexp
	}{
		{"bar", regexp.MustCompile(`(?i)bar`)},
		{"line", regexp.MustCompile(`(?i)line`)},
		{"pie", regexp.MustCompile(`(?i)pie`)},
	}

	// Position checks run top, bottom, left, right — first match wins.
	positionRules = []struct {
		position string
		pattern  *regexp.Regexp
	}{
		{"top", regexp.MustCompile(`(?i)top`)},
		{"bottom", regexp.MustCompile(`(?i)bottom`)},
		{"left", regexp.MustCompile(`(?i)left`)},
		{"right", regexp.MustCompile(`(?i)right`)},
	}
)

// KeywordParser is the rule-table Parser implementation.
type KeywordParser struct{}

// NewKeywordParser creates the default parser.
func NewKeywordParser() *KeywordParser {
	return &KeywordParser{}
}

// Parse applies the rule table to the instruction text. It is pure: the
// same text always yields the same Intent.
func (p *KeywordParser) Parse(text string) Intent {
	in := Intent{
		Action:  ActionUnknown,
		Targets: []string{},
		Widgets: []string{},
		Metrics: []string{},
	}

	for _, rule := range actionRules {
		if rule.pattern.MatchString(text) {
			in.Action = rule.action
			break
		}
	}

	if tabPattern.MatchString(text) {
		in.Targets = append(in.Targets, "tab")
	}

	for _, rule := range widgetRules {
		if rule.pattern.MatchString(text) {
			in.Widgets = append(in.Widgets, rule.widget)
		}
	}

	for _, m := range metricPattern.FindAllString(text, -1) {
		in.Metrics = append(in.Metrics, strings.ToLower(m))
	}

	for _, rule := range vizRules {
		if rule.pattern.MatchString(text) {
			in.Viz = rule.viz
			break
		}
	}

	for _, rule := range positionRules {
		if rule.pattern.MatchString(text) {
			in.Position = rule.position
			break
		}
	}

	return in
}
