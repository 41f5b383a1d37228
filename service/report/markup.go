package report

import (
	"fmt"
	"strings"
)

// Markup identifies a report rendering format
type Markup string

const (
	MarkupYAML Markup = "yaml"
	MarkupXML  Markup = "xml"
)

// ParseMarkup parses markup name, it is case insensitive
func ParseMarkup(name string) (Markup, error) {
	switch Markup(strings.ToLower(strings.TrimSpace(name))) {
	case MarkupYAML, "yml":
		return MarkupYAML, nil
	case MarkupXML:
		return MarkupXML, nil
	}
	return "", fmt.Errorf("unsupported report markup: %q", name)
}

// Ext returns file extension for the markup
func (m Markup) Ext() string {
	return "." + string(m)
}
