package report

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/viant/remotely/model"
)

const yamlHeader = "# Remotely batch report"

// Renderer writes a report to a sink
type Renderer interface {
	Render(writer io.Writer, report *Report) error
}

// NewRenderer returns renderer for supplied markup
func NewRenderer(markup Markup) (Renderer, error) {
	switch markup {
	case MarkupYAML:
		return &YAMLRenderer{}, nil
	case MarkupXML:
		return &XMLRenderer{}, nil
	}
	return nil, fmt.Errorf("unsupported report markup: %q", markup)
}

// Render renders report with supplied markup
func Render(writer io.Writer, report *Report, markup Markup) error {
	renderer, err := NewRenderer(markup)
	if err != nil {
		return err
	}
	return renderer.Render(writer, report)
}

// YAMLRenderer renders a YAML document with a leading comment line
type YAMLRenderer struct{}

func (r *YAMLRenderer) Render(writer io.Writer, report *Report) error {
	w := bufio.NewWriter(writer)
	fmt.Fprintln(w, yamlHeader)
	fmt.Fprintf(w, "title   : %s\ndate    : %s\ncommands:\n", report.Title(), formatDate(report.Date()))
	for _, entry := range report.Entries() {
		fmt.Fprintf(w, "- command: '%s'\n", strings.ReplaceAll(entry.Command.String(), "'", "''"))
		fmt.Fprintf(w, "  status : %s\n", entry.Status.String())
		output := outputOf(entry.Status)
		if output == nil {
			continue
		}
		fmt.Fprintln(w, "  output : |")
		switch actual := output.(type) {
		case model.Text:
			for _, line := range lines(string(actual)) {
				fmt.Fprintf(w, "    %s\n", line)
			}
		case model.Count:
			fmt.Fprintf(w, "    %d\n", uint32(actual))
		}
	}
	return w.Flush()
}

// XMLRenderer renders an XML document, command text and output are wrapped in CDATA
type XMLRenderer struct{}

func (r *XMLRenderer) Render(writer io.Writer, report *Report) error {
	w := bufio.NewWriter(writer)
	fmt.Fprint(w, xml.Header)
	fmt.Fprintln(w, "<report>")
	fmt.Fprintf(w, "  <title>%s</title>\n  <date>%s</date>\n  <commands>\n", escapeText(report.Title()), formatDate(report.Date()))
	for _, entry := range report.Entries() {
		fmt.Fprintf(w, "    <command>\n      <input>%s</input>\n", cdata(entry.Command.String()))
		fmt.Fprintf(w, "      <status>%s</status>\n", entry.Status.String())
		switch actual := outputOf(entry.Status).(type) {
		case model.Text:
			fmt.Fprintf(w, "      <output>%s</output>\n", cdata(string(actual)))
		case model.Count:
			fmt.Fprintf(w, "      <output>%d</output>\n", uint32(actual))
		}
		fmt.Fprintln(w, "    </command>")
	}
	fmt.Fprintln(w, "  </commands>")
	fmt.Fprintln(w, "</report>")
	return w.Flush()
}

func outputOf(status model.Status) model.Output {
	if success, ok := status.(model.Success); ok {
		return success.Output
	}
	return nil
}

// formatDate formats RFC 3339 with a numeric offset and 0, 3, 6 or 9 fraction digits.
func formatDate(date time.Time) string {
	nanos := date.Nanosecond()
	layout := "2006-01-02T15:04:05"
	switch {
	case nanos == 0:
	case nanos%1000000 == 0:
		layout += ".000"
	case nanos%1000 == 0:
		layout += ".000000"
	default:
		layout += ".000000000"
	}
	return date.Format(layout + "-07:00")
}

// lines splits text on '\n', drops a trailing '\r' of each line and ignores a final empty line.
func lines(text string) []string {
	if text == "" {
		return nil
	}
	result := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range result {
		result[i] = strings.TrimSuffix(line, "\r")
	}
	return result
}

// cdata wraps text in a CDATA section, splitting any embedded terminator
func cdata(text string) string {
	return "<![CDATA[" + strings.ReplaceAll(text, "]]>", "]]]]><![CDATA[>") + "]]>"
}

func escapeText(text string) string {
	builder := strings.Builder{}
	_ = xml.EscapeText(&builder, []byte(text))
	return builder.String()
}
