package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/remotely/model"
)

const (
	commentPrefix = "#"
	maxLineSize   = 1024 * 1024
)

// ParseCommand parses a single command: "EXECUTE: <cmd>", "INSPECT" or "UPGRADE".
func ParseCommand(text string) (model.Command, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.Command{}, newSyntaxError(ErrEmptyString, text)
	}
	segments := splitSegments(trimmed)
	switch segments[0] {
	case model.ExecuteKeyword:
		if len(segments) != 2 {
			return model.Command{}, newSyntaxError(ErrMissingArgument, trimmed)
		}
		argument := strings.TrimSpace(segments[1])
		if argument == "" {
			return model.Command{}, newSyntaxError(ErrMissingArgument, trimmed)
		}
		return model.Execute(argument), nil
	case model.InspectKeyword:
		return model.Inspect(), nil
	case model.UpgradeKeyword:
		return model.Upgrade(), nil
	}
	return model.Command{}, newSyntaxError(ErrUnknownCommand, trimmed)
}

// splitSegments returns colon delimited segments; it always returns at least one segment.
func splitSegments(text string) []string {
	cursor := parsly.NewCursor("", []byte(text), 0)
	var segments []string
	for {
		segment := ""
		matched := cursor.MatchOne(segmentToken)
		if matched.Code == segmentCode {
			segment = matched.Text(cursor)
		}
		segments = append(segments, segment)
		if cursor.MatchOne(colonToken).Code != colonCode {
			return segments
		}
	}
}

// Parse parses a batch document. Text with a line break between commands is
// parsed in the multi-line form, otherwise commands are separated by ';'.
// Trailing line breaks do not count. Whitespace only text is an EmptyString
// error in either form; comment only text is an empty batch.
func Parse(text string) (*model.Batch, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newSyntaxError(ErrEmptyString, text)
	}
	line := strings.TrimRight(text, "\r\n")
	if strings.Contains(line, "\n") || isComment(line) {
		return Read(strings.NewReader(text))
	}
	return ParseLine(line)
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), commentPrefix)
}

func skipped(line string) bool {
	return strings.TrimSpace(line) == "" || isComment(line)
}

// ParseLine parses the single line form: commands separated by ';'.
func ParseLine(text string) (*model.Batch, error) {
	cursor := parsly.NewCursor("", []byte(text), 0)
	batch := model.NewBatch()
	for {
		statement := ""
		matched := cursor.MatchOne(statementToken)
		if matched.Code == statementCode {
			statement = matched.Text(cursor)
		}
		command, err := ParseCommand(statement)
		if err != nil {
			return nil, err
		}
		batch.Append(command)
		if cursor.MatchOne(semicolonToken).Code != semicolonCode {
			return batch, nil
		}
	}
}

// Read parses the multi-line form: one command per line, blank lines and
// lines starting with '#' are skipped.
func Read(reader io.Reader) (*model.Batch, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	batch := model.NewBatch()
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if skipped(line) {
			continue
		}
		command, err := ParseCommand(line)
		if err != nil {
			var syntaxErr *SyntaxError
			if errors.As(err, &syntaxErr) {
				syntaxErr.Line = lineNumber
			}
			return nil, err
		}
		batch.Append(command)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch: %w", err)
	}
	return batch, nil
}
