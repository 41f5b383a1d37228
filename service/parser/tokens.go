package parser

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	segmentCode = iota + 1
	colonCode
	statementCode
	semicolonCode
)

var (
	segmentToken   = parsly.NewToken(segmentCode, "Segment", newUntilMatcher(':'))
	colonToken     = parsly.NewToken(colonCode, ":", matcher.NewByte(':'))
	statementToken = parsly.NewToken(statementCode, "Statement", newUntilMatcher(';'))
	semicolonToken = parsly.NewToken(semicolonCode, ";", matcher.NewByte(';'))
)

func newUntilMatcher(terminator byte) parsly.Matcher {
	return &untilMatcher{terminator: terminator}
}

// untilMatcher matches any non-empty run of bytes up to the terminator or end of input
type untilMatcher struct {
	terminator byte
}

func (m *untilMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		if input[i] == m.terminator {
			break
		}
		matched++
	}
	return matched
}
