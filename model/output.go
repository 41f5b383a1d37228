package model

import "strconv"

// Output is the payload of a successful command, either Text or Count.
type Output interface {
	output()
	String() string
}

// Text is a textual command output
type Text string

// Count is a numeric command output
type Count uint32

func (Text) output()  {}
func (Count) output() {}

func (t Text) String() string { return string(t) }

func (c Count) String() string { return strconv.FormatUint(uint64(c), 10) }
