package model

import "strings"

// Batch is an ordered sequence of commands parsed from one document
type Batch struct {
	Commands []Command `json:"commands" yaml:"commands"`
}

// NewBatch creates a batch for supplied commands
func NewBatch(commands ...Command) *Batch {
	return &Batch{Commands: commands}
}

// Len returns number of commands
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Commands)
}

// Append adds commands to the end of the batch
func (b *Batch) Append(commands ...Command) {
	b.Commands = append(b.Commands, commands...)
}

// String returns the canonical single line form of the batch
func (b *Batch) String() string {
	if b == nil {
		return ""
	}
	items := make([]string, 0, len(b.Commands))
	for _, command := range b.Commands {
		items = append(items, command.String())
	}
	return strings.Join(items, "; ")
}
