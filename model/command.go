package model

// Kind identifies a command variant
type Kind int

const (
	KindExecute Kind = iota
	KindInspect
	KindUpgrade
)

// Keywords used by the batch language and the canonical command form
const (
	ExecuteKeyword = "EXECUTE"
	InspectKeyword = "INSPECT"
	UpgradeKeyword = "UPGRADE"
)

// String returns the batch keyword of the kind
func (k Kind) String() string {
	switch k {
	case KindExecute:
		return ExecuteKeyword
	case KindInspect:
		return InspectKeyword
	case KindUpgrade:
		return UpgradeKeyword
	}
	return "UNKNOWN"
}

// Command represents a single unit of remote work
type Command struct {
	Kind Kind `json:"kind" yaml:"kind"`
	// Argument holds the shell command of an Execute command, it is empty for other kinds.
	Argument string `json:"argument,omitempty" yaml:"argument,omitempty"`
}

// Execute returns a command running the supplied shell text on the remote host
func Execute(command string) Command {
	return Command{Kind: KindExecute, Argument: command}
}

// Inspect returns a command collecting machine information
func Inspect() Command {
	return Command{Kind: KindInspect}
}

// Upgrade returns a command starting a remote upgrade
func Upgrade() Command {
	return Command{Kind: KindUpgrade}
}

// String returns the canonical form: "EXECUTE: <cmd>", "INSPECT" or "UPGRADE".
func (c Command) String() string {
	if c.Kind == KindExecute {
		return ExecuteKeyword + ": " + c.Argument
	}
	return c.Kind.String()
}
