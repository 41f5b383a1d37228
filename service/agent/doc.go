// Package agent is the machine side of the remote contract. Inspect and
// Execute run through a gosh shell session, either local or over SSH with
// credentials resolved by scy; Upgrade simulates a progression of random
// steps ending at 100%.
package agent
