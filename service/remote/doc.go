// Package remote defines the contract between the batch runner and a remote
// machine: two unary calls (Inspect, Execute) and one server streaming call
// (Upgrade). Transports live in sub-packages.
package remote
