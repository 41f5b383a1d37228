// Package model defines the command language shared by the parser, the
// runner and the report: Command, Output, Status and Batch.
//
// Output and Status are closed sums implemented as sealed interfaces; callers
// are expected to type-switch over Text/Count and Success/Failure.
package model
