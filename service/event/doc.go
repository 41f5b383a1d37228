// Package event carries batch run notifications (one per appended report
// entry) from the runner to observers through a messaging.Queue.
package event
