// Package events publishes sharing and visibility notifications.
//
// Services emit a Notification when a calendar or event is shared or a
// calendar changes visibility, without knowing who consumes it. The
// in-memory emitter fans each notification out to the registered handlers;
// Inbox is the handler that keeps per-user notification lists.
package events
