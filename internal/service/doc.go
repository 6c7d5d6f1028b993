// Package service contains the application use cases of the shared calendar.
// It resolves the acting session, the target user and the calendar, then
// calls into the domain, which enforces every consistency rule.
//
// Key components:
//
//  1. RegistryService registers users and looks them up by username.
//  2. SessionService turns a username into an explicit Session and ends it.
//     There is no global "current user"; every operation receives the session.
//  3. CalendarService implements the calendar, event, sharing, timezone and
//     iCalendar use cases on behalf of a session.
//
// Services log successful mutations at info level with a component
// attribute, publish sharing notifications through an events.EventEmitter and
// report outcomes to a Recorder. They never import infrastructure packages;
// stores and instrumentation are injected through constructors.
package service
