// Package domain contains the core calendar entities and their consistency
// rules: events, calendars, users, overlap detection, visibility and
// timezone-shift propagation. It is independent of any delivery mechanism and
// never logs; every operation either completes or fails leaving state unchanged.
package domain
