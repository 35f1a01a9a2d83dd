/*
NAME
  events.go

DESCRIPTION
  events.go implements the event list and its stateless cursor player:
  an ordered run of (time_ms, type, subtype, payload) records plus
  binary-search seek, next/not-later-than delivery, and saturating
  payload adjustment.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package events implements the time-stamped event list: a
// non-decreasing-by-time slice of records, and a cursor player over it
// supporting rewind, binary-search seek, and delivery either
// unconditionally or gated on "not later than" a query time.
package events

import (
	"math"
	"sort"

	"github.com/windlass-aero/skyplay/xerr"
)

// Event is one (time_ms, type, subtype, payload) record.
type Event struct {
	TimeMS  uint32
	Type    uint8
	Subtype uint8
	Payload uint32
}

// List is an ordered, non-decreasing-by-TimeMS run of events.
type List struct {
	events []Event
}

// NewList returns an empty event list.
func NewList() *List {
	return &List{}
}

// Len returns the number of events in the list.
func (l *List) Len() int { return len(l.events) }

// At returns the i'th event.
func (l *List) At(i int) Event { return l.events[i] }

// IsSorted reports whether the list is non-decreasing by TimeMS, the
// invariant every mutator is required to preserve.
func (l *List) IsSorted() bool {
	return sort.SliceIsSorted(l.events, func(i, j int) bool {
		return l.events[i].TimeMS < l.events[j].TimeMS
	})
}

// Append adds e to the end of the list. e.TimeMS must be ≥ the current
// last event's TimeMS; otherwise EINVAL is returned and the list is
// unchanged.
func (l *List) Append(e Event) error {
	if n := len(l.events); n > 0 && e.TimeMS < l.events[n-1].TimeMS {
		return xerr.EINVAL
	}
	l.events = append(l.events, e)
	return nil
}

// Insert adds e at whatever position keeps the list sorted by TimeMS,
// after any existing event with the same TimeMS (stable insertion
// order).
func (l *List) Insert(e Event) {
	i := sort.Search(len(l.events), func(i int) bool {
		return l.events[i].TimeMS > e.TimeMS
	})
	l.events = append(l.events, Event{})
	copy(l.events[i+1:], l.events[i:])
	l.events[i] = e
}

// AdjustByType applies delta (which may be negative) to the payload of
// every event of the given type, saturating into [0, math.MaxUint32].
func (l *List) AdjustByType(typ uint8, delta int64) {
	for i := range l.events {
		if l.events[i].Type != typ {
			continue
		}
		v := int64(l.events[i].Payload) + delta
		if v < 0 {
			v = 0
		}
		if v > math.MaxUint32 {
			v = math.MaxUint32
		}
		l.events[i].Payload = uint32(v)
	}
}

// Player is a stateless-between-calls cursor over a List: it only
// tracks the next unread index, so behaviour does not depend on which
// operations were called previously beyond that index.
type Player struct {
	list *List
	idx  int
}

// NewPlayer returns a Player positioned at the start of list.
func NewPlayer(list *List) *Player {
	return &Player{list: list}
}

// Rewind repositions the cursor to the start of the list.
func (p *Player) Rewind() { p.idx = 0 }

// NextEvent returns the next event and advances the cursor, or reports
// ok=false if the list is exhausted.
func (p *Player) NextEvent() (ev Event, ok bool) {
	if p.idx >= p.list.Len() {
		return Event{}, false
	}
	ev = p.list.At(p.idx)
	p.idx++
	return ev, true
}

// NextEventNotLaterThan returns the next event if its TimeMS, converted
// to seconds, is ≤ tSec, advancing the cursor; otherwise it reports
// ok=false without advancing.
func (p *Player) NextEventNotLaterThan(tSec float64) (ev Event, ok bool) {
	if p.idx >= p.list.Len() {
		return Event{}, false
	}
	next := p.list.At(p.idx)
	if float64(next.TimeMS)/1000 > tSec {
		return Event{}, false
	}
	p.idx++
	return next, true
}

// Seek repositions the cursor to the first event with TimeMS ≥
// tSec*1000, via binary search.
func (p *Player) Seek(tSec float64) {
	targetMS := uint32(0)
	if tSec > 0 {
		targetMS = uint32(tSec * 1000)
	}
	p.idx = sort.Search(p.list.Len(), func(i int) bool {
		return p.list.At(i).TimeMS >= targetMS
	})
}
