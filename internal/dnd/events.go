/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package dnd

// EventKind names what happened on the board.
type EventKind string

const (
	EventPlaced     EventKind = "box_placed"
	EventMoved      EventKind = "box_moved"
	EventRemoved    EventKind = "box_removed"
	EventRejected   EventKind = "drop_rejected"
	EventRolledBack EventKind = "drop_cancelled"
	EventUnchanged  EventKind = "drop_unchanged"
)

// Event is delivered to subscribers after every finished gesture or removal, so views
// can redraw from Controller.Document.
type Event struct {
	Kind   EventKind
	BoxID  string
	From   int
	To     int
	Reason string
}

// Subscribe registers fn for every subsequent event. Listeners run synchronously on the
// caller's goroutine and must not call back into the controller.
func (c *Controller) Subscribe(fn func(Event)) {
	if fn != nil {
		c.listeners = append(c.listeners, fn)
	}
}

func (c *Controller) emit(e Event) {
	for _, fn := range c.listeners {
		fn(e)
	}
}

func eventFor(r Result) Event {
	e := Event{BoxID: r.BoxID, From: r.From, To: r.To}
	if r.Reason != nil {
		e.Reason = r.Reason.Error()
	}
	switch r.Outcome {
	case OutcomePlaced:
		e.Kind = EventPlaced
	case OutcomeMoved:
		e.Kind = EventMoved
	case OutcomeRejected:
		e.Kind = EventRejected
	case OutcomeUnchanged:
		e.Kind = EventUnchanged
	default:
		e.Kind = EventRolledBack
	}
	return e
}
