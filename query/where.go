// Copyright 2026 The Tuplestore Authors
// This file is part of Tuplestore.
//
// Tuplestore is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Tuplestore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Tuplestore. If not, see <http://www.gnu.org/licenses/>.

package query

import (
	"github.com/Silentsoul04/tuplestore/internal/xlog"
	"github.com/Silentsoul04/tuplestore/kv"
	"github.com/Silentsoul04/tuplestore/store"
)

// Stream is a lazy, pull-based sequence of Bindings. Every Stream owns
// any cursor it opened and must be Closed exactly once by whoever pulled
// from it; dropping a Stream without closing it leaks the underlying
// OKVS cursor.
type Stream interface {
	// Next advances to the next Binding, returning false at end of
	// stream or on error (check Err to distinguish the two).
	Next() bool
	Binding() Binding
	Err() error
	Close() error
}

// Step is a pipeline stage: given an upstream Stream (nil for a seed
// step with no upstream), it returns the stage's output Stream.
type Step func(tx kv.Tx, upstream Stream) (Stream, error)

// Where builds a where-step for pattern p against s. As a seed (upstream
// == nil) it is exactly store.From. With an upstream, every input
// Binding substitutes its bound variables into p; a fully ground result
// is checked with Ask, a still-free result is joined with From and
// merged back onto the input Binding.
func Where(s *store.Store, p store.Pattern) Step {
	return func(tx kv.Tx, upstream Stream) (Stream, error) {
		xlog.L.Debugw("query where step", "pattern", p, "seed", upstream == nil)
		if upstream == nil {
			cur, err := s.From(tx, p)
			if err != nil {
				return nil, err
			}
			return &seedStream{cur: cur}, nil
		}
		return &whereStream{tx: tx, s: s, pattern: p, upstream: upstream}, nil
	}
}

type seedStream struct {
	cur     *store.Cursor
	current Binding
}

func (s *seedStream) Next() bool {
	if !s.cur.Next() {
		return false
	}
	b := Empty()
	for name, v := range s.cur.Value().Bindings {
		b, _ = b.Extend(name, v) // fresh map, Extend cannot conflict
	}
	s.current = b
	return true
}

func (s *seedStream) Binding() Binding { return s.current }
func (s *seedStream) Err() error       { return s.cur.Err() }
func (s *seedStream) Close() error     { return s.cur.Close() }

// whereStream drives the upstream one Binding at a time; for each it
// either yields zero-or-one Binding immediately (the ground/Ask case) or
// opens an inner From cursor and yields one merged Binding per match
// (the free-variable/join case) before pulling the next upstream Binding.
type whereStream struct {
	tx       kv.Tx
	s        *store.Store
	pattern  store.Pattern
	upstream Stream

	inner        *store.Cursor
	current      Binding
	lastUpstream Binding
	err          error
}

func (w *whereStream) Next() bool {
	for {
		if w.inner != nil {
			if w.inner.Next() {
				merged, ok := w.currentUpstream().Merge(w.inner.Value().Bindings)
				if !ok {
					continue // disagreement on a previously bound variable: drop and keep scanning
				}
				w.current = merged
				return true
			}
			if err := w.inner.Err(); err != nil {
				w.err = err
				return false
			}
			w.inner.Close()
			w.inner = nil
			continue
		}

		if !w.upstream.Next() {
			w.err = w.upstream.Err()
			return false
		}
		b := w.upstream.Binding()
		w.lastUpstream = b
		substituted := substitute(w.pattern, b)

		if substituted.Ground() {
			ok, err := w.s.Ask(w.tx, substituted.AsTuple())
			if err != nil {
				w.err = err
				return false
			}
			if ok {
				w.current = b
				return true
			}
			continue
		}

		cur, err := w.s.From(w.tx, substituted)
		if err != nil {
			w.err = err
			return false
		}
		w.inner = cur
	}
}

// lastUpstream is tracked separately from Binding() so the inner-cursor
// branch above can merge onto the Binding that produced it even while
// current still holds the previous iteration's result.
func (w *whereStream) currentUpstream() Binding { return w.lastUpstream }

func (w *whereStream) Binding() Binding { return w.current }
func (w *whereStream) Err() error       { return w.err }
func (w *whereStream) Close() error {
	var err error
	if w.inner != nil {
		err = w.inner.Close()
	}
	if uerr := w.upstream.Close(); err == nil {
		err = uerr
	}
	return err
}

func substitute(p store.Pattern, b Binding) store.Pattern {
	out := make(store.Pattern, len(p))
	for i, slot := range p {
		if slot.IsVar() {
			if v, ok := b.Get(slot.Name()); ok {
				out[i] = store.Const(v)
				continue
			}
		}
		out[i] = slot
	}
	return out
}
