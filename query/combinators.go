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
	"math/big"

	"github.com/pkg/errors"

	"github.com/Silentsoul04/tuplestore/kv"
	"github.com/Silentsoul04/tuplestore/tuple"
)

// Compose left-folds a seed through a sequence of Steps: step[0] runs
// with no upstream (a seed where-step, typically), and each later step
// consumes the previous step's output. The returned Stream must be
// Closed by the caller.
func Compose(tx kv.Tx, steps ...Step) (Stream, error) {
	if len(steps) == 0 {
		return &sliceStream{pos: -1}, nil
	}
	var cur Stream
	var err error
	for _, step := range steps {
		cur, err = step(tx, cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// Skip drops the first k Bindings.
func Skip(k int) Step {
	return func(_ kv.Tx, upstream Stream) (Stream, error) {
		return &skipStream{upstream: upstream, remaining: k}, nil
	}
}

type skipStream struct {
	upstream  Stream
	remaining int
}

func (s *skipStream) Next() bool {
	for s.remaining > 0 {
		if !s.upstream.Next() {
			return false
		}
		s.remaining--
	}
	return s.upstream.Next()
}
func (s *skipStream) Binding() Binding { return s.upstream.Binding() }
func (s *skipStream) Err() error       { return s.upstream.Err() }
func (s *skipStream) Close() error     { return s.upstream.Close() }

// Limit yields at most k Bindings.
func Limit(k int) Step {
	return func(_ kv.Tx, upstream Stream) (Stream, error) {
		return &limitStream{upstream: upstream, remaining: k}, nil
	}
}

type limitStream struct {
	upstream  Stream
	remaining int
}

func (s *limitStream) Next() bool {
	if s.remaining <= 0 {
		return false
	}
	if !s.upstream.Next() {
		return false
	}
	s.remaining--
	return true
}
func (s *limitStream) Binding() Binding { return s.upstream.Binding() }
func (s *limitStream) Err() error       { return s.upstream.Err() }
func (s *limitStream) Close() error     { return s.upstream.Close() }

// Unique drops Bindings equal (by Binding.Equal) to one already yielded.
func Unique() Step {
	return func(_ kv.Tx, upstream Stream) (Stream, error) {
		return &uniqueStream{upstream: upstream}, nil
	}
}

type uniqueStream struct {
	upstream Stream
	seen     []Binding
}

func (s *uniqueStream) Next() bool {
	for s.upstream.Next() {
		b := s.upstream.Binding()
		dup := false
		for _, prior := range s.seen {
			if prior.Equal(b) {
				dup = true
				break
			}
		}
		if !dup {
			s.seen = append(s.seen, b)
			return true
		}
	}
	return false
}
func (s *uniqueStream) Binding() Binding { return s.upstream.Binding() }
func (s *uniqueStream) Err() error       { return s.upstream.Err() }
func (s *uniqueStream) Close() error     { return s.upstream.Close() }

// Map transforms every Binding with f before forwarding it.
func Map(f func(Binding) Binding) Step {
	return func(_ kv.Tx, upstream Stream) (Stream, error) {
		return &mapStream{upstream: upstream, f: f}, nil
	}
}

type mapStream struct {
	upstream Stream
	f        func(Binding) Binding
	current  Binding
}

func (s *mapStream) Next() bool {
	if !s.upstream.Next() {
		return false
	}
	s.current = s.f(s.upstream.Binding())
	return true
}
func (s *mapStream) Binding() Binding { return s.current }
func (s *mapStream) Err() error       { return s.upstream.Err() }
func (s *mapStream) Close() error     { return s.upstream.Close() }

// Filter forwards only Bindings for which pred is true.
func Filter(pred func(Binding) bool) Step {
	return func(_ kv.Tx, upstream Stream) (Stream, error) {
		return &filterStream{upstream: upstream, pred: pred}, nil
	}
}

type filterStream struct {
	upstream Stream
	pred     func(Binding) bool
}

func (s *filterStream) Next() bool {
	for s.upstream.Next() {
		if s.pred(s.upstream.Binding()) {
			return true
		}
	}
	return false
}
func (s *filterStream) Binding() Binding { return s.upstream.Binding() }
func (s *filterStream) Err() error       { return s.upstream.Err() }
func (s *filterStream) Close() error     { return s.upstream.Close() }

// sliceStream replays a fixed, already-materialised Binding slice; used
// only by Compose's zero-step case, which has nothing to pull from.
type sliceStream struct {
	items []Binding
	pos   int
}

func (s *sliceStream) Next() bool {
	s.pos++
	return s.pos < len(s.items)
}
func (s *sliceStream) Binding() Binding { return s.items[s.pos] }
func (s *sliceStream) Err() error       { return nil }
func (s *sliceStream) Close() error     { return nil }

// Drain eagerly consumes a Stream into a slice and closes it. Used by
// the eager terminal operations (Count, Paginate, Mean, Pick) and
// available directly to callers that want the whole result in memory.
func Drain(s Stream) ([]Binding, error) {
	defer s.Close()
	var out []Binding
	for s.Next() {
		out = append(out, s.Binding())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count eagerly consumes the stream and returns how many Bindings it
// produced.
func Count(s Stream) (int, error) {
	bindings, err := Drain(s)
	if err != nil {
		return 0, err
	}
	return len(bindings), nil
}

// Paginate eagerly consumes the stream and groups it into pages of at
// most size k; the last page may be shorter.
func Paginate(s Stream, k int) ([][]Binding, error) {
	if k <= 0 {
		return nil, errors.New("query: paginate size must be positive")
	}
	bindings, err := Drain(s)
	if err != nil {
		return nil, err
	}
	var pages [][]Binding
	for i := 0; i < len(bindings); i += k {
		end := i + k
		if end > len(bindings) {
			end = len(bindings)
		}
		pages = append(pages, bindings[i:end])
	}
	return pages, nil
}

// Pick eagerly consumes the stream and projects every Binding to the
// Value bound to name, skipping Bindings that leave name unbound.
func Pick(s Stream, name string) ([]tuple.Value, error) {
	bindings, err := Drain(s)
	if err != nil {
		return nil, err
	}
	out := make([]tuple.Value, 0, len(bindings))
	for _, b := range bindings {
		if v, ok := b.Get(name); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Mean eagerly consumes the stream and averages the float64 magnitude of
// the Value bound to name across every Binding that binds it, accepting
// either KindFloat or KindInt values.
func Mean(s Stream, name string) (float64, error) {
	values, err := Pick(s, name)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, errors.New("query: mean of an empty stream")
	}
	var sum float64
	for _, v := range values {
		switch v.Kind() {
		case tuple.KindFloat:
			f, _ := v.AsFloat()
			sum += f
		case tuple.KindInt:
			i, _ := v.AsBigInt()
			f, _ := new(big.Float).SetInt(i).Float64()
			sum += f
		default:
			return 0, errors.Errorf("query: mean: variable %q is not numeric", name)
		}
	}
	return sum / float64(len(values)), nil
}
