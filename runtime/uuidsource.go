// Copyright 2024 VRL Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runtime

import "github.com/google/uuid"

// UUIDSource supplies uuid()'s result, kept out of the Function ABI the
// same way the Clock is: a program's only source of entropy is its
// Context (spec.md §4.4, "determinism via Context as sole entropy
// source"), so fixtures substitute a FixedUUIDSource to pin the result.
type UUIDSource interface {
	New() string
}

// SystemUUIDSource draws a random version-4 UUID per call.
type SystemUUIDSource struct{}

func (SystemUUIDSource) New() string { return uuid.NewString() }

// FixedUUIDSource always returns the same string, for deterministic
// tests and fixtures.
type FixedUUIDSource struct{ Value string }

func (f FixedUUIDSource) New() string { return f.Value }

// SequentialUUIDSource cycles through a fixed list, for fixtures that
// assert on more than one distinct uuid() call without depending on
// real randomness.
type SequentialUUIDSource struct {
	Values []string
	next   int
}

func (s *SequentialUUIDSource) New() string {
	if len(s.Values) == 0 {
		return ""
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}
