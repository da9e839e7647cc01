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

import "time"

// Clock supplies the current instant to now() and any other
// time-sensitive builtin. Programs are required to be deterministic in
// everything except what the Context exposes (spec.md §4.4), so tests
// substitute FixedClock for SystemClock to pin the result of now().
type Clock interface {
	Now() time.Time
}

// SystemClock reads the operating system's wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant, for deterministic tests
// and fixtures.
type FixedClock struct {
	At time.Time
}

func (f FixedClock) Now() time.Time { return f.At }
