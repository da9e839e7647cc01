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

// Context carries everything a program may read besides its Target: the
// clock, the configured timezone, the UUID source and any read-only
// side-stores. It also holds a private error slot (setErr/lastError);
// the two-target `v, err =` assignment binds its error directly and
// does not go through it. A Context is immutable
// for the duration of one program's evaluation and safe to share, by
// value, across concurrent evaluations against different Targets.
type Context struct {
	Clock    Clock
	Timezone *time.Location
	UUID     UUIDSource

	// Tables holds named enrichment tables reachable from stdlib lookup
	// functions, keyed by the name the program passes them under.
	Tables map[string]*EnrichmentTable

	lastErr string
}

// NewContext builds a Context with the system clock, a random UUID
// source and UTC timezone, the defaults an embedder gets without
// further configuration.
func NewContext() *Context {
	return &Context{
		Clock:    SystemClock{},
		UUID:     SystemUUIDSource{},
		Timezone: time.UTC,
		Tables:   map[string]*EnrichmentTable{},
	}
}

// Now returns the Context's current instant.
func (c *Context) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

// NewUUID draws the Context's next uuid() result.
func (c *Context) NewUUID() string {
	if c.UUID == nil {
		return SystemUUIDSource{}.New()
	}
	return c.UUID.New()
}

// Table looks up a named enrichment table, returning nil if absent.
func (c *Context) Table(name string) *EnrichmentTable {
	return c.Tables[name]
}

// setErr records the message a failed fallible expression produced, for
// the next `, err =` target to read.
func (c *Context) setErr(msg string) { c.lastErr = msg }

// lastError returns and clears the most recently recorded error
// message.
func (c *Context) lastError() string {
	msg := c.lastErr
	c.lastErr = ""
	return msg
}
