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

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vrl-lang/vrl/value"
)

// EnrichmentTable is a read-only side-store the Context makes available
// to lookup-style builtins (spec.md §4.6: "optional read-only
// side-stores (enrichment tables, ...)"). A table is keyed by an
// arbitrary string and holds rows decoded from its backing data once,
// at load time; programs cannot mutate it.
type EnrichmentTable struct {
	rows map[string]value.Value
}

// NewEnrichmentTable loads an enrichment table from YAML source, the
// format the teacher's own pkg/encoding/yaml wraps via gopkg.in/yaml.v3.
// The document must decode to a mapping at its root; each value is
// converted into the value.Value universe.
func NewEnrichmentTable(src []byte) (*EnrichmentTable, error) {
	var decoded map[string]any
	if err := yaml.Unmarshal(src, &decoded); err != nil {
		return nil, fmt.Errorf("enrichment table: %w", err)
	}
	rows := make(map[string]value.Value, len(decoded))
	for k, v := range decoded {
		rows[k] = valueFromAny(v)
	}
	return &EnrichmentTable{rows: rows}, nil
}

// Lookup returns the row for key, and whether it was found.
func (t *EnrichmentTable) Lookup(key string) (value.Value, bool) {
	if t == nil {
		return value.Undefined{}, false
	}
	v, ok := t.rows[key]
	return v, ok
}
