// Copyright 2025 Poiesic Systems
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


// Package chunk converts raw financial records into retrievable semantic
// chunks.
//
// BuildChunks is a pure function: no side effects, deterministic for equal
// input. Transactions are grouped by calendar month and emitted as one
// detailed chunk plus one short summary chunk per month; budgets are grouped
// by their month key; balance sheets become one chunk per snapshot. Each
// chunk's text restates its own period and type so it is meaningful on its
// own, and is whitespace-collapsed so retrieval is insensitive to source
// formatting.
//
// Malformed records never fail a build: a transaction whose date cannot be
// parsed lands in an "unknown" month bucket, and unparseable dates render
// as their raw string form. Completeness of the index is favored over
// strict validation.
package chunk
