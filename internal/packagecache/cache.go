/*
Copyright 2022.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package packagecache holds the process-wide, in-memory catalogue
// assembled from every JukeBox's status.packages. One writer (the JukeBox
// reconciler, after each successful refresh) and many readers (every
// Instance reconciler, on each Apply) share it through a sync.RWMutex —
// the same shape as manager.rs's Context.packages in the Rust original,
// which held an Arc<RwLock<HashMap<...>>>.
package packagecache

import (
	"sync"

	vynilv1 "github.com/sebt3/vynil/api/v1"
)

// Entry is one cached package, tagged with the JukeBox it came from (and
// that JukeBox's pull secret, if any) so a reconciler can report
// provenance in events/logs and expose the secret to the worker Job
// template.
type Entry struct {
	JukeBox    string
	PullSecret string
	Record     vynilv1.PackageRecord
}

// key identifies a package independent of which JukeBox served it.
type key struct {
	category string
	name     string
	tag      string
}

// Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	mu      sync.RWMutex
	entries map[key]Entry
	boxes   map[string]struct{}
}

func New() *Cache {
	return &Cache{entries: make(map[key]Entry), boxes: make(map[string]struct{})}
}

// ReplaceForJukeBox atomically swaps every entry previously contributed by
// jukeboxName with records, so a refresh never leaves a stale package
// visible alongside its replacement nor produces duplicate keys.
func (c *Cache) ReplaceForJukeBox(jukeboxName string, records []vynilv1.PackageRecord) {
	c.ReplaceForJukeBoxWithSecret(jukeboxName, records, "")
}

// ReplaceForJukeBoxWithSecret is ReplaceForJukeBox plus the JukeBox's
// image-pull-secret reference, carried on every resulting Entry.
func (c *Cache) ReplaceForJukeBoxWithSecret(jukeboxName string, records []vynilv1.PackageRecord, pullSecret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boxes[jukeboxName] = struct{}{}
	for k, e := range c.entries {
		if e.JukeBox == jukeboxName {
			delete(c.entries, k)
		}
	}
	for _, r := range records {
		k := key{category: r.Metadata.Category, name: r.Metadata.Name, tag: r.Tag}
		c.entries[k] = Entry{JukeBox: jukeboxName, PullSecret: pullSecret, Record: r}
	}
}

// RemoveJukeBox drops every entry contributed by jukeboxName, called when
// a JukeBox is deleted.
func (c *Cache) RemoveJukeBox(jukeboxName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.boxes, jukeboxName)
	for k, e := range c.entries {
		if e.JukeBox == jukeboxName {
			delete(c.entries, k)
		}
	}
}

// HasJukeBox reports whether jukeboxName has ever been successfully
// reconciled (even if its package list is currently empty), backing the
// "JukeBox <x> is missing" check — distinct from a
// package simply not being found within a known box.
func (c *Cache) HasJukeBox(jukeboxName string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.boxes[jukeboxName]
	return ok
}

// Lookup returns the cached entry for (category, name), optionally pinned
// to a single jukebox name, and whether it was found. When multiple tags
// exist for the same (category, name) across jukeboxes, the first match
// encountered wins — callers that need a specific tag should filter
// Entries themselves.
func (c *Cache) Lookup(category, name string, jukeboxName *string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, e := range c.entries {
		if k.category != category || k.name != name {
			continue
		}
		if jukeboxName != nil && e.JukeBox != *jukeboxName {
			continue
		}
		return e, true
	}
	return Entry{}, false
}

// Has reports whether a (category, name) pair exists anywhere in the
// cache, regardless of tag or JukeBox.
func (c *Cache) Has(category, name string) bool {
	_, ok := c.Lookup(category, name, nil)
	return ok
}

// Entries returns a snapshot copy of every cached entry.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}
