// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package danmaku

import (
	"strings"
	"sync"
)

// Filter drops comments by keyword and blocks them by source site.
// Keyword hits are dropped at fetch time; source blocks only mark
// comments, so a runtime override can unblock them later.
type Filter struct {
	Keywords []string
	Sources  map[Source]bool

	mu        sync.Mutex
	overrides map[Source]bool
}

// Drops reports whether the message matches a filter keyword.
func (f *Filter) Drops(message string) bool {
	for _, keyword := range f.Keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

// Blocks reports whether comments from the source are blocked,
// honoring a runtime override when one is set.
func (f *Filter) Blocks(source Source) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overrides != nil {
		return f.overrides[source]
	}
	return f.Sources[source]
}

// SetOverride replaces the blocked-source set at runtime; nil restores
// the configured set.
func (f *Filter) SetOverride(sources map[Source]bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides = sources
}
