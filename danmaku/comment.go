// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package danmaku

// Comment is a single danmaku comment plus its render state.
type Comment struct {
	Message string
	// Count is the number of grapheme clusters in Message, used to
	// estimate the rendered width.
	Count int
	// Time is the comment's timestamp in seconds of playback.
	Time    float64
	R, G, B uint8
	Source  Source
	// Blocked comments stay in the list (the source filter can change
	// at runtime) but are never rendered.
	Blocked bool

	// X and Row are assigned by the renderer when the comment first
	// enters the canvas; nil means unplaced.
	X   *float64
	Row *int
}

// Reset clears render state so comments re-place themselves, used
// after seeks and delay changes.
func Reset(comments []Comment) {
	for i := range comments {
		comments[i].X = nil
		comments[i].Row = nil
	}
}
