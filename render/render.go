// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package render scrolls danmaku comments across a virtual canvas and
// ships each frame to the player as an ASS overlay.
package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/danmagu/danmagu/danmaku"
	"github.com/danmagu/danmagu/logger"
	"github.com/danmagu/danmagu/options"
)

const (
	// Duration is the time in seconds a comment takes to cross the
	// whole canvas.
	Duration = 12.0
	// Interval is the render tick in seconds while comments scroll.
	Interval = 0.005

	baseWidth  = 1920.0
	baseHeight = 1080.0
)

// Player is the bridge surface the renderer draws through.
type Player interface {
	GetPropertyDouble(name string) (float64, error)
	ShowOverlay(data string, width, height int64) error
	RemoveOverlay() error
}

// Renderer owns the global comment delay and produces one overlay
// frame per tick. Comments keep their own position and lane between
// frames; Reset on the comment slice clears that state.
type Renderer struct {
	player Player
	opts   options.Options
	logger logger.LoggerInterface

	mu    sync.Mutex
	delay float64
}

func New(player Player, opts options.Options, logger logger.LoggerInterface) *Renderer {
	return &Renderer{player: player, opts: opts, logger: logger}
}

// AddDelay shifts all comments by the given number of seconds and
// returns the accumulated delay.
func (r *Renderer) AddDelay(seconds float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay += seconds
	return r.delay
}

// ResetDelay clears the accumulated delay for a new file.
func (r *Renderer) ResetDelay() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay = 0
}

func (r *Renderer) Delay() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delay
}

// Frame renders the comments at the current playback position.
// Returns false when a needed property was unavailable (e.g. no video
// output yet); the caller just tries again next tick.
func (r *Renderer) Frame(comments []danmaku.Comment) bool {
	osdWidth, err := r.player.GetPropertyDouble("osd-width")
	if err != nil {
		return false
	}
	osdHeight, err := r.player.GetPropertyDouble("osd-height")
	if err != nil || osdHeight == 0 {
		return false
	}
	pos, err := r.player.GetPropertyDouble("time-pos")
	if err != nil {
		return false
	}
	speed, err := r.player.GetPropertyDouble("speed")
	if err != nil {
		return false
	}

	// The canvas is 1920x1080 corrected to the OSD aspect ratio so
	// font sizes stay consistent across window sizes.
	width, height := float64(baseWidth), float64(baseHeight)
	ratio := osdWidth / osdHeight
	if ratio > width/height {
		height = width / ratio
	} else if ratio < width/height {
		width = height * ratio
	}

	fontSize := r.opts.FontSize
	spacing := fontSize / 10
	laneCount := int(height * (1 - r.opts.ReservedSpace) / (fontSize + spacing))
	if laneCount < 1 {
		laneCount = 1
	}
	// ends[i] is the right edge of the newest comment in lane i; nil
	// means the lane has never been used.
	ends := make([]*float64, laneCount)

	delay := r.Delay()
	var lines []string
	for i := range comments {
		c := &comments[i]
		at := c.Time + delay
		if at > pos+Duration/2 {
			break
		}
		if c.Blocked {
			continue
		}

		if c.X == nil {
			x := width - (pos-at)*width/Duration
			c.X = &x
		}
		commentWidth := float64(c.Count)*fontSize + spacing
		if *c.X+commentWidth < 0 {
			continue
		}

		if c.Row == nil {
			row, ok := freeLane(ends, *c.X)
			if !ok && r.opts.NoOverlap {
				// No room this frame; retry once a lane frees up.
				continue
			}
			c.Row = &row
		}

		lines = append(lines, fmt.Sprintf(
			"{\\pos(%g,%g)\\c&H%x%x%x&\\alpha&H%x\\fs%g\\bord1.5\\shad0\\b1\\q2}%s",
			*c.X, float64(*c.Row)*(fontSize+spacing),
			c.B, c.G, c.R, r.opts.Transparency, fontSize, c.Message))

		*c.X -= width / Duration * speed * r.opts.Speed * Interval
		if row := *c.Row; row < len(ends) {
			end := *c.X + commentWidth
			if ends[row] == nil || *ends[row] < end {
				v := end
				ends[row] = &v
			}
		}
	}

	if err := r.player.ShowOverlay(strings.Join(lines, "\n"), int64(width), int64(height)); err != nil {
		r.logger.PrintError("osd-overlay", err)
	}
	return true
}

// freeLane picks the first lane whose newest comment has scrolled past
// x; when none is free it reports the least-loaded lane with ok=false.
func freeLane(ends []*float64, x float64) (int, bool) {
	for lane, end := range ends {
		if end == nil || *end < x {
			return lane, true
		}
	}
	best := 0
	for lane, end := range ends {
		if *end < *ends[best] {
			best = lane
		}
	}
	return best, false
}
