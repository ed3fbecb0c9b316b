// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package plugin runs the danmaku event loop against a player handle:
// it reacts to file loads, seeks and script messages, fetches comments
// in the background and drives the overlay renderer.
package plugin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/danmagu/danmagu/danmaku"
	"github.com/danmagu/danmagu/logger"
	"github.com/danmagu/danmagu/mpv"
	"github.com/danmagu/danmagu/options"
	"github.com/danmagu/danmagu/render"
)

// cacheSize bounds how many files keep their comments in memory.
const cacheSize = 8

type Plugin struct {
	player   Player
	logger   logger.LoggerInterface
	client   *danmaku.Client
	cache    *danmaku.Cache[[]danmaku.Comment]
	filter   *danmaku.Filter
	renderer *render.Renderer

	enabled atomic.Bool

	mu       sync.Mutex
	comments []danmaku.Comment
	cancel   context.CancelFunc
}

// Run loads options and runs the event loop until the player shuts
// down. The return value is the plugin's exit status for the host.
func Run(player Player, log logger.LoggerInterface) int {
	opts := options.Load(player, log)
	p := New(player, opts, log)
	return p.Loop()
}

func New(player Player, opts options.Options, log logger.LoggerInterface) *Plugin {
	return &Plugin{
		player:   player,
		logger:   log,
		client:   danmaku.NewClient(log, opts.Filter),
		cache:    danmaku.NewCache[[]danmaku.Comment](cacheSize),
		filter:   opts.Filter,
		renderer: render.New(player, opts, log),
	}
}

// Loop is the plugin's single event loop. Only this goroutine waits on
// the handle; background fetches deliver through the mutex-guarded
// comment slice.
func (p *Plugin) Loop() int {
	// Observing pause (format none) wakes the loop whenever playback
	// starts or stops, so the render timeout below stays correct.
	if err := p.player.ObserveProperty(0, "pause", mpv.FormatNone); err != nil {
		p.logger.PrintError("observe pause", err)
		return -1
	}

	for {
		// Tick at the render interval while scrolling; otherwise just
		// sleep until the player has something to say.
		timeout := -1.0
		if p.enabled.Load() && p.playing() {
			timeout = render.Interval
		}

		event := p.player.WaitEvent(timeout)
		switch event.ID {
		case mpv.EventShutdown:
			p.cancelFetch()
			return 0

		case mpv.EventFileLoaded:
			p.fileLoaded()

		case mpv.EventSeek:
			if p.enabled.Load() {
				p.resetComments()
			}

		case mpv.EventClientMessage:
			p.handleMessage(event.Args)
		}

		if p.enabled.Load() {
			p.renderFrame()
		}
	}
}

// renderFrame draws the next frame. Frame mutates per-comment scroll
// state, so the comment lock spans the whole call.
func (p *Plugin) renderFrame() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.comments != nil {
		p.renderer.Frame(p.comments)
	}
}

func (p *Plugin) playing() bool {
	paused, err := p.player.GetPropertyBool("pause")
	return err == nil && !paused
}

func (p *Plugin) fileLoaded() {
	p.cancelFetch()
	p.mu.Lock()
	p.comments = nil
	p.mu.Unlock()
	p.renderer.ResetDelay()

	if p.enabled.Load() {
		if err := p.player.RemoveOverlay(); err != nil {
			p.logger.PrintError("osd-overlay remove", err)
		}
		p.startFetch()
	}
}

func (p *Plugin) handleMessage(args []string) {
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "toggle-danmaku":
		p.toggle()

	case "danmaku-delay":
		if len(args) < 2 {
			p.logger.Print("command danmaku-delay: required argument seconds not set")
			return
		}
		seconds, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			p.logger.Print("command danmaku-delay: invalid time")
			return
		}
		delay := p.renderer.AddDelay(seconds)
		p.resetComments()
		p.osdMessage(fmt.Sprintf("Danmaku delay: %.2f ms", delay*1000))

	case "danmaku-filter-source":
		p.filterSources(args[1:])
	}
}

// filterSources overrides the blocked-source set at runtime and
// re-marks the loaded comments. Without arguments the configured set
// is restored; an empty string blocks nothing.
func (p *Plugin) filterSources(args []string) {
	var override map[danmaku.Source]bool
	if len(args) > 0 {
		override = make(map[danmaku.Source]bool)
		for _, arg := range args {
			for _, name := range strings.Split(arg, ",") {
				if s := danmaku.ParseSource(name); s != danmaku.SourceUnknown {
					override[s] = true
				}
			}
		}
	}
	p.filter.SetOverride(override)

	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.comments {
		p.comments[i].Blocked = p.filter.Blocks(p.comments[i].Source)
	}
}

func (p *Plugin) toggle() {
	if p.enabled.Load() {
		p.enabled.Store(false)
		if err := p.player.RemoveOverlay(); err != nil {
			p.logger.PrintError("osd-overlay remove", err)
		}
		p.osdMessage("Danmaku: off")
		return
	}

	p.enabled.Store(true)
	p.mu.Lock()
	loaded := p.comments != nil
	n := len(p.comments)
	p.mu.Unlock()
	if loaded {
		p.resetComments()
		p.osdLoaded(n)
	} else {
		p.osdMessage("Danmaku: on")
		p.startFetch()
	}
}

// startFetch kicks off a background comment fetch for the currently
// playing file, canceling any fetch still in flight.
func (p *Plugin) startFetch() {
	p.cancelFetch()
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.fetch(ctx)
}

func (p *Plugin) cancelFetch() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Plugin) fetch(ctx context.Context) {
	path, err := p.player.GetPropertyString("path")
	if err != nil {
		return
	}

	if cached, ok := p.cache.Get(path); ok {
		p.deliver(cached)
		return
	}

	comments, err := p.client.Fetch(ctx, path)
	if ctx.Err() != nil {
		// A new file superseded this fetch; stay quiet.
		return
	}
	if err != nil {
		if p.enabled.Load() {
			p.osdMessage("Danmaku: " + err.Error())
		}
		p.logger.PrintError("danmaku", err)
		return
	}

	p.cache.Put(path, comments)
	p.deliver(comments)
}

func (p *Plugin) deliver(comments []danmaku.Comment) {
	p.mu.Lock()
	danmaku.Reset(comments)
	p.comments = comments
	if p.enabled.Load() {
		// Paused playback never ticks, so draw one frame now. The lock
		// spans the draw so the event loop cannot scroll the same
		// slice concurrently.
		if paused, err := p.player.GetPropertyBool("pause"); err == nil && paused {
			p.renderer.Frame(comments)
		}
	}
	p.mu.Unlock()

	if p.enabled.Load() {
		p.osdLoaded(len(comments))
	}
}

func (p *Plugin) resetComments() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.comments != nil {
		danmaku.Reset(p.comments)
	}
}

func (p *Plugin) osdLoaded(n int) {
	plural := ""
	if n > 1 {
		plural = "s"
	}
	p.osdMessage(fmt.Sprintf("Loaded %d danmaku comment%s", n, plural))
}

func (p *Plugin) osdMessage(text string) {
	if err := p.player.ShowText(text); err != nil {
		p.logger.PrintError("show-text", err)
	}
}
