// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package plugin

import "github.com/danmagu/danmagu/mpv"

// Player is the bridge surface the plugin drives. *mpv.Handle
// implements it; tests substitute a scripted fake.
type Player interface {
	WaitEvent(timeout float64) *mpv.Event
	ObserveProperty(replyUserdata uint64, name string, format mpv.Format) error
	GetPropertyBool(name string) (bool, error)
	GetPropertyString(name string) (string, error)
	GetPropertyDouble(name string) (float64, error)
	ShowOverlay(data string, width, height int64) error
	RemoveOverlay() error
	ShowText(text string) error
	ConfFileName() (string, error)
	ExpandPath(path string) (string, error)
}
