// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

// danmagu-preview is a development harness: it embeds mpv, plays the
// given file and runs the plugin loop against the embedded instance,
// so the overlay can be exercised without installing the cplugin.
package main

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	gompv "github.com/supersonic-app/go-mpv"

	"github.com/danmagu/danmagu/logger"
	"github.com/danmagu/danmagu/mpv"
	"github.com/danmagu/danmagu/plugin"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <media-file>\n", os.Args[0])
		os.Exit(2)
	}

	instance := gompv.Create()
	if err := instance.SetOptionString("input-default-bindings", "yes"); err != nil {
		fmt.Fprintln(os.Stderr, "set option:", err)
		os.Exit(1)
	}
	if err := instance.SetOptionString("input-vo-keyboard", "yes"); err != nil {
		fmt.Fprintln(os.Stderr, "set option:", err)
		os.Exit(1)
	}
	if err := instance.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, "initialize mpv:", err)
		os.Exit(1)
	}
	defer instance.TerminateDestroy()

	if err := instance.Command([]string{"loadfile", os.Args[1]}); err != nil {
		fmt.Fprintln(os.Stderr, "loadfile:", err)
		os.Exit(1)
	}

	// The binding stores the raw mpv_handle as its first field; the
	// plugin loop takes over event waiting from here on.
	handle := mpv.NewHandle(*(*unsafe.Pointer)(unsafe.Pointer(instance)))
	log := logger.Init(handle.ClientName())

	go func() {
		// Give the file a moment to load, then switch the overlay on
		// the same way an input.conf binding would.
		time.Sleep(2 * time.Second)
		if err := handle.Command([]string{"script-message", "toggle-danmaku"}); err != nil {
			log.PrintError("toggle-danmaku", err)
		}
	}()

	os.Exit(plugin.Run(handle, log))
}
