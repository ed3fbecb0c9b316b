// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

// danmagu is an mpv cplugin rendering danmaku comments over the video.
// Build with -buildmode=c-shared and drop the .so into mpv's scripts
// directory; mpv calls mpv_open_cplugin with a client handle it owns.
package main

/*
#include <mpv/client.h>
*/
import "C"

import (
	"unsafe"

	"github.com/danmagu/danmagu/logger"
	"github.com/danmagu/danmagu/mpv"
	"github.com/danmagu/danmagu/plugin"
)

//export mpv_open_cplugin
func mpv_open_cplugin(ctx *C.mpv_handle) C.int {
	handle := mpv.NewHandle(unsafe.Pointer(ctx))
	log := logger.Init(handle.ClientName())
	return C.int(plugin.Run(handle, log))
}

func main() {}
