// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package mpv is a thin bridge to the libmpv client API. It exposes the
// handful of entry points the plugin needs, keyed by a handle that is
// always supplied by the host process; the package never creates or
// destroys a player instance itself.
package mpv

/*
#include <mpv/client.h>
#include <stdlib.h>
#cgo LDFLAGS: -lmpv
*/
import "C"

import (
	"unsafe"
)

// Handle is an opaque reference to a running mpv client session. For a
// cplugin it comes from mpv_open_cplugin; an embedder passes the raw
// handle of the instance it created. Lifetime is managed entirely by
// the host.
type Handle struct {
	ptr *C.mpv_handle
}

// NewHandle wraps a raw mpv_handle pointer supplied by the host.
func NewHandle(ptr unsafe.Pointer) *Handle {
	return &Handle{ptr: (*C.mpv_handle)(ptr)}
}

// Error is a negative libmpv status code.
type Error int

func (e Error) Error() string {
	return ErrorString(int(e))
}

// ErrorString maps a libmpv status code to a human-readable
// description. Total: libmpv returns a fixed string for codes it does
// not know.
func ErrorString(code int) string {
	return C.GoString(C.mpv_error_string(C.int(code)))
}

func statusError(code C.int) error {
	if code < 0 {
		return Error(code)
	}
	return nil
}

// Format identifies how a property value or node is typed, mirroring
// MPV_FORMAT_*.
type Format int

const (
	FormatNone      Format = C.MPV_FORMAT_NONE
	FormatString    Format = C.MPV_FORMAT_STRING
	FormatOSDString Format = C.MPV_FORMAT_OSD_STRING
	FormatFlag      Format = C.MPV_FORMAT_FLAG
	FormatInt64     Format = C.MPV_FORMAT_INT64
	FormatDouble    Format = C.MPV_FORMAT_DOUBLE
	FormatNode      Format = C.MPV_FORMAT_NODE
	FormatNodeArray Format = C.MPV_FORMAT_NODE_ARRAY
	FormatNodeMap   Format = C.MPV_FORMAT_NODE_MAP
	FormatByteArray Format = C.MPV_FORMAT_BYTE_ARRAY
)

// ClientName returns the name this client is registered under with the
// player. The underlying string is static for the handle's lifetime
// and is copied, not freed.
func (h *Handle) ClientName() string {
	return C.GoString(C.mpv_client_name(h.ptr))
}

// ObserveProperty registers interest in changes to the named property.
// Future change notifications carry replyUserdata so the caller can
// tell observations apart. A negative status from the library is
// returned verbatim as an Error.
func (h *Handle) ObserveProperty(replyUserdata uint64, name string, format Format) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return statusError(C.mpv_observe_property(h.ptr, C.uint64_t(replyUserdata), cname, C.mpv_format(format)))
}

// Command runs an argv-style command, e.g. {"loadfile", path}.
func (h *Handle) Command(args []string) error {
	argv := make([]*C.char, len(args)+1)
	for i, arg := range args {
		argv[i] = C.CString(arg)
	}
	defer func() {
		for _, arg := range argv[:len(args)] {
			C.free(unsafe.Pointer(arg))
		}
	}()
	return statusError(C.mpv_command(h.ptr, &argv[0]))
}

// ShowText flashes a message on the player's OSD.
func (h *Handle) ShowText(text string) error {
	return h.Command([]string{"show-text", text})
}

// Free releases a buffer allocated by libmpv. Such buffers belong to
// the library's allocator and must not go through C.free or the Go
// runtime. The accessors in this package copy results and free the
// library's buffer themselves, so most callers never need this.
func Free(data unsafe.Pointer) {
	C.mpv_free(data)
}
