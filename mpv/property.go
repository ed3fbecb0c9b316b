// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpv

/*
#include <mpv/client.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"
)

// GetProperty reads the current value of a property in the given
// format. Only the formats the plugin reads are lowered; other formats
// fail with the library's property-format error.
func (h *Handle) GetProperty(name string, format Format) (interface{}, error) {
	switch format {
	case FormatDouble:
		return h.GetPropertyDouble(name)
	case FormatFlag:
		return h.GetPropertyBool(name)
	case FormatInt64:
		return h.GetPropertyInt64(name)
	case FormatString:
		return h.GetPropertyString(name)
	default:
		return nil, Error(C.MPV_ERROR_PROPERTY_FORMAT)
	}
}

// GetPropertyDouble reads a float property such as time-pos.
func (h *Handle) GetPropertyDouble(name string) (float64, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var data C.double
	err := statusError(C.mpv_get_property(h.ptr, cname, C.MPV_FORMAT_DOUBLE, unsafe.Pointer(&data)))
	return float64(data), err
}

// GetPropertyBool reads a flag property such as pause.
func (h *Handle) GetPropertyBool(name string) (bool, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var data C.int
	err := statusError(C.mpv_get_property(h.ptr, cname, C.MPV_FORMAT_FLAG, unsafe.Pointer(&data)))
	return data != 0, err
}

// GetPropertyInt64 reads an integer property.
func (h *Handle) GetPropertyInt64(name string) (int64, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var data C.int64_t
	err := statusError(C.mpv_get_property(h.ptr, cname, C.MPV_FORMAT_INT64, unsafe.Pointer(&data)))
	return int64(data), err
}

// GetPropertyString reads a string property. The value is copied into
// Go memory and the library's buffer is released exactly once.
func (h *Handle) GetPropertyString(name string) (string, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var data *C.char
	if err := statusError(C.mpv_get_property(h.ptr, cname, C.MPV_FORMAT_STRING, unsafe.Pointer(&data))); err != nil {
		return "", err
	}
	defer C.mpv_free(unsafe.Pointer(data))
	return C.GoString(data), nil
}
