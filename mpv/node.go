// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpv

/*
#include <mpv/client.h>
#include <stdlib.h>

static void set_node_string(mpv_node *n, char *s) {
	n->format = MPV_FORMAT_STRING;
	n->u.string = s;
}

static void set_node_int64(mpv_node *n, int64_t v) {
	n->format = MPV_FORMAT_INT64;
	n->u.int64 = v;
}

static int command_node_map(mpv_handle *h, int num, char **keys, mpv_node *values) {
	mpv_node_list list = {.num = num, .values = values, .keys = keys};
	mpv_node args = {.format = MPV_FORMAT_NODE_MAP, .u = {.list = &list}};
	return mpv_command_node(h, &args, NULL);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Node is the tagged value libmpv uses for structured command
// arguments and results. Only the shapes the bridge actually sends are
// representable: strings, int64s, and string-keyed maps of those. It
// is not a general encoder; a payload whose keys or value formats do
// not match a command's documented layout is a programming error.
type Node struct {
	Format Format
	Str    string
	Int    int64
	Keys   []string
	Values []Node
}

// StringNode returns a string-typed Node.
func StringNode(s string) Node { return Node{Format: FormatString, Str: s} }

// Int64Node returns an int64-typed Node.
func Int64Node(i int64) Node { return Node{Format: FormatInt64, Int: i} }

// MapNode returns a string-keyed map Node with parallel keys/values.
func MapNode(keys []string, values []Node) Node {
	if len(keys) != len(values) {
		panic("mpv: node map keys/values length mismatch")
	}
	return Node{Format: FormatNodeMap, Keys: keys, Values: values}
}

// The overlay commands always address the same OSD overlay.
const (
	overlayName = "osd-overlay"
	overlayID   = 0
)

// overlayNode is the osd-overlay install/update payload. The command
// requires exactly this key set.
func overlayNode(data string, width, height int64) Node {
	return MapNode(
		[]string{"name", "id", "format", "data", "res_x", "res_y"},
		[]Node{
			StringNode(overlayName),
			Int64Node(overlayID),
			StringNode("ass-events"),
			StringNode(data),
			Int64Node(width),
			Int64Node(height),
		},
	)
}

// removeOverlayNode clears the overlay by switching its format to
// "none" with empty data.
func removeOverlayNode() Node {
	return MapNode(
		[]string{"name", "id", "format", "data"},
		[]Node{
			StringNode(overlayName),
			Int64Node(overlayID),
			StringNode("none"),
			StringNode(""),
		},
	)
}

// ShowOverlay installs or updates the ASS overlay with the given event
// data, rendered on a virtual canvas of the given resolution.
func (h *Handle) ShowOverlay(data string, width, height int64) error {
	return h.commandNode(overlayNode(data, width, height))
}

// RemoveOverlay clears the overlay installed by ShowOverlay.
func (h *Handle) RemoveOverlay() error {
	return h.commandNode(removeOverlayNode())
}

// commandNode lowers a map Node to mpv_node and runs it through
// mpv_command_node. C-side memory is scoped to this call.
func (h *Handle) commandNode(args Node) error {
	if args.Format != FormatNodeMap {
		panic("mpv: command node payload must be a map")
	}
	num := len(args.Keys)
	keysMem := C.malloc(C.size_t(num) * C.size_t(unsafe.Sizeof(uintptr(0))))
	defer C.free(keysMem)
	valuesMem := C.malloc(C.size_t(num) * C.size_t(C.sizeof_mpv_node))
	defer C.free(valuesMem)

	keys := unsafe.Slice((**C.char)(keysMem), num)
	values := unsafe.Slice((*C.mpv_node)(valuesMem), num)
	for i, key := range args.Keys {
		ckey := C.CString(key)
		defer C.free(unsafe.Pointer(ckey))
		keys[i] = ckey

		switch v := args.Values[i]; v.Format {
		case FormatString:
			cstr := C.CString(v.Str)
			defer C.free(unsafe.Pointer(cstr))
			C.set_node_string(&values[i], cstr)
		case FormatInt64:
			C.set_node_int64(&values[i], C.int64_t(v.Int))
		default:
			panic(fmt.Sprintf("mpv: unsupported node value format %d", v.Format))
		}
	}

	return statusError(C.command_node_map(h.ptr, C.int(num), (**C.char)(keysMem), (*C.mpv_node)(valuesMem)))
}

// commandRet runs an argv command and converts its result node. The
// node's contents are copied into Go memory and released exactly once
// via mpv_free_node_contents.
func (h *Handle) commandRet(args []string) (Node, error) {
	argv := make([]*C.char, len(args)+1)
	for i, arg := range args {
		argv[i] = C.CString(arg)
	}
	defer func() {
		for _, arg := range argv[:len(args)] {
			C.free(unsafe.Pointer(arg))
		}
	}()

	var result C.mpv_node
	if err := statusError(C.mpv_command_ret(h.ptr, &argv[0], &result)); err != nil {
		return Node{}, err
	}
	defer C.mpv_free_node_contents(&result)
	return nodeFromC(&result), nil
}

func nodeFromC(n *C.mpv_node) Node {
	switch Format(n.format) {
	case FormatString:
		return StringNode(C.GoString(*(**C.char)(unsafe.Pointer(&n.u))))
	case FormatInt64:
		return Int64Node(int64(*(*C.int64_t)(unsafe.Pointer(&n.u))))
	default:
		return Node{Format: Format(n.format)}
	}
}

// ExpandPath asks the player to expand mpv path shorthands such as
// "~~/" into an absolute path.
func (h *Handle) ExpandPath(path string) (string, error) {
	result, err := h.commandRet([]string{"expand-path", path})
	if err != nil {
		return "", err
	}
	// expand-path documents a string result; anything else means the
	// library broke its own contract.
	if result.Format != FormatString {
		panic(fmt.Sprintf("mpv: expand-path returned node format %d", result.Format))
	}
	return result.Str, nil
}

// ConfFileName computes the conventional script-opts config path for
// this client, "~~/script-opts/<client>.conf", expanded to an absolute
// path by the player. The bridge only computes the path; reading the
// file is up to the caller.
func (h *Handle) ConfFileName() (string, error) {
	return h.ExpandPath(confPath(h.ClientName()))
}

func confPath(clientName string) string {
	return "~~/script-opts/" + clientName + ".conf"
}
