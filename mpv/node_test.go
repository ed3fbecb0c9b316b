// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlayNode(t *testing.T) {
	node := overlayNode("dialogue", 1920, 1080)

	assert.Equal(t, FormatNodeMap, node.Format)
	assert.Equal(t, []string{"name", "id", "format", "data", "res_x", "res_y"}, node.Keys)
	assert.Equal(t, []Node{
		StringNode("osd-overlay"),
		Int64Node(0),
		StringNode("ass-events"),
		StringNode("dialogue"),
		Int64Node(1920),
		Int64Node(1080),
	}, node.Values)
}

func TestRemoveOverlayNode(t *testing.T) {
	node := removeOverlayNode()

	assert.Equal(t, FormatNodeMap, node.Format)
	assert.Equal(t, []string{"name", "id", "format", "data"}, node.Keys)
	assert.Equal(t, []Node{
		StringNode("osd-overlay"),
		Int64Node(0),
		StringNode("none"),
		StringNode(""),
	}, node.Values)
}

func TestMapNodeMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		MapNode([]string{"name"}, nil)
	})
}

func TestConfPath(t *testing.T) {
	assert.Equal(t, "~~/script-opts/foo.conf", confPath("foo"))
}

func TestErrorStringTotality(t *testing.T) {
	// All codes, including success and ones newer than this binding,
	// must map to a non-empty description.
	for code := 1; code >= -30; code-- {
		assert.NotEmpty(t, ErrorString(code), "code %d", code)
	}
}

func TestErrorImplementsError(t *testing.T) {
	var err error = Error(-3)
	assert.Equal(t, ErrorString(-3), err.Error())
}
