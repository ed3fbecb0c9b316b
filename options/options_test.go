// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmagu/danmagu/danmaku"
	"github.com/danmagu/danmagu/logger"
)

type quietLogger struct{}

func (quietLogger) Print(s string)                      {}
func (quietLogger) Printf(s string, as ...interface{})  {}
func (quietLogger) PrintError(source string, err error) {}

// fakeSource points ConfFileName at a fixture and expands paths as-is.
type fakeSource struct {
	confPath string
}

func (f fakeSource) ConfFileName() (string, error)          { return f.confPath, nil }
func (f fakeSource) ExpandPath(path string) (string, error) { return path, nil }

var _ logger.LoggerInterface = quietLogger{}

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "danmagu.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	opts := Load(fakeSource{confPath: filepath.Join(t.TempDir(), "nope.conf")}, quietLogger{})
	assert.Equal(t, Default().FontSize, opts.FontSize)
	assert.Equal(t, Default().Transparency, opts.Transparency)
	assert.True(t, opts.NoOverlap)
}

func TestLoadParsesKnownKeys(t *testing.T) {
	path := writeConf(t, `# danmagu options
font_size=28
transparency=128
reserved_space=0.25
speed=1.5
no_overlap=no
filter=spoiler,ad
filter_source=bilibili,gamer
`)

	opts := Load(fakeSource{confPath: path}, quietLogger{})

	assert.Equal(t, 28.0, opts.FontSize)
	assert.Equal(t, uint8(128), opts.Transparency)
	assert.Equal(t, 0.25, opts.ReservedSpace)
	assert.Equal(t, 1.5, opts.Speed)
	assert.False(t, opts.NoOverlap)
	assert.Equal(t, []string{"spoiler", "ad"}, opts.Filter.Keywords)
	assert.True(t, opts.Filter.Blocks(danmaku.SourceBilibili))
	assert.True(t, opts.Filter.Blocks(danmaku.SourceGamer))
	assert.False(t, opts.Filter.Blocks(danmaku.SourceAcFun))
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	path := writeConf(t, `font_size=-10
transparency=300
reserved_space=1.5
speed=0
no_overlap=maybe
`)

	opts := Load(fakeSource{confPath: path}, quietLogger{})

	def := Default()
	assert.Equal(t, def.FontSize, opts.FontSize)
	assert.Equal(t, def.Transparency, opts.Transparency)
	assert.Equal(t, def.ReservedSpace, opts.ReservedSpace)
	assert.Equal(t, def.Speed, opts.Speed)
	assert.Equal(t, def.NoOverlap, opts.NoOverlap)
}

func TestLoadBilibiliRules(t *testing.T) {
	dir := t.TempDir()
	rulePath := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(rulePath, []byte(`[
		{"type": 0, "filter": "blockme", "opened": true},
		{"type": 0, "filter": "disabled", "opened": false},
		{"type": 1, "filter": "regexp-rule", "opened": true}
	]`), 0o644))

	path := writeConf(t, "filter_bilibili="+rulePath+"\n")

	opts := Load(fakeSource{confPath: path}, quietLogger{})
	assert.Equal(t, []string{"blockme"}, opts.Filter.Keywords)
}
