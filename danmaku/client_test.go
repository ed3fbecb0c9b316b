// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package danmaku

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quietLogger struct{}

func (quietLogger) Print(s string)                      {}
func (quietLogger) Printf(s string, as ...interface{})  {}
func (quietLogger) PrintError(source string, err error) {}

func TestParseComment(t *testing.T) {
	t.Run("color decomposes to rgb", func(t *testing.T) {
		c, ok := parseComment(rawComment{P: "12.5,1,16711935,12345", M: "hi"})
		require.True(t, ok)
		assert.Equal(t, 12.5, c.Time)
		assert.Equal(t, uint8(0xff), c.R)
		assert.Equal(t, uint8(0x00), c.G)
		assert.Equal(t, uint8(0xff), c.B)
	})

	t.Run("numeric user is dandan", func(t *testing.T) {
		c, ok := parseComment(rawComment{P: "1,1,16777215,8812345", M: "hi"})
		require.True(t, ok)
		assert.Equal(t, SourceDandan, c.Source)
	})

	t.Run("site prefix tags the source", func(t *testing.T) {
		c, ok := parseComment(rawComment{P: "1,1,16777215,[BiliBili]abcdef", M: "hi"})
		require.True(t, ok)
		assert.Equal(t, SourceBilibili, c.Source)
	})

	t.Run("unknown prefix", func(t *testing.T) {
		c, ok := parseComment(rawComment{P: "1,1,16777215,someuser", M: "hi"})
		require.True(t, ok)
		assert.Equal(t, SourceUnknown, c.Source)
	})

	t.Run("newlines become ass breaks", func(t *testing.T) {
		c, ok := parseComment(rawComment{P: "1,1,0,1", M: "line one\nline two"})
		require.True(t, ok)
		assert.Equal(t, "line one\\Nline two", c.Message)
	})

	t.Run("grapheme count not byte count", func(t *testing.T) {
		c, ok := parseComment(rawComment{P: "1,1,0,1", M: "高能预警"})
		require.True(t, ok)
		assert.Equal(t, 4, c.Count)
	})

	t.Run("malformed p rejected", func(t *testing.T) {
		_, ok := parseComment(rawComment{P: "1,1,0", M: "hi"})
		assert.False(t, ok)
		_, ok = parseComment(rawComment{P: "abc,1,0,1", M: "hi"})
		assert.False(t, ok)
	})
}

func TestParseCommentsFilters(t *testing.T) {
	filter := &Filter{
		Keywords: []string{"spoiler"},
		Sources:  map[Source]bool{SourceBilibili: true},
	}
	c := NewClient(quietLogger{}, filter)

	comments := c.parseComments([]rawComment{
		{P: "1,1,0,1", M: "fine"},
		{P: "2,1,0,1", M: "a spoiler here"},
		{P: "3,1,0,[BiliBili]abc", M: "blocked but kept"},
		{P: "bad", M: "malformed"},
	})

	require.Len(t, comments, 2)
	assert.Equal(t, "fine", comments[0].Message)
	assert.False(t, comments[0].Blocked)
	assert.Equal(t, "blocked but kept", comments[1].Message)
	assert.True(t, comments[1].Blocked)
}

func TestFilterOverride(t *testing.T) {
	f := &Filter{Sources: map[Source]bool{SourceGamer: true}}
	assert.True(t, f.Blocks(SourceGamer))
	assert.False(t, f.Blocks(SourceAcFun))

	f.SetOverride(map[Source]bool{SourceAcFun: true})
	assert.False(t, f.Blocks(SourceGamer))
	assert.True(t, f.Blocks(SourceAcFun))

	f.SetOverride(nil)
	assert.True(t, f.Blocks(SourceGamer))
}

func TestFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.mkv")
	content := []byte("not really a video")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	sum := md5.Sum(content)
	hash, err := fileHash(path)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum[:]), hash)
}

func TestFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.mkv")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))

	var gotMatch map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/match":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotMatch))
			json.NewEncoder(w).Encode(matchResponse{
				IsMatched: true,
				Matches:   []match{{EpisodeID: 99}},
			})
		case "/api/v2/comment/99":
			assert.Equal(t, "true", r.URL.Query().Get("withRelated"))
			json.NewEncoder(w).Encode(commentResponse{Comments: []rawComment{
				{P: "8,1,255,1", M: "later"},
				{P: "2,1,255,1", M: "earlier"},
			}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(quietLogger{}, nil)
	c.BaseURL = srv.URL

	comments, err := c.Fetch(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "episode.mkv", gotMatch["fileName"])
	sum := md5.Sum([]byte("payload"))
	assert.Equal(t, hex.EncodeToString(sum[:]), gotMatch["fileHash"])

	require.Len(t, comments, 2)
	assert.Equal(t, "earlier", comments[0].Message)
	assert.Equal(t, "later", comments[1].Message)
}

func TestFetchNoMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.mkv")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(matchResponse{IsMatched: false})
	}))
	defer srv.Close()

	c := NewClient(quietLogger{}, nil)
	c.BaseURL = srv.URL

	_, err := c.Fetch(context.Background(), path)
	assert.EqualError(t, err, "no matching episode")
}

func TestFetchAmbiguousMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.mkv")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(matchResponse{
			IsMatched: true,
			Matches:   []match{{EpisodeID: 1}, {EpisodeID: 2}},
		})
	}))
	defer srv.Close()

	c := NewClient(quietLogger{}, nil)
	c.BaseURL = srv.URL

	_, err := c.Fetch(context.Background(), path)
	assert.EqualError(t, err, "multiple matching episodes")
}

func TestCacheEviction(t *testing.T) {
	cache := NewCache[[]Comment](2)
	cache.Put("a", []Comment{{Message: "a"}})
	cache.Put("b", []Comment{{Message: "b"}})
	cache.Put("c", []Comment{{Message: "c"}})

	_, ok := cache.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")
	got, ok := cache.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "c", got[0].Message)
	assert.Equal(t, 2, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}
