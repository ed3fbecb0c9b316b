// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package danmaku

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rivo/uniseg"

	"github.com/danmagu/danmagu/logger"
)

const defaultBaseURL = "https://api.dandanplay.net"

// The matching API hashes at most the first 16 MiB of the file.
// https://api.dandanplay.net/swagger/ui/index
const hashReadLimit = 16 * 1024 * 1024

// Client fetches comments for a media file from the dandanplay API.
type Client struct {
	BaseURL string

	client *http.Client
	logger logger.LoggerInterface
	filter *Filter
}

func NewClient(logger logger.LoggerInterface, filter *Filter) *Client {
	if filter == nil {
		filter = &Filter{}
	}
	return &Client{
		BaseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
		filter:  filter,
	}
}

type matchResponse struct {
	IsMatched bool    `json:"isMatched"`
	Matches   []match `json:"matches"`
}

type match struct {
	EpisodeID int `json:"episodeId"`
}

type commentResponse struct {
	Comments []rawComment `json:"comments"`
}

// rawComment is the wire form: p is "time,mode,color,user".
type rawComment struct {
	P string `json:"p"`
	M string `json:"m"`
}

// Fetch matches the media file against the comment service and
// returns its comments sorted by time. Keyword-filtered comments are
// dropped; source-blocked ones are kept but marked.
func (c *Client) Fetch(ctx context.Context, path string) ([]Comment, error) {
	hash, err := fileHash(path)
	if err != nil {
		return nil, err
	}

	episode, err := c.matchEpisode(ctx, filepath.Base(path), hash)
	if err != nil {
		return nil, err
	}

	raw, err := c.comments(ctx, episode)
	if err != nil {
		return nil, err
	}

	comments := c.parseComments(raw)
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Time < comments[j].Time
	})
	return comments, nil
}

func (c *Client) matchEpisode(ctx context.Context, fileName, hash string) (int, error) {
	body, err := json.Marshal(map[string]string{
		"fileName": fileName,
		"fileHash": hash,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v2/match", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	var matched matchResponse
	if err := c.do(req, &matched); err != nil {
		return 0, err
	}

	if len(matched.Matches) > 1 {
		return 0, errors.New("multiple matching episodes")
	}
	if !matched.IsMatched || len(matched.Matches) == 0 {
		return 0, errors.New("no matching episode")
	}
	return matched.Matches[0].EpisodeID, nil
}

func (c *Client) comments(ctx context.Context, episode int) ([]rawComment, error) {
	url := fmt.Sprintf("%s/api/v2/comment/%d?withRelated=true", c.BaseURL, episode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var resp commentResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", req.URL.Path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) parseComments(raw []rawComment) []Comment {
	comments := make([]Comment, 0, len(raw))
	for _, rc := range raw {
		if c.filter.Drops(rc.M) {
			continue
		}
		comment, ok := parseComment(rc)
		if !ok {
			c.logger.Printf("danmaku: skipping malformed comment %q", rc.P)
			continue
		}
		comment.Blocked = c.filter.Blocks(comment.Source)
		comments = append(comments, comment)
	}
	return comments
}

func parseComment(rc rawComment) (Comment, bool) {
	parts := strings.SplitN(rc.P, ",", 4)
	if len(parts) < 4 {
		return Comment{}, false
	}
	timestamp, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Comment{}, false
	}
	color, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return Comment{}, false
	}

	message := strings.ReplaceAll(rc.M, "\n", "\\N")
	return Comment{
		Message: message,
		Count:   uniseg.GraphemeClusterCount(rc.M),
		Time:    timestamp,
		R:       uint8(color >> 16),
		G:       uint8(color >> 8),
		B:       uint8(color),
		Source:  commentSource(parts[3]),
	}, true
}

// commentSource derives the site from the user tag: a plain numeric
// user id comes from dandanplay itself, scraped comments carry a
// "[site]user" prefix.
func commentSource(user string) Source {
	if user != "" && strings.IndexFunc(user, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
		return SourceDandan
	}
	rest, ok := strings.CutPrefix(user, "[")
	if !ok {
		return SourceUnknown
	}
	site, _, ok := strings.Cut(rest, "]")
	if !ok {
		return SourceUnknown
	}
	return ParseSource(site)
}

// fileHash is the dandanplay match key: hex MD5 of the file's first
// 16 MiB.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, io.LimitReader(f, hashReadLimit)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
