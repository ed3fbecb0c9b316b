// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package options loads the plugin's script-opts config file,
// "<config-dir>/script-opts/<client>.conf", the same key=value format
// mpv uses for script options. A missing file means defaults; invalid
// values are ignored in favor of the default.
package options

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/danmagu/danmagu/danmaku"
	"github.com/danmagu/danmagu/logger"
)

// ConfSource is the bridge surface option loading needs: the expanded
// config path and path expansion for the bilibili rule file.
type ConfSource interface {
	ConfFileName() (string, error)
	ExpandPath(path string) (string, error)
}

type Options struct {
	// FontSize is the comment font size on the 1920x1080 canvas.
	FontSize float64
	// Transparency is the ASS alpha byte, 0 opaque to 255 invisible.
	Transparency uint8
	// ReservedSpace is the fraction of the screen height at the bottom
	// kept free of comments, in [0,1).
	ReservedSpace float64
	// Speed scales the scroll speed.
	Speed float64
	// NoOverlap skips comments when no lane is free instead of
	// stacking them onto the least-loaded lane.
	NoOverlap bool

	Filter *danmaku.Filter
}

func Default() Options {
	return Options{
		FontSize:      40,
		Transparency:  0x30,
		ReservedSpace: 0,
		Speed:         1,
		NoOverlap:     true,
		Filter:        &danmaku.Filter{},
	}
}

// Load reads the script-opts file for the given client. Errors other
// than a missing file are logged and swallowed so a broken config
// never keeps the plugin from starting.
func Load(src ConfSource, log logger.LoggerInterface) Options {
	opts := Default()

	path, err := src.ConfFileName()
	if err != nil {
		log.PrintError("options", err)
		return opts
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("properties")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.PrintError("options", err)
		}
		return opts
	}

	parse(v, src.ExpandPath, log, &opts)
	return opts
}

// parse applies the known keys, keeping the original plugin's
// semantics: out-of-range or unparsable values keep the default.
func parse(v *viper.Viper, expand func(string) (string, error), log logger.LoggerInterface, opts *Options) {
	if f, err := strconv.ParseFloat(v.GetString("font_size"), 64); err == nil && f > 0 {
		opts.FontSize = f
	}
	if t, err := strconv.ParseUint(v.GetString("transparency"), 10, 8); err == nil {
		opts.Transparency = uint8(t)
	}
	if r, err := strconv.ParseFloat(v.GetString("reserved_space"), 64); err == nil && r >= 0 && r < 1 {
		opts.ReservedSpace = r
	}
	if s, err := strconv.ParseFloat(v.GetString("speed"), 64); err == nil && s > 0 {
		opts.Speed = s
	}
	switch v.GetString("no_overlap") {
	case "yes":
		opts.NoOverlap = true
	case "no":
		opts.NoOverlap = false
	}

	if keywords := v.GetString("filter"); keywords != "" {
		opts.Filter.Keywords = append(opts.Filter.Keywords, strings.Split(keywords, ",")...)
	}
	if sources := v.GetString("filter_source"); sources != "" {
		opts.Filter.Sources = make(map[danmaku.Source]bool)
		for _, name := range strings.Split(sources, ",") {
			if s := danmaku.ParseSource(name); s != danmaku.SourceUnknown {
				opts.Filter.Sources[s] = true
			}
		}
	}
	if rulePath := v.GetString("filter_bilibili"); rulePath != "" {
		keywords, err := bilibiliKeywords(rulePath, expand)
		if err != nil {
			log.PrintError("option filter_bilibili", err)
		} else {
			opts.Filter.Keywords = append(opts.Filter.Keywords, keywords...)
		}
	}
}

// bilibiliRule is one entry of a bilibili filter rule export; only
// enabled keyword rules (type 0) are honored.
type bilibiliRule struct {
	Type   int    `json:"type"`
	Filter string `json:"filter"`
	Opened bool   `json:"opened"`
}

func bilibiliKeywords(path string, expand func(string) (string, error)) ([]string, error) {
	expanded, err := expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}

	var rules []bilibiliRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, err
	}

	var keywords []string
	for _, rule := range rules {
		if rule.Type == 0 && rule.Opened {
			keywords = append(keywords, rule.Filter)
		}
	}
	return keywords, nil
}
