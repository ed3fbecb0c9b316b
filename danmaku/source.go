// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package danmaku

import "strings"

// Source identifies the site a comment was scraped from, parsed from
// the dandanplay user tag.
type Source int

const (
	SourceUnknown Source = iota
	SourceBilibili
	SourceGamer
	SourceAcFun
	SourceTencent
	SourceIQIYI
	SourceD
	SourceDandan
)

// ParseSource maps the tag names used in user prefixes and in the
// filter_source option. Unrecognized names map to SourceUnknown.
func ParseSource(s string) Source {
	switch strings.ToLower(s) {
	case "bilibili":
		return SourceBilibili
	case "gamer":
		return SourceGamer
	case "acfun":
		return SourceAcFun
	case "qq":
		return SourceTencent
	case "iqiyi":
		return SourceIQIYI
	case "d":
		return SourceD
	case "dandan":
		return SourceDandan
	default:
		return SourceUnknown
	}
}

func (s Source) String() string {
	switch s {
	case SourceBilibili:
		return "bilibili"
	case SourceGamer:
		return "gamer"
	case SourceAcFun:
		return "acfun"
	case SourceTencent:
		return "qq"
	case SourceIQIYI:
		return "iqiyi"
	case SourceD:
		return "d"
	case SourceDandan:
		return "dandan"
	default:
		return "unknown"
	}
}
