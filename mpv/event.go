// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpv

/*
#include <mpv/client.h>
*/
import "C"

import (
	"unsafe"
)

// EventID identifies the kind of event returned by WaitEvent,
// mirroring MPV_EVENT_*.
type EventID int

const (
	EventNone            EventID = C.MPV_EVENT_NONE
	EventShutdown        EventID = C.MPV_EVENT_SHUTDOWN
	EventLogMessage      EventID = C.MPV_EVENT_LOG_MESSAGE
	EventStartFile       EventID = C.MPV_EVENT_START_FILE
	EventEndFile         EventID = C.MPV_EVENT_END_FILE
	EventFileLoaded      EventID = C.MPV_EVENT_FILE_LOADED
	EventClientMessage   EventID = C.MPV_EVENT_CLIENT_MESSAGE
	EventSeek            EventID = C.MPV_EVENT_SEEK
	EventPlaybackRestart EventID = C.MPV_EVENT_PLAYBACK_RESTART
	EventPropertyChange  EventID = C.MPV_EVENT_PROPERTY_CHANGE
)

func (id EventID) String() string {
	return C.GoString(C.mpv_event_name(C.mpv_event_id(id)))
}

// Event is the Go form of one mpv_event. The C event's memory stays
// owned by the library (valid only until the next wait call), so
// everything a caller may hold on to is copied out here.
type Event struct {
	ID            EventID
	ReplyUserdata uint64

	// Err carries the event's status when it is negative.
	Err error

	// Args holds the arguments of a client-message event.
	Args []string

	// Name is the property name of a property-change event. Callers
	// re-read the property for its current value.
	Name string
}

// WaitEvent blocks the calling thread for up to timeout seconds
// waiting for the next event, returning immediately if one is already
// queued. A zero timeout polls; a negative timeout waits indefinitely.
// If nothing arrives in time the returned event has ID EventNone. The
// caller decides whether to call again; only one goroutine may wait on
// a handle at a time.
func (h *Handle) WaitEvent(timeout float64) *Event {
	return eventFromC(C.mpv_wait_event(h.ptr, C.double(timeout)))
}

func eventFromC(e *C.mpv_event) *Event {
	out := &Event{
		ID:            EventID(e.event_id),
		ReplyUserdata: uint64(e.reply_userdata),
	}
	if e.error < 0 {
		out.Err = Error(e.error)
	}
	switch out.ID {
	case EventClientMessage:
		out.Args = messageArgs((*C.mpv_event_client_message)(e.data))
	case EventPropertyChange:
		if prop := (*C.mpv_event_property)(e.data); prop != nil {
			out.Name = C.GoString(prop.name)
		}
	}
	return out
}

func messageArgs(msg *C.mpv_event_client_message) []string {
	if msg == nil || msg.args == nil || msg.num_args <= 0 {
		return nil
	}
	args := make([]string, int(msg.num_args))
	for i, arg := range unsafe.Slice(msg.args, int(msg.num_args)) {
		args[i] = C.GoString(arg)
	}
	return args
}
