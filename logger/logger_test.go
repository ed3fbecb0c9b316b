package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerTagsClientName(t *testing.T) {
	var buf bytes.Buffer
	l := Init("danmagu")
	l.SetOutput(&buf)

	l.Printf("loaded %d comments", 42)

	out := buf.String()
	assert.Contains(t, out, "client=danmagu")
	assert.Contains(t, out, "loaded 42 comments")
}

func TestPrintErrorIncludesSource(t *testing.T) {
	var buf bytes.Buffer
	l := Init("danmagu")
	l.SetOutput(&buf)

	l.PrintError("expand-path", errors.New("file not found"))

	out := buf.String()
	assert.Contains(t, out, "source=expand-path")
	assert.Contains(t, out, "file not found")
}
