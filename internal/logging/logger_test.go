package logging

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		SetLevel("info")
	})
	return &buf
}

func TestLogger_RequestID(t *testing.T) {
	buf := captureLog(t)
	ctx := WithRequestID(context.Background(), "rid-1")

	New(ctx, "store").LogError("load", errors.New("boom"))

	assert.Equal(t, "[error] component=store request_id=rid-1 operation=load error=boom\n", buf.String())
}

func TestLogger_Level(t *testing.T) {
	buf := captureLog(t)
	SetLevel("warn")

	l := New(context.Background(), "x")
	l.LogInfof("op", "n=%d", 1)
	assert.Empty(t, buf.String())

	l.LogWarnf("op", "n=%d", 2)
	assert.Contains(t, buf.String(), "[warn] component=x request_id=- operation=op n=2")
}
