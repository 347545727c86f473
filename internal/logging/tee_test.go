package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTee_ForwardsToAll(t *testing.T) {
	var a, b bytes.Buffer
	logger := Tee(NewConsoleLoggerTo(&a, true), nil, NewConsoleLoggerTo(&b, false))

	logger.Info("hello %s", "world")
	logger.Verbose("details")
	logger.Error("bad")

	assert.Equal(t, "hello world\n[VERBOSE] details\n[ERROR] bad\n", a.String())
	assert.Equal(t, "hello world\n[ERROR] bad\n", b.String())
}

func TestTee_SingleLoggerIsReturnedAsIs(t *testing.T) {
	console := NewConsoleLogger(false)
	assert.Same(t, console, Tee(console, nil))
}

func TestTee_Empty(t *testing.T) {
	logger := Tee()
	assert.NotPanics(t, func() { logger.Info("nothing") })
}
