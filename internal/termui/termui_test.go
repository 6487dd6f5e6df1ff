package termui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBarSilentWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar(&buf, "gif")
	assert.False(t, IsTerminal(&buf))
	b.Update(1, 2)
	b.Done()
	assert.Empty(t, buf.String())
}

func TestBarDrawsFinalFrame(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar(&buf, "gif")
	b.SetEnabled(true)
	b.every = time.Hour
	b.Update(1, 4)
	// Throttled: the next partial update comes too soon.
	b.Update(2, 4)
	b.Update(4, 4)
	b.Done()

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "\r"))
	assert.Contains(t, out, "(1/4)")
	assert.NotContains(t, out, "(2/4)")
	assert.Contains(t, out, "(4/4)")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestKV(t *testing.T) {
	var buf bytes.Buffer
	KV(&buf, "frames", 12)
	assert.Contains(t, buf.String(), "frames:")
	assert.Contains(t, buf.String(), "12")
}
