package tui_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/exitintent/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := tui.NewPrinter(&buf, true)

	require.NoError(t, p.Print(tui.Entry{Step: 2, Elapsed: 1500 * time.Millisecond, Event: "trigger", Detail: "pointer_corner"}))
	require.NoError(t, p.Summary(1, "Shop"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, float64(2), got["step"])
	assert.Equal(t, float64(1500), got["elapsed_ms"])
	assert.Equal(t, "trigger", got["event"])
	assert.Equal(t, "pointer_corner", got["detail"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, "summary", got["event"])
	assert.Equal(t, float64(1), got["triggers"])
}

func TestPrinter_Text(t *testing.T) {
	var buf bytes.Buffer
	p := tui.NewPrinter(&buf, false)

	require.NoError(t, p.Print(tui.Entry{Step: 1, Event: "title_flash", Detail: "We miss you!"}))
	assert.Contains(t, buf.String(), "title_flash")
	assert.Contains(t, buf.String(), "We miss you!")
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, tui.IsTerminal(&bytes.Buffer{}))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.NotEmpty(t, buf.String())
}
