package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/loopfetch/internal/engine"
	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/script"
	"codeberg.org/mutker/loopfetch/internal/settings"
	"codeberg.org/mutker/loopfetch/internal/styled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "init.lua")

	written, err := writeScript(path, false)
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, script.DefaultSource, string(data))

	require.NoError(t, os.WriteFile(path, []byte("-- mine"), 0o644))

	written, err = writeScript(path, false)
	require.NoError(t, err)
	assert.False(t, written)
	data, _ = os.ReadFile(path)
	assert.Equal(t, "-- mine", string(data))

	written, err = writeScript(path, true)
	require.NoError(t, err)
	assert.True(t, written)
	data, _ = os.ReadFile(path)
	assert.Equal(t, script.DefaultSource, string(data))
}

func TestWriteScriptUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := writeScript(filepath.Join(blocker, "init.lua"), false)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrWriteScript))
}

func sampleFrame() engine.Frame {
	s := settings.Default()
	s.Layout = settings.Vertical
	s.Vars.Comp = "picom"

	green := styled.RGB{G: 255}
	return engine.Frame{
		Settings: s,
		Lines: styled.Set{
			{{Text: "hi", Style: styled.Style{FG: &green, Bold: true}}},
			{},
		},
	}
}

func TestCheckReport(t *testing.T) {
	report := newCheckReport(sampleFrame())

	assert.Equal(t, "vertical", report.Settings.Layout)
	assert.Equal(t, "info,ascii", report.Settings.Order)
	assert.Equal(t, "picom", report.Settings.Comp)
	assert.Equal(t, settings.DefaultFPS, report.Settings.FPS)
	require.Len(t, report.Lines, 2)
	assert.Equal(t, "hi", report.Lines[0].Text)
	assert.Equal(t, "#00ff00", report.Lines[0].Spans[0].FG)
	assert.True(t, report.Lines[0].Spans[0].Bold)
	assert.Empty(t, report.Lines[1].Spans)
	assert.Empty(t, report.Error)
}

func TestWriteReportFormats(t *testing.T) {
	report := newCheckReport(sampleFrame())
	t.Cleanup(func() { checkFormat = "yaml" })

	var buf bytes.Buffer
	checkFormat = "yaml"
	require.NoError(t, writeReport(&buf, report))
	assert.Contains(t, buf.String(), "layout: vertical")
	assert.Contains(t, buf.String(), "#00ff00")

	buf.Reset()
	checkFormat = "json"
	require.NoError(t, writeReport(&buf, report))
	assert.Contains(t, buf.String(), `"layout": "vertical"`)
	assert.NotContains(t, buf.String(), `"error"`)
}
