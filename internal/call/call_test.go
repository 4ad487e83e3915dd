package call

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadBareWav(t *testing.T) {
	dir := t.TempDir()
	wav := filepath.Join(dir, "12345-67890.wav")
	writeFile(t, wav, "RIFF")

	c, err := Load(wav, Options{})
	require.NoError(t, err)

	assert.Equal(t, "12345-67890", c.Key)

	url, ok := c.Get("url")
	require.True(t, ok)
	assert.Contains(t, url, "file://")
	assert.Contains(t, url, "12345-67890.wav")

	assert.False(t, c.Created().IsZero())

	_, ok = c.Get("system")
	assert.False(t, ok)
}

func TestLoadTrunkRecorderPath(t *testing.T) {
	dir := t.TempDir()
	wav := filepath.Join(dir, "berkeley", "2018", "4", "7", "12345-67890.wav")
	writeFile(t, wav, "RIFF")

	c, err := Load(wav, Options{BaseURL: "https://example.com/audio/"})
	require.NoError(t, err)

	system, ok := c.Get("system")
	require.True(t, ok)
	assert.Equal(t, "berkeley", system)

	url, _ := c.Get("url")
	assert.Equal(t, "https://example.com/audio/berkeley/2018/4/7/12345-67890.wav", url)
}

func TestLoadCallLog(t *testing.T) {
	dir := t.TempDir()
	wav := filepath.Join(dir, "12345-67890.wav")
	writeFile(t, wav, "RIFF")
	writeFile(t, filepath.Join(dir, "12345-67890.json"),
		`{"freq": 460125000, "start_time": 1523121456, "stop_time": 1523121466, "emergency": 0}`)

	c, err := Load(wav, Options{})
	require.NoError(t, err)

	freq, _ := c.Get("freq")
	assert.Equal(t, float64(460125000), freq)

	duration, _ := c.Get("duration")
	assert.Equal(t, int64(10), duration)

	start, _ := c.Get("start_time")
	assert.Equal(t, time.Unix(1523121456, 0).UTC(), start)
	stop, _ := c.Get("stop_time")
	assert.Equal(t, time.Unix(1523121466, 0).UTC(), stop)
}

func TestLoadMalformedCallLog(t *testing.T) {
	dir := t.TempDir()
	wav := filepath.Join(dir, "12345-67890.wav")
	writeFile(t, wav, "RIFF")
	writeFile(t, filepath.Join(dir, "12345-67890.json"), "not json")

	_, err := Load(wav, Options{})
	require.Error(t, err)
}

func TestLoadMissingWav(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.wav"), Options{})
	require.Error(t, err)
}

func TestAudio(t *testing.T) {
	dir := t.TempDir()
	wav := filepath.Join(dir, "12345-67890.wav")
	writeFile(t, wav, "RIFF wav data")

	c, err := Load(wav, Options{})
	require.NoError(t, err)

	audio, err := c.Audio()
	require.NoError(t, err)
	defer audio.Close()

	data, err := io.ReadAll(audio)
	require.NoError(t, err)
	assert.Equal(t, "RIFF wav data", string(data))
}

func TestDocumentIsACopy(t *testing.T) {
	dir := t.TempDir()
	wav := filepath.Join(dir, "12345-67890.wav")
	writeFile(t, wav, "RIFF")

	c, err := Load(wav, Options{})
	require.NoError(t, err)

	doc := c.Document()
	doc["transcript"] = "tampered"

	_, ok := c.Get("transcript")
	assert.False(t, ok)

	c.Set("transcript", "twenty twenty university")
	transcript, _ := c.Get("transcript")
	assert.Equal(t, "twenty twenty university", transcript)
}
