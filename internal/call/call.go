// Package call models trunk-recorder call recordings and the metadata that
// rides alongside them. A call is a WAV file, an optional JSON call log with
// the same basename, and optional talkgroup enrichment cached by a prior
// talkgroups load.
package call

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Options adjusts how a call is loaded.
type Options struct {
	// BaseURL, when set, replaces the file:// URL for calls laid out in the
	// trunk-recorder directory scheme so indexed documents link to served
	// media instead of local paths.
	BaseURL string
	// DataDir is where talkgroup data was cached by LoadTalkgroups.
	DataDir string
}

// Call is one recorded call and its metadata document.
type Call struct {
	// Path is the WAV file location.
	Path string
	// Key is the WAV basename without extension, used as the document id.
	Key string

	fields map[string]any
}

// trunkRecorderPath matches the shortName/YYYY/M/D layout trunk-recorder
// writes recordings into.
var trunkRecorderPath = regexp.MustCompile(`(\w+)/\d{4}/\d+/\d+/`)

// Load reads a call recording's metadata. The WAV itself is not opened; use
// Audio for that. A sidecar JSON call log with the same basename is merged
// into the document when present, and its talkgroup id is expanded from the
// cached talkgroups data when available.
func Load(wavPath string, opts Options) (*Call, error) {
	fi, err := os.Stat(wavPath)
	if err != nil {
		return nil, eris.Wrapf(err, "call: stat %s", wavPath)
	}

	abs, err := filepath.Abs(wavPath)
	if err != nil {
		return nil, eris.Wrapf(err, "call: resolve %s", wavPath)
	}

	ext := filepath.Ext(wavPath)
	basename := strings.TrimSuffix(wavPath, ext)
	key := filepath.Base(basename)

	c := &Call{
		Path: wavPath,
		Key:  key,
		fields: map[string]any{
			"created": fi.ModTime().UTC(),
			"url":     "file://" + abs,
		},
	}

	// Calls laid out the trunk-recorder way carry the system shortName in
	// their path.
	suffix := regexp.MustCompile(trunkRecorderPath.String() + regexp.QuoteMeta(key) + `$`)
	if m := suffix.FindStringSubmatch(filepath.ToSlash(basename)); m != nil {
		c.fields["system"] = m[1]
		if opts.BaseURL != "" {
			c.fields["url"] = strings.TrimRight(opts.BaseURL, "/") + "/" + m[0] + ext
		}
	}

	if err := c.mergeCallLog(basename + ".json"); err != nil {
		return nil, err
	}

	if tg, ok := c.fields["talkgroup"]; ok && opts.DataDir != "" {
		c.fields["talkgroup"] = lookupTalkgroup(opts.DataDir, tg)
	}

	return c, nil
}

// mergeCallLog folds the trunk-recorder call log into the document. A
// missing log is fine; a malformed one is not.
func (c *Call) mergeCallLog(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrapf(err, "call: read call log %s", path)
	}

	var log map[string]any
	if err := json.Unmarshal(data, &log); err != nil {
		return eris.Wrapf(err, "call: parse call log %s", path)
	}
	for k, v := range log {
		c.fields[k] = v
	}

	start, okStart := numberField(log, "start_time")
	stop, okStop := numberField(log, "stop_time")
	if okStart && okStop {
		c.fields["duration"] = stop - start
		c.fields["start_time"] = time.Unix(start, 0).UTC()
		c.fields["stop_time"] = time.Unix(stop, 0).UTC()
	}
	return nil
}

func numberField(m map[string]any, key string) (int64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// Created is the call's creation time, used to pick the daily index.
func (c *Call) Created() time.Time {
	if t, ok := c.fields["created"].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// Get reads a document field.
func (c *Call) Get(key string) (any, bool) {
	v, ok := c.fields[key]
	return v, ok
}

// Set writes a document field, such as a transcript or detected location.
func (c *Call) Set(key string, value any) {
	c.fields[key] = value
}

// Document returns a copy of the metadata document for indexing.
func (c *Call) Document() map[string]any {
	doc := make(map[string]any, len(c.fields))
	for k, v := range c.fields {
		doc[k] = v
	}
	return doc
}

// Audio opens the WAV data. The caller owns the handle.
func (c *Call) Audio() (io.ReadCloser, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "call: open audio %s", c.Path)
	}
	return f, nil
}
