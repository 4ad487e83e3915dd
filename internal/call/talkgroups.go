package call

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
)

// talkgroupsCache is where LoadTalkgroups writes under the data directory.
const talkgroupsCache = "talkgroups/talkgroups.json"

// LoadTalkgroups caches a talkgroups CSV under datadir for later call
// enrichment. The CSV must have a header row with a DEC column holding the
// decimal talkgroup id. Returns the number of records and fields cached.
func LoadTalkgroups(datadir, tgfile string) (int, int, error) {
	f, err := os.Open(tgfile)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "call: open talkgroups %s", tgfile)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return 0, 0, eris.Wrapf(err, "call: parse talkgroups %s", tgfile)
	}
	if len(rows) == 0 {
		return 0, 0, eris.Errorf("call: talkgroups %s has no header row", tgfile)
	}

	header := rows[0]
	decCol := -1
	for i, name := range header {
		if name == "DEC" {
			decCol = i
			break
		}
	}
	if decCol == -1 {
		return 0, 0, eris.New("call: DEC column is missing or not an int")
	}

	tgs := make(map[string]map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		dec, err := strconv.Atoi(row[decCol])
		if err != nil {
			return 0, 0, eris.New("call: DEC column is missing or not an int")
		}
		record := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		tgs[strconv.Itoa(dec)] = record
	}

	cachePath := filepath.Join(datadir, talkgroupsCache)
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return 0, 0, eris.Wrap(err, "call: create talkgroups cache dir")
	}
	data, err := json.Marshal(tgs)
	if err != nil {
		return 0, 0, eris.Wrap(err, "call: encode talkgroups cache")
	}
	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		return 0, 0, eris.Wrap(err, "call: write talkgroups cache")
	}

	return len(tgs), len(header), nil
}

// lookupTalkgroup expands a talkgroup id into its cached record. The raw id
// passes through unchanged when no cache or record exists.
func lookupTalkgroup(datadir string, id any) any {
	data, err := os.ReadFile(filepath.Join(datadir, talkgroupsCache))
	if err != nil {
		return id
	}

	var tgs map[string]map[string]string
	if err := json.Unmarshal(data, &tgs); err != nil {
		return id
	}

	key := talkgroupKey(id)
	if record, ok := tgs[key]; ok {
		return record
	}
	return id
}

// talkgroupKey renders a call-log talkgroup id the way the cache keys it.
// JSON numbers decode as float64.
func talkgroupKey(id any) string {
	switch v := id.(type) {
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
