package playstore

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Store pages embed their data as AF_initDataCallback({key: 'ds:N', ..., data: [...]}) blocks.
var (
	initDataScriptRe = regexp.MustCompile(`>AF_initDataCallback[\s\S]*?</script`)
	initDataKeyRe    = regexp.MustCompile(`(ds:\d+)`)
	initDataValueRe  = regexp.MustCompile(`data:([\s\S]*?), sideChannel: \{\}\}\);</`)
)

// scriptData maps a ds:N key to its parsed payload.
type scriptData map[string]gjson.Result

func parseScriptData(html []byte) scriptData {
	out := scriptData{}
	for _, block := range initDataScriptRe.FindAll(html, -1) {
		key := initDataKeyRe.FindSubmatch(block)
		value := initDataValueRe.FindSubmatch(block)
		if key == nil || value == nil {
			continue
		}
		raw := strings.TrimSpace(string(value[1]))
		if !gjson.Valid(raw) {
			continue
		}
		out[string(key[1])] = gjson.Parse(raw)
	}
	return out
}

// get resolves a dotted index path ("1.2.0.0") inside a ds block.
func (d scriptData) get(key, path string) gjson.Result {
	block, ok := d[key]
	if !ok {
		return gjson.Result{}
	}
	return block.Get(path)
}

func (d scriptData) has(key string) bool {
	block, ok := d[key]
	return ok && block.Exists()
}
