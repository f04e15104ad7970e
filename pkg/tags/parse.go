package tags

import (
	"bufio"
	"regexp"
	"strings"
)

// lsRemoteLine matches one ls-remote entry for a strict semver tag. The
// optional "^{}" suffix is the peeled commit of an annotated tag.
var lsRemoteLine = regexp.MustCompile(
	`^[0-9a-fA-F]{40}\s+refs/tags/(v?(?:0|[1-9][0-9]*)\.(?:0|[1-9][0-9]*)\.(?:0|[1-9][0-9]*))(?:\^\{\})?$`)

// Parse extracts the distinct strict semver tags from ls-remote output,
// in order of first occurrence.
func Parse(raw string) []string {
	var tags []string
	seen := make(map[string]bool)

	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		m := lsRemoteLine.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		if tag := m[1]; !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}
