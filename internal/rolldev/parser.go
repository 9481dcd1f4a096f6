// Package rolldev understands the console output of the RollDev CLI.
package rolldev

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// ANSI color sequences as emitted by RollDev: ESC [ digits/semicolons m.
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

	// Project header: "<name> a <flavor> project", e.g.
	// "mystore a magento2 project".
	projectPattern = regexp.MustCompile(`^(\S+) a (\S+) project$`)

	containersPattern = regexp.MustCompile(`^Containers Running:\s*(\d+)$`)
)

// Banner and no-result lines that carry no environment fields.
var skipPhrases = []string{
	"No running environments found",
	"Found the following",
	"RollDev Services",
}

const (
	pathPrefix    = "Project Directory:"
	urlPrefix     = "Project URL:"
	networkPrefix = "Docker Network:"
)

// ParseStatus converts the raw output of `rolldev status` into the
// ordered list of environments it describes.
//
// Records accumulate field by field and close the moment a
// "Containers Running" line is seen while a project name is set; the
// service table that follows (any line containing both NAME and STATE)
// ends the scan. A project header only overwrites the name slot, so
// path/url/network left over from a block that never closed leak into
// the next record. That matches the CLI's real output, where a block
// always closes before the next header; changing it would alter what
// gets reported for malformed input.
func ParseStatus(raw string) []Environment {
	var envs []Environment
	var cur Environment

	for _, sourceLine := range strings.Split(raw, "\n") {
		line := strings.TrimSpace(ansiPattern.ReplaceAllString(sourceLine, ""))
		if line == "" || isSkippable(line) {
			continue
		}

		// The service container table marks the end of project blocks.
		if strings.Contains(line, "NAME") && strings.Contains(line, "STATE") {
			break
		}

		if m := projectPattern.FindStringSubmatch(line); m != nil {
			cur.Name = m[1]
			continue
		}

		switch {
		case strings.HasPrefix(line, pathPrefix):
			cur.Path = strings.TrimSpace(strings.TrimPrefix(line, pathPrefix))
		case strings.HasPrefix(line, urlPrefix):
			cur.URL = strings.TrimSpace(strings.TrimPrefix(line, urlPrefix))
		case strings.HasPrefix(line, networkPrefix):
			cur.Network = strings.TrimSpace(strings.TrimPrefix(line, networkPrefix))
		default:
			if m := containersPattern.FindStringSubmatch(line); m != nil && cur.Name != "" {
				count, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				cur.Containers = count
				cur.Raw = sourceLine
				envs = append(envs, cur)
				cur = Environment{}
			}
		}
	}

	return envs
}

func isSkippable(line string) bool {
	for _, phrase := range skipPhrases {
		if strings.Contains(line, phrase) {
			return true
		}
	}
	return false
}
