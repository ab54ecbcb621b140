package proc

import (
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// Browsers that keep their own resolver cache, so an already-running
// instance may keep reaching a domain after its hosts entry changes.
var browserNames = []string{
	"firefox",
	"chrome",
	"chromium",
	"brave",
	"msedge",
	"safari",
	"opera",
	"vivaldi",
}

// RunningBrowsers returns the distinct browser process names currently
// running. Per-process read errors are skipped; a process that died
// mid-scan is not worth failing the whole block for.
func RunningBrowsers() ([]string, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		lower := strings.ToLower(name)
		for _, b := range browserNames {
			if strings.Contains(lower, b) {
				seen[b] = true
			}
		}
	}

	var found []string
	for b := range seen {
		found = append(found, b)
	}
	sort.Strings(found)
	return found, nil
}
