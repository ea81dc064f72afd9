// Package featureflags evaluates per-viewer feature flags from configuration.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// ActivityFeed selects the activity strategy as the default feed when enabled;
// viewers outside the rollout get the chronological feed.
const ActivityFeed = "activity_feed"

type rule struct {
	enabled bool
	percent int // -1 when the rule is a plain on/off switch
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "activity_feed=on" or "activity_feed=25%"
type Manager struct {
	rules map[string]rule
}

// NewManager creates a feature-flag manager from a comma-separated config
// string. Malformed pairs are ignored.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		if r, ok := parseRule(value); ok {
			rules[key] = r
		}
	}

	return &Manager{rules: rules}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{enabled: true, percent: -1}, true
	case "off", "false", "0":
		return rule{enabled: false, percent: -1}, true
	}
	if pctRaw, ok := strings.CutSuffix(value, "%"); ok {
		pct, err := strconv.Atoi(pctRaw)
		if err != nil {
			return rule{}, false
		}
		return rule{percent: min(max(pct, 0), 100)}, true
	}
	return rule{}, false
}

// Defined reports whether the flag is configured at all.
func (m *Manager) Defined(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.rules[normalize(name)]
	return ok
}

// Enabled returns whether a flag is enabled for a given viewer.
// Percentage rollouts are deterministic per viewer and never include the
// anonymous viewer (id 0) below 100%.
func (m *Manager) Enabled(name string, viewerID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	if r.percent < 0 {
		return r.enabled
	}
	switch {
	case r.percent == 0:
		return false
	case r.percent == 100:
		return true
	case viewerID == 0:
		return false
	}
	return rolloutBucket(name, viewerID) < r.percent
}

// Snapshot returns evaluated flag status for one viewer.
func (m *Manager) Snapshot(viewerID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, viewerID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, viewerID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), viewerID)))
	return int(h.Sum32() % 100)
}
