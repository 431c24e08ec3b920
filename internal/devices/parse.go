package devices

import "strings"

// ParseDShowDevices extracts video device names from ffmpeg's DirectShow
// device listing. Newer ffmpeg marks each entry with "(video)"; older
// builds group entries under section headers instead, so a fallback pass
// handles those. "Alternative name" lines carry the unusable moniker form
// and are skipped in both passes.
func ParseDShowDevices(output string) []string {
	lines := strings.Split(output, "\n")

	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" || strings.Contains(s, "Alternative name") {
			continue
		}
		if strings.Contains(s, "(video)") {
			add(quotedName(s))
		}
	}
	if len(names) > 0 {
		return names
	}

	capture := false
	for _, line := range lines {
		s := strings.TrimSpace(line)
		switch {
		case s == "":
			continue
		case strings.Contains(s, "DirectShow video devices"):
			capture = true
			continue
		case strings.Contains(s, "DirectShow audio devices"):
			capture = false
			continue
		}
		if !capture || strings.Contains(s, "Alternative name") {
			continue
		}
		add(quotedName(s))
	}
	return names
}

// quotedName returns the text between the first and last double quote, or
// "" when the line has no quoted span.
func quotedName(s string) string {
	first := strings.Index(s, `"`)
	last := strings.LastIndex(s, `"`)
	if first == -1 || last <= first {
		return ""
	}
	return s[first+1 : last]
}
