// Package settings reads and rewrites the [bed_mesh] section of a Klipper
// settings file, preserving all unrelated content.
package settings

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"mesh-regions/internal/region"
	"mesh-regions/pkg/geometry"
)

// Settings holds the [bed_mesh] values the editor cares about. The three
// scalar fields keep their raw config text so round-tripping does not
// reformat user input.
type Settings struct {
	MeshMin    string
	MeshMax    string
	ProbeCount string
	Regions    []region.Region
}

var (
	sectionRe      = regexp.MustCompile(`(?ms)^\[bed_mesh\][ \t]*\r?\n(.*?)(?:^\[|\z)`)
	faultyRegionRe = regexp.MustCompile(`^faulty_region_(\d+)_(min|max):\s*(.*)$`)
)

// Parse extracts bed mesh settings from config file content. A missing
// [bed_mesh] section yields empty settings, not an error; malformed
// faulty_region pairs are skipped.
func Parse(content string) Settings {
	m := sectionRe.FindStringSubmatch(content)
	if m == nil {
		return Settings{}
	}
	body := m[1]

	s := Settings{
		MeshMin:    sectionValue(body, "mesh_min"),
		MeshMax:    sectionValue(body, "mesh_max"),
		ProbeCount: sectionValue(body, "probe_count"),
	}

	// Collect min/max lines keyed by their written region index, then emit
	// complete pairs in index order.
	type pair struct {
		min, max *geometry.Point2D
	}
	pairs := make(map[int]*pair)
	var indices []int
	for _, line := range strings.Split(body, "\n") {
		fm := faultyRegionRe.FindStringSubmatch(strings.TrimSpace(line))
		if fm == nil {
			continue
		}
		idx, _ := strconv.Atoi(fm[1])
		pt, err := ParsePair(fm[3])
		if err != nil {
			continue
		}
		p, ok := pairs[idx]
		if !ok {
			p = &pair{}
			pairs[idx] = p
			indices = append(indices, idx)
		}
		if fm[2] == "min" {
			p.min = &pt
		} else {
			p.max = &pt
		}
	}
	sort.Ints(indices)
	for _, idx := range indices {
		p := pairs[idx]
		if p.min != nil && p.max != nil {
			s.Regions = append(s.Regions, region.FromCorners(*p.min, *p.max))
		}
	}

	return s
}

// sectionValue returns the trimmed value of "key: value" within the section
// body, or "" if the key is absent.
func sectionValue(body, key string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(key) + `:[ \t]*(.*)`)
	m := re.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ParsePair parses "x, y" into a point.
func ParsePair(text string) (geometry.Point2D, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return geometry.Point2D{}, fmt.Errorf("expected \"x, y\", got %q", text)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Point2D{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Point2D{}, err
	}
	return geometry.Point2D{X: x, Y: y}, nil
}

// ParseCounts parses "x, y" into integer probe counts.
func ParseCounts(text string) (int, int, error) {
	p, err := ParsePair(text)
	if err != nil {
		return 0, 0, err
	}
	return int(p.X), int(p.Y), nil
}

// Update rewrites the [bed_mesh] section of content: the three scalar keys
// are replaced in place, all old faulty_region lines are removed, and the
// regions are re-emitted densely renumbered, inserted immediately before the
// horizontal_move_z key when present, otherwise appended to the section.
// Indentation and every unrelated line are preserved verbatim; nothing
// outside the section is touched.
func Update(content string, s Settings, regions []region.Region) (string, error) {
	loc := sectionRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", fmt.Errorf("no [bed_mesh] section found in settings file")
	}
	start, end := loc[2], loc[3]
	body := content[start:end]

	// Reproduce the section's own line endings and trailing terminator so
	// untouched lines stay byte-identical on CRLF files and at EOF.
	eol := "\n"
	if strings.Contains(body, "\r\n") {
		eol = "\r\n"
	}
	terminated := strings.HasSuffix(body, "\n")

	lines := strings.Split(body, "\n")
	// Trailing "" from the final newline; drop it so joining does not
	// duplicate it.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	// Detect the section's indentation from its first non-empty line.
	indent := ""
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			break
		}
	}

	regionLines := make([]string, 0, len(regions)*region.LinesPerRegion)
	for i, r := range regions {
		for _, l := range r.Format(i + 1) {
			regionLines = append(regionLines, indent+l)
		}
	}

	var out []string
	inserted := false
	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(stripped, "mesh_min:"):
			out = append(out, indent+"mesh_min: "+s.MeshMin)
			continue
		case strings.HasPrefix(stripped, "mesh_max:"):
			out = append(out, indent+"mesh_max: "+s.MeshMax)
			continue
		case strings.HasPrefix(stripped, "probe_count:"):
			out = append(out, indent+"probe_count: "+s.ProbeCount)
			continue
		case strings.HasPrefix(stripped, "faulty_region_"):
			continue
		}

		if !inserted && strings.HasPrefix(stripped, "horizontal_move_z:") {
			out = append(out, regionLines...)
			inserted = true
		}
		out = append(out, line)
	}
	if !inserted {
		out = append(out, regionLines...)
	}

	newBody := strings.Join(out, eol)
	if terminated {
		newBody += eol
	}
	return content[:start] + newBody + content[end:], nil
}
