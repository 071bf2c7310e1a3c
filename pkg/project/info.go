package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// Marker is one expected file or directory and whether it was found.
type Marker struct {
	Path    string // As configured; a trailing "/" means directory
	IsDir   bool
	Present bool
	Size    uint64 // File size in bytes, 0 for directories
}

// Info describes a project folder.
type Info struct {
	Dir     string
	Exists  bool
	Markers []Marker
}

// Inspect stats every marker under dir. A marker whose kind does not match
// (a file where a directory is expected, or the reverse) counts as absent.
func Inspect(dir string, markers []string) Info {
	info := Info{Dir: dir}
	if st, err := os.Stat(dir); err == nil && st.IsDir() {
		info.Exists = true
	}

	for _, m := range markers {
		wantDir := strings.HasSuffix(m, "/")
		marker := Marker{Path: m, IsDir: wantDir}

		if info.Exists {
			rel := filepath.FromSlash(strings.TrimSuffix(m, "/"))
			if st, err := os.Stat(filepath.Join(dir, rel)); err == nil && st.IsDir() == wantDir {
				marker.Present = true
				if !wantDir {
					marker.Size = uint64(st.Size())
				}
			}
		}

		info.Markers = append(info.Markers, marker)
	}

	return info
}

// Missing returns the markers that were not found.
func (i Info) Missing() []Marker {
	var out []Marker
	for _, m := range i.Markers {
		if !m.Present {
			out = append(out, m)
		}
	}
	return out
}

// Lines returns one "✓ path" or "✗ path" line per marker.
func (i Info) Lines() []string {
	lines := make([]string, 0, len(i.Markers))
	for _, m := range i.Markers {
		icon := "✗"
		if m.Present {
			icon = "✓"
		}
		line := fmt.Sprintf("%s %s", icon, m.Path)
		if m.Present && !m.IsDir {
			line += fmt.Sprintf(" (%s)", humanize.Bytes(m.Size))
		}
		lines = append(lines, line)
	}
	return lines
}

// Render returns the folder line followed by the marker lines.
func (i Info) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project folder: %s\n", i.Dir)
	if !i.Exists {
		b.WriteString("Folder does not exist.\n")
		return b.String()
	}
	for _, line := range i.Lines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
