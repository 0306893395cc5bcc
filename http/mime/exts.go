package mime

import (
	"bufio"
	"io"
	"maps"
	"strings"

	"github.com/pkg/errors"
)

// Table maps lowercase file extensions, including the leading dot, to MIME types. Once
// built, a table is never modified, so it may be freely shared among connections.
type Table map[string]MIME

// Default is the table used unless another one is configured.
var Default = Table{
	".avif": AVIF,
	".css":  CSS,
	".gif":  GIF,
	".gz":   GZIP,
	".htm":  HTML,
	".html": HTML,
	".ico":  ICO,
	".jpeg": JPEG,
	".jpg":  JPEG,
	".js":   JS,
	".mjs":  JS,
	".json": JSON,
	".mp4":  MP4,
	".pdf":  PDF,
	".png":  PNG,
	".svg":  SVG,
	".txt":  Plain,
	".wasm": WASM,
	".webp": WEBP,
	".xml":  XML,
	".yaml": YAML,
	".yml":  YAML,
	".zip":  ZIP,
}

// Lookup returns the MIME type registered for the extension. Unknown or empty extensions
// are served as application/octet-stream.
func (t Table) Lookup(ext string) MIME {
	if mime, found := t[strings.ToLower(ext)]; found {
		return mime
	}

	return OctetStream
}

// With returns a copy of the table extended by the overrides. Keys are normalized, so
// both "TXT" and ".txt" are accepted.
func (t Table) With(overrides map[string]string) Table {
	if len(overrides) == 0 {
		return t
	}

	table := maps.Clone(t)
	if table == nil {
		table = make(Table, len(overrides))
	}

	for ext, mime := range overrides {
		table[normalize(ext)] = mime
	}

	return table
}

// ParseTypes reads a table in the "<ext> <type>" per line format. Empty lines and lines
// starting with # are skipped.
func ParseTypes(r io.Reader) (map[string]string, error) {
	types := make(map[string]string)
	scanner := bufio.NewScanner(r)

	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Errorf("mime types: line %d: want 2 fields, got %d", lineno, len(fields))
		}

		types[normalize(fields[0])] = fields[1]
	}

	return types, errors.Wrap(scanner.Err(), "mime types")
}

func normalize(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return ext
}
