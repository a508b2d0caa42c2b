package feed

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// stylesheetPI makes the raw XML feed human-viewable in a browser; feed.xsl
// is expected next to the published feed file
const stylesheetPI = `<?xml-stylesheet type="text/xsl" href="feed.xsl"?>`

//go:embed feed.xsl
var stylesheetXSL []byte

// Write stores a serialized feed at path.
func Write(path, serialized string) error {
	if err := os.WriteFile(path, []byte(serialized), 0o644); err != nil { //nolint:gosec // feed files are public artifacts
		return fmt.Errorf("write feed file: %w", err)
	}
	return nil
}

// WriteStylesheet drops the embedded feed.xsl into dir so the processing
// instruction injected by InjectStylesheet resolves when feeds are served
// from there.
func WriteStylesheet(dir string) error {
	path := filepath.Join(dir, "feed.xsl")
	if err := os.WriteFile(path, stylesheetXSL, 0o644); err != nil { //nolint:gosec // public asset
		return fmt.Errorf("write stylesheet: %w", err)
	}
	return nil
}

// InjectStylesheet inserts the xml-stylesheet processing instruction right
// after the XML declaration. Idempotent: a file that already references a
// stylesheet is left untouched.
func InjectStylesheet(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from config
	if err != nil {
		return fmt.Errorf("read feed file: %w", err)
	}
	content := string(data)

	if strings.Contains(content, "<?xml-stylesheet") {
		return nil
	}

	end := strings.Index(content, "?>")
	if end < 0 || !strings.HasPrefix(content, "<?xml") {
		return fmt.Errorf("feed file %s has no XML declaration", path)
	}
	insertAt := end + len("?>")
	// the declaration is usually followed by a newline, keep the PI on its own line
	if insertAt < len(content) && content[insertAt] == '\n' {
		insertAt++
	}

	updated := content[:insertAt] + stylesheetPI + "\n" + content[insertAt:]
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil { //nolint:gosec // feed files are public artifacts
		return fmt.Errorf("write feed file: %w", err)
	}
	return nil
}
