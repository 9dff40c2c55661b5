package export

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"knewkarma/pkg/config"
	"knewkarma/pkg/logger"
	"knewkarma/pkg/normalize"
)

// TimestampLayout names exported files
const TimestampLayout = "2006-01-02_15-04-05"

// Dataset is the output of one retrieval, addressed by mode and action
// (for example "user" and "posts")
type Dataset struct {
	Mode   string
	Action string
	// Target prefixes the file name when several entities are exported by
	// the same run
	Target  string
	Records []normalize.Record
	Single  bool
}

// Written describes one exported file
type Written struct {
	Format string
	Path   string
	Size   int64
}

// Manager writes datasets under a base directory
type Manager struct {
	outputDir string
	now       func() time.Time
	logger    logger.Logger
}

// NewManager creates a new export manager rooted at outputDir
func NewManager(outputDir string, log logger.Logger) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{
		outputDir: outputDir,
		now:       time.Now,
		logger:    logger.OrNop(log),
	}, nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// Export writes ds once per format to
// <dir>/<mode>/<action>/<format>/[<target>_]<timestamp>.<format>. All formats are
// checked before anything is written.
func (m *Manager) Export(ds Dataset, formats []string) ([]Written, error) {
	for _, f := range formats {
		if !isSupported(f) {
			return nil, fmt.Errorf("unsupported export format %q (supported: %s)", f, strings.Join(config.ValidExportFormats, ", "))
		}
	}

	stamp := m.now().Format(TimestampLayout)
	if ds.Target != "" {
		stamp = ds.Target + "_" + stamp
	}
	written := make([]Written, 0, len(formats))
	for _, format := range formats {
		var buf bytes.Buffer
		if err := encode(&buf, ds, format); err != nil {
			return written, fmt.Errorf("failed to encode %s: %w", format, err)
		}

		dir := filepath.Join(m.outputDir, ds.Mode, ds.Action, format)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return written, fmt.Errorf("failed to create export directory: %w", err)
		}
		path := filepath.Join(dir, stamp+"."+format)
		size := int64(buf.Len())
		if err := writeFile(path, &buf); err != nil {
			return written, err
		}

		w := Written{Format: format, Path: path, Size: size}
		written = append(written, w)

		m.logger.InfoWithFields("dataset exported", map[string]interface{}{
			"mode":   ds.Mode,
			"action": ds.Action,
			"target": ds.Target,
			"format": format,
			"path":   path,
			"bytes":  w.Size,
		})
	}
	return written, nil
}

func isSupported(format string) bool {
	for _, f := range config.ValidExportFormats {
		if f == format {
			return true
		}
	}
	return false
}

func encode(w io.Writer, ds Dataset, format string) error {
	switch format {
	case "json":
		return encodeJSON(w, ds)
	case "xml":
		return encodeXML(w, ds)
	}

	t := NewTable(ds.Records, ds.Single, "")
	var out string
	switch format {
	case "csv":
		out = t.RenderCSV()
	case "html":
		out = t.RenderHTML()
	case "md":
		out = t.RenderMarkdown()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

func encodeJSON(w io.Writer, ds Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if ds.Single && len(ds.Records) > 0 {
		return enc.Encode(ds.Records[0])
	}
	records := ds.Records
	if records == nil {
		records = []normalize.Record{}
	}
	return enc.Encode(records)
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlRow struct {
	XMLName xml.Name `xml:"row"`
	Fields  []xmlField
}

type xmlDocument struct {
	XMLName xml.Name `xml:"data"`
	Rows    []xmlRow
}

func encodeXML(w io.Writer, ds Dataset) error {
	doc := xmlDocument{Rows: make([]xmlRow, 0, len(ds.Records))}
	for _, r := range ds.Records {
		fields := r.Fields()
		row := xmlRow{Fields: make([]xmlField, len(fields))}
		for i, f := range fields {
			row.Fields[i] = xmlField{XMLName: xml.Name{Local: f.Name}, Value: Cell(f.Value, "")}
		}
		doc.Rows = append(doc.Rows, row)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// writeFile writes r to path through a temporary file and a rename, so a
// reader never sees a partial export
func writeFile(path string, r io.Reader) error {
	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write export data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
