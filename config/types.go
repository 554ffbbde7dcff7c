package config

// Source type constants for tabular sources. File-image types are matched by
// extension name instead (see IsImageType).
const (
	SourceTypeCSV      = "csv"
	SourceTypeExcel    = "excel"
	SourceTypeSQL      = "sql"
	SourceTypeDynamoDB = "dynamodb"
)

// ImageSourceTypes are the file-based image source types.
var ImageSourceTypes = []string{"gif", "jpg", "jpeg", "png", "tif", "tiff"}

// CallableSourceTypes are the aliases for dynamically resolved sources.
var CallableSourceTypes = []string{"function", "callable", "dynamic"}

// WorkbookConfig：workbook output config
type WorkbookConfig struct {
	Output string `toml:"output" yaml:"output"`
}

// Defaults：workbook-wide fallback values. Absent values are replaced by the
// loader (title 14, subtitle 12, footnote 9, "Table Style Light 1", 2 rows).
// SpacingRows is a pointer so an explicit 0 is honored.
type Defaults struct {
	TitleFontSize    float64 `toml:"title_font_size,omitempty"    yaml:"title_font_size,omitempty"`
	SubtitleFontSize float64 `toml:"subtitle_font_size,omitempty" yaml:"subtitle_font_size,omitempty"`
	FootnoteFontSize float64 `toml:"footnote_font_size,omitempty" yaml:"footnote_font_size,omitempty"`
	TableStyle       string  `toml:"table_style,omitempty"        yaml:"table_style,omitempty"`
	SpacingRows      *int    `toml:"spacing_rows,omitempty"       yaml:"spacing_rows,omitempty"`
}

// Imports：search-path entries for dynamic source resolution, relative to
// the config file's directory.
type Imports struct {
	Paths []string `toml:"paths,omitempty" yaml:"paths,omitempty"`
}

// FormatSpec：a reusable number-format / column-width pair. A nil Width
// means "not declared" and falls through to the next step of the width
// precedence chain.
type FormatSpec struct {
	NumFormat string   `toml:"num_format,omitempty" yaml:"num_format,omitempty"`
	Width     *float64 `toml:"width,omitempty"      yaml:"width,omitempty"`
}

// Matcher：assigns a named format to columns whose name contains the regex
// pattern. Matchers are evaluated in declaration order, first match wins.
type Matcher struct {
	Pattern string `toml:"pattern" yaml:"pattern"`
	Format  string `toml:"format"  yaml:"format"`
}

// FormatConfig：column formatting rules for the whole workbook.
type FormatConfig struct {
	Default  *FormatSpec           `toml:"default,omitempty"  yaml:"default,omitempty"`
	Named    map[string]FormatSpec `toml:"named,omitempty"    yaml:"named,omitempty"`
	Matchers []Matcher             `toml:"matchers,omitempty" yaml:"matchers,omitempty"`
}

// SourceConfig：tagged variant describing where a table or image comes from.
// Exactly one resolution strategy must be populated for callable types:
// Registry, Dotted, or the legacy Module+Function pair.
type SourceConfig struct {
	Type string `toml:"type" yaml:"type"`

	// File sources (csv, excel, image types)
	Path  string `toml:"path,omitempty"  yaml:"path,omitempty"`
	Sheet string `toml:"sheet,omitempty" yaml:"sheet,omitempty"` // excel only; empty selects the first sheet

	// Callable sources
	Registry string         `toml:"registry,omitempty" yaml:"registry,omitempty"`
	Dotted   string         `toml:"dotted,omitempty"   yaml:"dotted,omitempty"`
	Module   string         `toml:"module,omitempty"   yaml:"module,omitempty"`
	Function string         `toml:"function,omitempty" yaml:"function,omitempty"`
	Kwargs   map[string]any `toml:"kwargs,omitempty"   yaml:"kwargs,omitempty"`
	Key      string         `toml:"key,omitempty"      yaml:"key,omitempty"` // selects an entry when the callable returns a mapping

	// SQL sources (Table doubles as the table name when Query is empty)
	Driver string `toml:"driver,omitempty" yaml:"driver,omitempty"`
	DSN    string `toml:"dsn,omitempty"    yaml:"dsn,omitempty"`
	Query  string `toml:"query,omitempty"  yaml:"query,omitempty"`

	// DynamoDB sources
	Table   string   `toml:"table,omitempty"   yaml:"table,omitempty"`
	Region  string   `toml:"region,omitempty"  yaml:"region,omitempty"`
	Columns []string `toml:"columns,omitempty" yaml:"columns,omitempty"`
}

// TableConfig：one table placed on a sheet.
type TableConfig struct {
	StartCell    string             `toml:"start_cell,omitempty"    yaml:"start_cell,omitempty"` // A1 notation; overrides the running cursor
	Source       SourceConfig       `toml:"source"                  yaml:"source"`
	Title        string             `toml:"title,omitempty"         yaml:"title,omitempty"`
	Style        string             `toml:"style,omitempty"         yaml:"style,omitempty"`
	ColumnWidths map[string]float64 `toml:"column_widths,omitempty" yaml:"column_widths,omitempty"`
	Notes        []string           `toml:"notes,omitempty"         yaml:"notes,omitempty"`
}

// ChartConfig：one embedded image placed on a sheet.
type ChartConfig struct {
	StartCell      string       `toml:"start_cell,omitempty"       yaml:"start_cell,omitempty"`
	Source         SourceConfig `toml:"source"                     yaml:"source"`
	Title          string       `toml:"title,omitempty"            yaml:"title,omitempty"`
	XScale         float64      `toml:"x_scale,omitempty"          yaml:"x_scale,omitempty"` // 0 means 1.0
	YScale         float64      `toml:"y_scale,omitempty"          yaml:"y_scale,omitempty"`
	Notes          []string     `toml:"notes,omitempty"            yaml:"notes,omitempty"`
	NotesStartCell string       `toml:"notes_start_cell,omitempty" yaml:"notes_start_cell,omitempty"`
}

// SheetConfig：one worksheet, consumed once during layout.
type SheetConfig struct {
	Name                  string        `toml:"name"                              yaml:"name"`
	Header                string        `toml:"header,omitempty"                  yaml:"header,omitempty"`
	Footer                string        `toml:"footer,omitempty"                  yaml:"footer,omitempty"`
	ProtectiveMarking     string        `toml:"protective_marking,omitempty"      yaml:"protective_marking,omitempty"`
	ProtectiveMarkingSpan int           `toml:"protective_marking_span,omitempty" yaml:"protective_marking_span,omitempty"` // 0 means 10
	Title                 string        `toml:"title,omitempty"                   yaml:"title,omitempty"`
	Tables                []TableConfig `toml:"tables,omitempty"                  yaml:"tables,omitempty"`
	Charts                []ChartConfig `toml:"charts,omitempty"                  yaml:"charts,omitempty"`
	Footnotes             []string      `toml:"footnotes,omitempty"               yaml:"footnotes,omitempty"`
}

// ReportConfig：root configuration for one workbook build.
type ReportConfig struct {
	Workbook WorkbookConfig `toml:"workbook"           yaml:"workbook"`
	Defaults Defaults       `toml:"defaults,omitempty" yaml:"defaults,omitempty"`
	Formats  FormatConfig   `toml:"formats,omitempty"  yaml:"formats,omitempty"`
	Imports  Imports        `toml:"imports,omitempty"  yaml:"imports,omitempty"`
	Sheets   []SheetConfig  `toml:"sheets,omitempty"   yaml:"sheets,omitempty"`
}

// IsImageType reports whether t is a file-based image source type.
func IsImageType(t string) bool {
	for _, it := range ImageSourceTypes {
		if t == it {
			return true
		}
	}
	return false
}

// IsCallableType reports whether t is a dynamically resolved source type.
func IsCallableType(t string) bool {
	for _, ct := range CallableSourceTypes {
		if t == ct {
			return true
		}
	}
	return false
}
