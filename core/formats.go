package core

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ministryofjustice/pamo-utilities/config"
)

// Autosize bounds. Sampling stops after the first 200 non-missing values so
// large tables are not scanned end to end; the result is deterministic for
// a fixed row order.
const (
	autosizeMinWidth  = 10.0
	autosizeMaxWidth  = 40.0
	autosizeSampleLen = 200
)

type compiledMatcher struct {
	re     *regexp.Regexp
	format string
}

// FormatResolver resolves per-column display formats and widths from a
// FormatConfig. Style objects are memoized by format name, scoped to one
// build invocation.
type FormatResolver struct {
	file        ExcelFile
	defaultSpec config.FormatSpec
	named       map[string]config.FormatSpec
	matchers    []compiledMatcher
	cache       map[string]int
}

// NewFormatResolver compiles the matcher patterns once for the build.
func NewFormatResolver(file ExcelFile, cfg *config.FormatConfig) (*FormatResolver, error) {
	defaultSpec := config.FormatSpec{Width: floatPtr(14)}
	if cfg.Default != nil {
		defaultSpec = *cfg.Default
	}

	r := &FormatResolver{
		file:        file,
		defaultSpec: defaultSpec,
		named:       cfg.Named,
		cache:       make(map[string]int),
	}
	for _, m := range cfg.Matchers {
		re, err := regexp.Compile(m.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid matcher pattern '%s': %v", ErrConfig, m.Pattern, err)
		}
		r.matchers = append(r.matchers, compiledMatcher{re: re, format: m.Format})
	}
	return r, nil
}

// FormatName returns the name of the first matcher whose pattern is found
// anywhere in the column name, or "" when none match. First-match policy,
// not best-match.
func (r *FormatResolver) FormatName(column string) string {
	for _, m := range r.matchers {
		if m.re.MatchString(column) {
			return m.format
		}
	}
	return ""
}

// StyleID returns a workbook style carrying the named spec's number format
// ("" selects the default spec). Repeated columns sharing a format reuse
// one underlying style object.
func (r *FormatResolver) StyleID(name string) (int, error) {
	if id, ok := r.cache[name]; ok {
		return id, nil
	}

	spec := r.spec(name)
	style := &excelize.Style{}
	if spec.NumFormat != "" {
		numFmt := spec.NumFormat
		style.CustomNumFmt = &numFmt
	}

	id, err := r.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create style for format '%s': %w", name, err)
	}
	r.cache[name] = id
	return id, nil
}

// Width resolves a column's width: explicit per-table override, then the
// matched named format's width, then the default spec's width, then
// content-based autosize.
func (r *FormatResolver) Width(column, formatName string, overrides map[string]float64, t *Table) float64 {
	if w, ok := overrides[column]; ok {
		return w
	}
	if formatName != "" {
		if spec, ok := r.named[formatName]; ok && spec.Width != nil {
			return *spec.Width
		}
	}
	if r.defaultSpec.Width != nil {
		return *r.defaultSpec.Width
	}
	return autosizeWidth(column, t)
}

func (r *FormatResolver) spec(name string) config.FormatSpec {
	if name == "" {
		return r.defaultSpec
	}
	if spec, ok := r.named[name]; ok {
		return spec
	}
	return r.defaultSpec
}

// autosizeWidth estimates a width from the header and a bounded sample of
// stringified values, clamped to [autosizeMinWidth, autosizeMaxWidth].
// Lengths are counted in runes, not bytes.
func autosizeWidth(column string, t *Table) float64 {
	maxLen := utf8.RuneCountInString(column)
	idx := t.Column(column)
	if idx >= 0 {
		sampled := 0
		for _, row := range t.Rows {
			if sampled >= autosizeSampleLen {
				break
			}
			if idx >= len(row) || row[idx] == nil {
				continue
			}
			sampled++
			if l := utf8.RuneCountInString(fmt.Sprintf("%v", row[idx])); l > maxLen {
				maxLen = l
			}
		}
	}

	width := float64(maxLen + 2)
	if width < autosizeMinWidth {
		width = autosizeMinWidth
	}
	if width > autosizeMaxWidth {
		width = autosizeMaxWidth
	}
	return width
}

func floatPtr(v float64) *float64 {
	return &v
}
