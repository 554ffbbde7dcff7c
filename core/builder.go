package core

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ministryofjustice/pamo-utilities/config"
)

// Build loads the configuration at configPath and writes the workbook it
// describes. registry supplies the callables for registry-style sources;
// an empty baseDir defaults to the config file's directory. A failure in
// any sheet aborts the whole build.
func Build(configPath string, registry map[string]SourceFunc, baseDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if baseDir == "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		baseDir = filepath.Dir(abs)
	}

	_, err = BuildConfig(cfg, registry, baseDir)
	return err
}

// BuildConfig renders a pre-parsed configuration into a workbook and
// returns the path it was written to.
func BuildConfig(cfg *config.ReportConfig, registry map[string]SourceFunc, baseDir string) (outputPath string, err error) {
	if baseDir == "" {
		if baseDir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("failed to resolve base directory: %w", err)
		}
	}

	if verr := config.NewValidator().ValidateReport(cfg); verr != nil {
		return "", fmt.Errorf("%w: %v", ErrConfig, verr)
	}

	// Search-path registration is process-wide and idempotent.
	for _, p := range cfg.Imports.Paths {
		dir := os.ExpandEnv(p)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, dir)
		}
		AddSearchPath(dir)
	}

	f := newExcelFile()
	defer func(f ExcelFile) {
		if closeErr := f.Close(); closeErr != nil {
			if err == nil {
				err = fmt.Errorf("failed to close workbook: %w", closeErr)
			} else {
				err = fmt.Errorf("%w; (cleanup error: %v)", err, closeErr)
			}
		}
	}(f)

	styles, err := newElementStyles(f, &cfg.Defaults)
	if err != nil {
		return "", err
	}
	formats, err := NewFormatResolver(f, &cfg.Formats)
	if err != nil {
		return "", err
	}

	spacing := 2
	if cfg.Defaults.SpacingRows != nil {
		spacing = *cfg.Defaults.SpacingRows
	}

	resolver := &Resolver{BaseDir: baseDir, Registry: registry}
	defer func() {
		_ = resolver.Close()
	}()

	for i := range cfg.Sheets {
		sheetCfg := &cfg.Sheets[i]

		// The first configured sheet takes over the workbook's default sheet.
		if i == 0 {
			if sheetCfg.Name != "Sheet1" {
				if err := f.SetSheetName("Sheet1", sheetCfg.Name); err != nil {
					return "", fmt.Errorf("failed to rename default sheet: %w", err)
				}
			}
		} else {
			if _, err := f.NewSheet(sheetCfg.Name); err != nil {
				return "", fmt.Errorf("failed to create sheet %s: %w", sheetCfg.Name, err)
			}
		}

		layout := &sheetLayout{
			file:       f,
			sheet:      sheetCfg.Name,
			styles:     styles,
			formats:    formats,
			resolver:   resolver,
			tableStyle: cfg.Defaults.TableStyle,
			spacing:    spacing,
		}
		if err := layout.render(sheetCfg); err != nil {
			return "", fmt.Errorf("rendering sheet %s: %w", sheetCfg.Name, err)
		}
	}

	// UX: Reset view to A1 for all sheets and set first sheet active
	if sheets := f.GetSheetList(); len(sheets) > 0 {
		for _, sheet := range sheets {
			// Ignore error for SetSelection as it's UX improvement
			_ = f.SetSelection(sheet, "A1")
		}
		f.SetActiveSheet(0)
	}

	outputPath = os.ExpandEnv(cfg.Workbook.Output)
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(baseDir, outputPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save output: %w", err)
	}

	slog.Info("Workbook written", "path", outputPath, "sheets", len(cfg.Sheets))
	return outputPath, nil
}
