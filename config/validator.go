package config

import (
	"fmt"
	"regexp"
)

// Validator validates the configuration objects.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateReport validates the ReportConfig.
func (v *Validator) ValidateReport(cfg *ReportConfig) error {
	if cfg.Workbook.Output == "" {
		return fmt.Errorf("workbook output path is required")
	}
	if err := v.ValidateFormats(&cfg.Formats); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(cfg.Sheets))
	for i := range cfg.Sheets {
		sheet := &cfg.Sheets[i]
		if _, dup := seen[sheet.Name]; dup {
			return fmt.Errorf("duplicate sheet name '%s'", sheet.Name)
		}
		seen[sheet.Name] = struct{}{}
		if err := v.ValidateSheet(sheet); err != nil {
			return fmt.Errorf("sheet %d error: %w", i, err)
		}
	}
	return nil
}

// ValidateFormats validates the FormatConfig.
func (v *Validator) ValidateFormats(fc *FormatConfig) error {
	for i, m := range fc.Matchers {
		if m.Pattern == "" {
			return fmt.Errorf("format matcher %d pattern is required", i)
		}
		if _, err := regexp.Compile(m.Pattern); err != nil {
			return fmt.Errorf("format matcher %d has invalid pattern '%s': %w", i, m.Pattern, err)
		}
		if m.Format == "" {
			return fmt.Errorf("format matcher %d format name is required", i)
		}
	}
	return nil
}

// ValidateSheet validates the SheetConfig.
func (v *Validator) ValidateSheet(sheet *SheetConfig) error {
	if sheet.Name == "" {
		return fmt.Errorf("sheet name is required")
	}
	// excelize rejects longer names at write time; catch it up front.
	if len(sheet.Name) > 31 {
		return fmt.Errorf("sheet name '%s' exceeds 31 characters", sheet.Name)
	}

	for i := range sheet.Tables {
		if err := v.ValidateTable(&sheet.Tables[i]); err != nil {
			return fmt.Errorf("table %d error: %w", i, err)
		}
	}
	for i := range sheet.Charts {
		if err := v.ValidateChart(&sheet.Charts[i]); err != nil {
			return fmt.Errorf("chart %d error: %w", i, err)
		}
	}
	return nil
}

// ValidateTable validates the TableConfig.
func (v *Validator) ValidateTable(tbl *TableConfig) error {
	if err := v.ValidateSource(&tbl.Source); err != nil {
		return err
	}
	if IsImageType(tbl.Source.Type) {
		return fmt.Errorf("table source cannot be an image type '%s'", tbl.Source.Type)
	}
	return nil
}

// ValidateChart validates the ChartConfig.
func (v *Validator) ValidateChart(chart *ChartConfig) error {
	if err := v.ValidateSource(&chart.Source); err != nil {
		return err
	}
	switch {
	case IsImageType(chart.Source.Type), IsCallableType(chart.Source.Type):
		// OK
	default:
		return fmt.Errorf("chart source type '%s' does not produce an image", chart.Source.Type)
	}
	if len(chart.Notes) > 0 && chart.NotesStartCell == "" {
		return fmt.Errorf("chart notes require a notes start cell")
	}
	return nil
}

// ValidateSource validates the SourceConfig.
func (v *Validator) ValidateSource(src *SourceConfig) error {
	if src.Type == "" {
		return fmt.Errorf("source type is required")
	}

	switch {
	case src.Type == SourceTypeCSV, src.Type == SourceTypeExcel, IsImageType(src.Type):
		if src.Path == "" {
			return fmt.Errorf("source type '%s' requires a path", src.Type)
		}
	case src.Type == SourceTypeSQL:
		if src.Driver == "" {
			return fmt.Errorf("sql source driver is required")
		}
		if src.DSN == "" {
			return fmt.Errorf("sql source DSN is required")
		}
		if src.Query == "" && src.Table == "" {
			return fmt.Errorf("sql source requires a query or a table")
		}
	case src.Type == SourceTypeDynamoDB:
		if src.Table == "" {
			return fmt.Errorf("dynamodb source table is required")
		}
	case IsCallableType(src.Type):
		strategies := 0
		if src.Registry != "" {
			strategies++
		}
		if src.Dotted != "" {
			strategies++
		}
		if src.Module != "" || src.Function != "" {
			if src.Module == "" || src.Function == "" {
				return fmt.Errorf("callable source requires both module and function")
			}
			strategies++
		}
		switch strategies {
		case 0:
			return fmt.Errorf("callable source requires 'registry' or 'dotted' (or 'module'+'function')")
		case 1:
			// OK
		default:
			return fmt.Errorf("callable source must specify exactly one of 'registry', 'dotted' or 'module'+'function'")
		}
	default:
		return fmt.Errorf("unsupported source type '%s'", src.Type)
	}
	return nil
}
