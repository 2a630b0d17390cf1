// Command import-protocols seeds the diagnosis/treatment reference data from
// a protocol sheet. Sheets arrive either as CSV exports (one
// diagnosis,treatment pair per row) or as the PDF handouts vets circulate
// (one "Diagnosis: Treatment A; Treatment B" line per diagnosis).
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"gorm.io/gorm"

	"penside/internal/config"
	"penside/internal/db"
	"penside/models"
)

func main() {
	sheetPath := "protocols.csv"
	if len(os.Args) > 1 {
		sheetPath = os.Args[1]
	}

	if err := run(sheetPath); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(sheetPath string) error {
	if strings.TrimSpace(sheetPath) == "" {
		return fmt.Errorf("sheet path must not be empty")
	}

	if _, err := os.Stat(sheetPath); err != nil {
		return fmt.Errorf("locate sheet: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	protocols, err := readProtocolSheet(sheetPath)
	if err != nil {
		return fmt.Errorf("read sheet: %w", err)
	}

	imported, err := importProtocols(database, protocols)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d diagnoses from %s\n", imported, filepath.Base(sheetPath))
	return nil
}

// readProtocolSheet dispatches on the file extension and returns the
// diagnosis -> treatments mapping in a stable order.
func readProtocolSheet(path string) ([]protocol, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text, err := extractPDFText(data)
		if err != nil {
			return nil, err
		}
		return parseProtocolLines(strings.Split(text, "\n"))
	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return parseProtocolCSV(file)
	}
}

type protocol struct {
	Diagnosis  string
	Treatments []string
}

func parseProtocolCSV(r io.Reader) ([]protocol, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	diagnosisIdx, treatmentIdx := -1, -1
	for idx, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "diagnosis":
			diagnosisIdx = idx
		case "treatment":
			treatmentIdx = idx
		}
	}
	if diagnosisIdx < 0 || treatmentIdx < 0 {
		return nil, errors.New("sheet must have Diagnosis and Treatment columns")
	}

	byDiagnosis := map[string][]string{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) <= diagnosisIdx || len(record) <= treatmentIdx {
			continue
		}
		diagnosis := strings.TrimSpace(record[diagnosisIdx])
		treatment := strings.TrimSpace(record[treatmentIdx])
		if diagnosis == "" || treatment == "" {
			continue
		}
		byDiagnosis[diagnosis] = appendUnique(byDiagnosis[diagnosis], treatment)
	}

	return sortProtocols(byDiagnosis), nil
}

// parseProtocolLines handles the "Diagnosis: Treatment A; Treatment B" layout
// of the PDF handouts. Lines without a colon are ignored.
func parseProtocolLines(lines []string) ([]protocol, error) {
	byDiagnosis := map[string][]string{}
	for _, line := range lines {
		diagnosis, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		diagnosis = strings.TrimSpace(diagnosis)
		if diagnosis == "" {
			continue
		}
		for _, treatment := range strings.Split(rest, ";") {
			treatment = strings.TrimSpace(treatment)
			if treatment == "" {
				continue
			}
			byDiagnosis[diagnosis] = appendUnique(byDiagnosis[diagnosis], treatment)
		}
	}
	if len(byDiagnosis) == 0 {
		return nil, errors.New("no protocol lines found in sheet")
	}
	return sortProtocols(byDiagnosis), nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func importProtocols(database *gorm.DB, protocols []protocol) (int, error) {
	imported := 0
	for _, entry := range protocols {
		if err := database.Transaction(func(tx *gorm.DB) error {
			diagnosis := models.Diagnosis{Name: entry.Diagnosis}
			err := tx.Where("name = ?", entry.Diagnosis).First(&diagnosis).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Create(&diagnosis).Error; err != nil {
					return fmt.Errorf("create diagnosis %q: %w", entry.Diagnosis, err)
				}
			} else if err != nil {
				return fmt.Errorf("find diagnosis %q: %w", entry.Diagnosis, err)
			}

			for _, name := range entry.Treatments {
				treatment := models.Treatment{Name: name}
				err := tx.Where("name = ?", name).First(&treatment).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					if err := tx.Create(&treatment).Error; err != nil {
						return fmt.Errorf("create treatment %q: %w", name, err)
					}
				} else if err != nil {
					return fmt.Errorf("find treatment %q: %w", name, err)
				}

				if err := tx.Model(&treatment).Association("Diagnoses").Append(&diagnosis); err != nil {
					return fmt.Errorf("link treatment %q to %q: %w", name, entry.Diagnosis, err)
				}
			}
			return nil
		}); err != nil {
			return imported, fmt.Errorf("diagnosis %q: %w", entry.Diagnosis, err)
		}
		imported++
	}
	return imported, nil
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if strings.EqualFold(existing, value) {
			return values
		}
	}
	return append(values, value)
}

func sortProtocols(byDiagnosis map[string][]string) []protocol {
	protocols := make([]protocol, 0, len(byDiagnosis))
	for diagnosis, treatments := range byDiagnosis {
		protocols = append(protocols, protocol{Diagnosis: diagnosis, Treatments: treatments})
	}
	sort.Slice(protocols, func(i, j int) bool {
		return protocols[i].Diagnosis < protocols[j].Diagnosis
	})
	return protocols
}
