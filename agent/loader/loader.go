package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	contractx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/contract"
	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
)

type Config struct {
	MenuPath     string `split_words:"true" default:"data/menu.csv"`
	SchedulePath string `split_words:"true" default:"data/schedule.csv"`
	InfoPath     string `split_words:"true" default:"data/info.txt"`
}

// Header aliases accepted for each canonical column.
var (
	menuColumns = map[string][]string{
		statex.FieldName:     {"name", "item", "item_name"},
		statex.FieldPrice:    {"price", "unit_price"},
		statex.FieldQuantity: {"quantity", "available_quantity", "stock"},
	}
	scheduleColumns = map[string][]string{
		statex.FieldDay:       {"day", "day_of_week"},
		statex.FieldOpenTime:  {"open_time", "open"},
		statex.FieldCloseTime: {"close_time", "close"},
	}
)

// FileSource reads the menu and schedule from CSV files and the info text from a plain file.
type FileSource struct {
	menuPath     string
	schedulePath string
	infoPath     string
}

var _ contractx.DataSource = (*FileSource)(nil)

func NewFileSource(cfg Config) (*FileSource, error) {
	src := &FileSource{
		menuPath:     strings.TrimSpace(cfg.MenuPath),
		schedulePath: strings.TrimSpace(cfg.SchedulePath),
		infoPath:     strings.TrimSpace(cfg.InfoPath),
	}
	switch {
	case src.menuPath == "":
		return nil, fmt.Errorf("%w: menu path is required", contractx.ErrValidation)
	case src.schedulePath == "":
		return nil, fmt.Errorf("%w: schedule path is required", contractx.ErrValidation)
	case src.infoPath == "":
		return nil, fmt.Errorf("%w: info path is required", contractx.ErrValidation)
	}
	return src, nil
}

// Fetch reads all three files. Rows are returned raw; conversion happens at load.
func (s *FileSource) Fetch(ctx context.Context) (contractx.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return contractx.Dataset{}, err
	}

	menu, err := readTable(s.menuPath, menuColumns)
	if err != nil {
		return contractx.Dataset{}, fmt.Errorf("%w: menu: %v", contractx.ErrSourceUnavailable, err)
	}
	schedule, err := readTable(s.schedulePath, scheduleColumns)
	if err != nil {
		return contractx.Dataset{}, fmt.Errorf("%w: schedule: %v", contractx.ErrSourceUnavailable, err)
	}
	info, err := readText(s.infoPath)
	if err != nil {
		return contractx.Dataset{}, fmt.Errorf("%w: info: %v", contractx.ErrSourceUnavailable, err)
	}

	return contractx.Dataset{
		CatalogRows:  menu,
		ScheduleRows: schedule,
		Info:         info,
	}, nil
}

func readTable(path string, columns map[string][]string) ([]statex.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTable(f, columns)
}

// ParseTable reads a CSV stream with a header row and maps known header aliases
// to canonical field names. Unknown columns are ignored; blank records skipped.
func ParseTable(r io.Reader, columns map[string][]string) ([]statex.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[int]string, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for field, aliases := range columns {
			for _, alias := range aliases {
				if name == alias {
					index[i] = field
				}
			}
		}
	}

	var rows []statex.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if blank(record) {
			continue
		}
		row := make(statex.Row, len(index))
		for i, v := range record {
			if field, ok := index[i]; ok {
				row[field] = strings.TrimSpace(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", errors.New("pdf documents must be converted to text before loading")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
