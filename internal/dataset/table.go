package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dujiao-next/pricedata/internal/constants"
	"github.com/dujiao-next/pricedata/internal/models"
)

// ErrEmptyTable 文件无表头
var ErrEmptyTable = errors.New("empty table")

// RawTable 原样读取的表格：表头 + 字符串单元格，不做类型转换
type RawTable struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewRawTable 由表头与行构造
func NewRawTable(header []string, rows [][]string) *RawTable {
	t := &RawTable{Header: header, Rows: rows, index: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, exists := t.index[name]; !exists {
			t.index[name] = i
		}
	}
	return t
}

// Len 数据行数
func (t *RawTable) Len() int {
	return len(t.Rows)
}

// Has 是否包含列
func (t *RawTable) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// MissingColumns 返回缺失的列（保持入参顺序）
func (t *RawTable) MissingColumns(columns []string) []string {
	missing := make([]string, 0)
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Cell 取单元格，列不存在或行长度不足时返回空串
func (t *RawTable) Cell(row int, column string) string {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][i])
}

// ReadRawCSV 读取 CSV 为原始表，允许行宽不一致
func ReadRawCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv failed: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	return NewRawTable(records[0], records[1:]), nil
}

// ReadRawCSVFile 从文件读取原始表
func ReadRawCSVFile(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s failed: %w", path, err)
	}
	defer f.Close()
	return ReadRawCSV(f)
}

// RecordsTable 将记录按 CSV 相同的格式转为原始表
func RecordsTable(records []*models.PriceRecord) *RawTable {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, RecordRow(r))
	}
	return NewRawTable(constants.DatasetColumns, rows)
}
