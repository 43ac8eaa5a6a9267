package dataset

import (
	"encoding/json"
	"io"

	"github.com/dujiao-next/pricedata/internal/models"
)

// WriteJSON 输出缩进的记录数组，空值为 null
func WriteJSON(w io.Writer, records []*models.PriceRecord) error {
	if records == nil {
		records = []*models.PriceRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteJSONFile 写出 JSON 文件
func WriteJSONFile(path string, records []*models.PriceRecord) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteJSON(w, records)
	})
}
