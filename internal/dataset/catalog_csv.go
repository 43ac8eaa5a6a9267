package dataset

import (
	"encoding/csv"
	"io"

	"github.com/dujiao-next/pricedata/internal/constants"
	"github.com/dujiao-next/pricedata/internal/models"
)

// WriteCatalogCSV 写出目录榜单
func WriteCatalogCSV(w io.Writer, products []models.CatalogProduct) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(constants.CatalogColumns); err != nil {
		return err
	}
	for _, p := range products {
		if err := writer.Write(p.Row()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCatalogCSVFile 写出目录榜单文件
func WriteCatalogCSVFile(path string, products []models.CatalogProduct) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteCatalogCSV(w, products)
	})
}
