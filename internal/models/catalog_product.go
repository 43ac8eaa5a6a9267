package models

import "strconv"

// CatalogProduct 目录榜单中的一行（抓取或细分市场合成）
type CatalogProduct struct {
	Rank          int    `json:"rank"`
	Brand         string `json:"brand"`
	CPUBrand      string `json:"cpu_brand"`
	ProcessorType string `json:"processor_type"`
	RAM           string `json:"ram"`
	Storage       string `json:"storage"`
	ScreenSize    string `json:"screen_size"`
	Resolution    string `json:"resolution"`
	Price         *Money `json:"price"`
	ProductName   string `json:"product_name"`
}

// Row 按 constants.CatalogColumns 顺序输出
func (p CatalogProduct) Row() []string {
	return []string{
		strconv.Itoa(p.Rank), p.Brand, p.CPUBrand, p.ProcessorType, p.RAM, p.Storage,
		p.ScreenSize, p.Resolution, FormatMoneyPtr(p.Price), p.ProductName,
	}
}
