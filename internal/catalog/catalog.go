package catalog

import (
	"strings"

	"github.com/dujiao-next/pricedata/internal/constants"
)

// Brand 品牌目录：价格区间与型号列表
type Brand struct {
	Name     string   `mapstructure:"name" validate:"required"`
	MinPrice float64  `mapstructure:"min_price" validate:"gte=0"`
	MaxPrice float64  `mapstructure:"max_price" validate:"gtefield=MinPrice"`
	Models   []string `mapstructure:"models" validate:"min=1,dive,required"`
}

// TopModels 返回前 n 个型号，n<=0 返回全部
func (b Brand) TopModels(n int) []string {
	if n <= 0 || n >= len(b.Models) {
		return b.Models
	}
	return b.Models[:n]
}

// Catalog 品牌目录集合
type Catalog []Brand

// Find 按名称查找品牌（忽略大小写）
func (c Catalog) Find(name string) (Brand, bool) {
	for _, b := range c {
		if strings.EqualFold(b.Name, strings.TrimSpace(name)) {
			return b, true
		}
	}
	return Brand{}, false
}

// Names 品牌名列表
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, b := range c {
		names = append(names, b.Name)
	}
	return names
}

// ModelCount 所选品牌各取前 perBrand 个型号后的型号总数，未知品牌忽略
func (c Catalog) ModelCount(brands []string, perBrand int) int {
	total := 0
	for _, name := range brands {
		if b, ok := c.Find(name); ok {
			total += len(b.TopModels(perBrand))
		}
	}
	return total
}

// MaxModels 单个品牌最多的型号数，即品牌内排名的上界
func (c Catalog) MaxModels(brands []string, perBrand int) int {
	most := 0
	for _, name := range brands {
		if b, ok := c.Find(name); ok && len(b.TopModels(perBrand)) > most {
			most = len(b.TopModels(perBrand))
		}
	}
	return most
}

// Default 默认笔记本品牌目录
func Default() Catalog {
	return Catalog{
		{
			Name: constants.BrandHP, MinPrice: 600, MaxPrice: 2200,
			Models: []string{
				"Envy 13", "Pavilion 14", "Spectre x360", "Omen 16", "Victus 15",
				"ProBook 440", "EliteBook 840", "ZBook Firefly", "Chromebook x2", "Dragonfly G4",
			},
		},
		{
			Name: constants.BrandLenovo, MinPrice: 550, MaxPrice: 2200,
			Models: []string{
				"ThinkPad X1 Carbon", "Yoga Slim 7", "IdeaPad 5", "Legion 5", "ThinkBook 14",
				"LOQ 15", "ThinkPad T14", "Yoga 7", "IdeaPad Flex 5", "Slim 7 Pro",
			},
		},
		{
			Name: constants.BrandDell, MinPrice: 600, MaxPrice: 2400,
			Models: []string{
				"XPS 13", "XPS 15", "Inspiron 14", "Inspiron 16", "Latitude 7440",
				"Vostro 3520", "G15", "Alienware m16", "Precision 3580", "Chromebook 3110",
			},
		},
		{
			Name: constants.BrandApple, MinPrice: 1100, MaxPrice: 3500,
			Models: []string{
				"MacBook Air M2", "MacBook Pro 14 M3", "MacBook Pro 16 M3", "MacBook Air 13 M1", "MacBook Pro 13 M2",
				"MacBook Air M3", "MacBook Pro 14 M2", "MacBook Air 15 M2", "MacBook Pro 16 M2", "MacBook Air 13 M3",
			},
		},
		{
			Name: constants.BrandASUS, MinPrice: 550, MaxPrice: 2500,
			Models: []string{
				"Zenbook 14 OLED", "Vivobook 15", "ROG Zephyrus G14", "TUF Gaming A15", "ExpertBook B5",
				"Chromebook Flip CX5", "ProArt Studiobook", "ROG Strix G16", "Vivobook S14", "Zenbook S 13",
			},
		},
		{
			Name: constants.BrandSamsung, MinPrice: 700, MaxPrice: 2600,
			Models: []string{
				"Galaxy Book3", "Galaxy Book3 Pro", "Galaxy Book4", "Galaxy Book2 360", "Galaxy Book3 Ultra",
				"Galaxy Book Go", "Galaxy Book3 360", "Galaxy Book Flex2", "Galaxy Book Ion", "Galaxy Book4 Pro",
			},
		},
		{
			Name: constants.BrandAcer, MinPrice: 450, MaxPrice: 2000,
			Models: []string{
				"Swift 3", "Swift Go 14", "Aspire 5", "Nitro 5", "Predator Helios 16",
				"Spin 5", "Chromebook Spin 713", "TravelMate P4", "Swift X 14", "Aspire Vero",
			},
		},
	}
}
