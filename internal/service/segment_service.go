package service

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/dujiao-next/pricedata/internal/catalog"
	"github.com/dujiao-next/pricedata/internal/clock"
	"github.com/dujiao-next/pricedata/internal/models"
)

const intelShare = 0.65

// SegmentOptions 细分市场榜单参数
type SegmentOptions struct {
	Retailer string
	Rows     int
	Seed     int64 // 0 表示按当前时间取种子
}

// SegmentService 合成单一零售商的传统细分市场榜单
type SegmentService struct {
	catalog catalog.Catalog
	clock   clock.Clock
}

// NewSegmentService 创建细分榜单服务
func NewSegmentService(cat catalog.Catalog, clk clock.Clock) *SegmentService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &SegmentService{catalog: cat, clock: clk}
}

// SegmentOutputPath 默认输出文件名
func SegmentOutputPath(retailer string) string {
	name := strings.TrimSpace(retailer)
	if name == "" {
		name = "Retailer"
	}
	return fmt.Sprintf("synthesize_data_%s.csv", name)
}

// Generate 每个品牌至少 Rows/品牌数 行（不少于 1），余数随机分配品牌，打乱后逐行合成
// 结果按 价格、品牌、商品名 升序排列，Rank 从 1 开始
func (s *SegmentService) Generate(opts SegmentOptions) ([]models.CatalogProduct, int64, error) {
	if opts.Rows <= 0 {
		return nil, 0, ErrSegmentRowsEmpty
	}
	if len(s.catalog) == 0 {
		return nil, 0, ErrGeneratorOptionsInvalid
	}
	seed := opts.Seed
	if seed == 0 {
		seed = s.clock.Now().UnixNano()
	}
	rng := newRand(seed)

	plan := brandPlan(rng, s.catalog, opts.Rows)
	products := make([]models.CatalogProduct, 0, len(plan))
	for _, brand := range plan {
		products = append(products, synthesizeListing(rng, brand))
	}

	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if !a.Price.Equal(b.Price.Decimal) {
			return a.Price.LessThan(b.Price.Decimal)
		}
		if a.Brand != b.Brand {
			return a.Brand < b.Brand
		}
		return a.ProductName < b.ProductName
	})
	for i := range products {
		products[i].Rank = i + 1
	}
	return products, seed, nil
}

func brandPlan(rng *rand.Rand, cat catalog.Catalog, n int) []catalog.Brand {
	perBrand := n / len(cat)
	if perBrand < 1 {
		perBrand = 1
	}
	plan := make([]catalog.Brand, 0, n)
	for _, b := range cat {
		for i := 0; i < perBrand; i++ {
			plan = append(plan, b)
		}
	}
	for leftover := n - perBrand*len(cat); leftover > 0; leftover-- {
		plan = append(plan, cat[rng.IntN(len(cat))])
	}
	rng.Shuffle(len(plan), func(i, j int) {
		plan[i], plan[j] = plan[j], plan[i]
	})
	return plan
}

func synthesizeListing(rng *rand.Rand, brand catalog.Brand) models.CatalogProduct {
	model := choice(rng, brand.Models)
	cpuBrand, processor := cpuForBrand(rng, brand.Name)
	ram := choice(rng, catalog.RAMOptions)
	storage := choice(rng, catalog.StorageOptions)
	screen := choice(rng, catalog.ScreenSizes)
	resolution := choice(rng, catalog.Resolutions)
	price := models.NewMoneyFromFloat(brand.MinPrice + betaInt(rng, 2, 3)*(brand.MaxPrice-brand.MinPrice))

	return models.CatalogProduct{
		Brand:         brand.Name,
		CPUBrand:      cpuBrand,
		ProcessorType: processor,
		RAM:           ram,
		Storage:       storage,
		ScreenSize:    screen,
		Resolution:    resolution,
		Price:         &price,
		ProductName:   fmt.Sprintf("%s %s | %s %s | %s | %s | %s", brand.Name, model, screen, resolution, ram, storage, processor),
	}
}

// cpuForBrand Apple 只配 Apple 芯片，其余品牌 Intel 与 AMD 按比例抽取
func cpuForBrand(rng *rand.Rand, brand string) (string, string) {
	if strings.EqualFold(brand, catalog.CPUBrandApple) {
		return catalog.CPUBrandApple, choice(rng, catalog.AppleCPUs)
	}
	if rng.Float64() < intelShare {
		return catalog.CPUBrandIntel, choice(rng, catalog.IntelCPUs)
	}
	return catalog.CPUBrandAMD, choice(rng, catalog.AMDCPUs)
}
