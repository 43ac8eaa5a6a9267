package constants

// 零售商常量
const (
	RetailerFnac      = "Fnac"
	RetailerBoulanger = "Boulanger"
)

// 品牌常量
const (
	BrandHP      = "HP"
	BrandLenovo  = "Lenovo"
	BrandDell    = "Dell"
	BrandApple   = "Apple"
	BrandASUS    = "ASUS"
	BrandSamsung = "Samsung"
	BrandAcer    = "Acer"
)

// 商品成色常量
const (
	ConditionNew    = "new"
	ConditionRefurb = "refurb"
	ConditionUsed   = "used"
)

// 库存状态常量
const (
	AvailabilityInStock    = "in_stock"
	AvailabilityOutOfStock = "out_of_stock"
	AvailabilityPreorder   = "preorder"
)

// 促销类型常量
const (
	PromoTypeFlashSale    = "flash_sale"
	PromoTypeClearance    = "clearance"
	PromoTypeBackToSchool = "back_to_school"
	PromoTypeWeekendDeal  = "weekend_deal"
)

// CurrencyEUR 数据集唯一币种
const CurrencyEUR = "EUR"

// 日期时间格式
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05Z07:00"
)

// 数据集列名
const (
	ColRetailer           = "retailer"
	ColBrand              = "brand"
	ColModelID            = "model_id"
	ColModelName          = "model_name"
	ColCondition          = "condition"
	ColWeekStart          = "week_start"
	ColPrice              = "price"
	ColPromoPrice         = "promo_price"
	ColInstallmentPrice   = "installment_price"
	ColPromoStart         = "promo_start"
	ColPromoEnd           = "promo_end"
	ColPromoType          = "promo_type"
	ColPromoActive        = "promo_active"
	ColPrevWeekPrice      = "prev_week_price"
	ColPriceChangeAbs     = "price_change_abs"
	ColPriceChangePct     = "price_change_pct"
	ColRankWithinBrand    = "rank_within_brand"
	ColAvailabilityStatus = "availability_status"
	ColCurrency           = "currency"
	ColScrapedAt          = "scraped_at"
)

// DatasetColumns 数据集固定列顺序
var DatasetColumns = []string{
	ColRetailer, ColBrand, ColModelID, ColModelName, ColCondition, ColWeekStart, ColPrice, ColPromoPrice,
	ColInstallmentPrice, ColPromoStart, ColPromoEnd, ColPromoType, ColPromoActive, ColPrevWeekPrice,
	ColPriceChangeAbs, ColPriceChangePct, ColRankWithinBrand, ColAvailabilityStatus, ColCurrency, ColScrapedAt,
}

// 枚举集合
var (
	Retailers      = []string{RetailerFnac, RetailerBoulanger}
	Brands         = []string{BrandHP, BrandLenovo, BrandDell, BrandApple, BrandASUS, BrandSamsung, BrandAcer}
	Conditions     = []string{ConditionNew, ConditionRefurb, ConditionUsed}
	Availabilities = []string{AvailabilityInStock, AvailabilityOutOfStock, AvailabilityPreorder}
	PromoTypes     = []string{PromoTypeFlashSale, PromoTypeClearance, PromoTypeBackToSchool, PromoTypeWeekendDeal}
)

// 目录商品（抓取/细分榜单）列名
var CatalogColumns = []string{
	"Rank", "Brand", "CPU Brand", "Processor Type", "RAM", "Storage", "Screen Size", "Resolution", "Price", "Product Name",
}
