package catalog

// 细分市场榜单使用的硬件选项
var (
	IntelCPUs = []string{
		"Intel Processor N100",
		"Intel Core i3-1215U",
		"Intel Core i5-12450H",
		"Intel Core i5-1334U",
		"Intel Core i7-1360P",
		"Intel Core i7-13700H",
	}
	AMDCPUs = []string{
		"AMD Ryzen 3 7320U",
		"AMD Ryzen 5 7530U",
		"AMD Ryzen 5 7640HS",
		"AMD Ryzen 7 7735HS",
		"AMD Ryzen 7 7840U",
	}
	AppleCPUs = []string{
		"Apple M1",
		"Apple M2",
		"Apple M3",
		"Apple M3 Pro",
		"Apple M3 Max",
	}

	RAMOptions     = []string{"4GB RAM", "8GB RAM", "16GB RAM", "32GB RAM"}
	StorageOptions = []string{"128GB Flash", "256GB SSD", "512GB SSD", "1TB SSD", "2TB SSD"}
	ScreenSizes    = []string{"13.3 inch", "14 inch", "15.6 inch", "16 inch"}
	Resolutions    = []string{"HD", "FHD", "2K", "QHD", "UHD"}
)

// CPU 厂商
const (
	CPUBrandIntel = "Intel"
	CPUBrandAMD   = "AMD"
	CPUBrandApple = "Apple"
)
