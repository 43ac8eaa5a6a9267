package catalog

import "strings"

// NormalizeModelID 由品牌与型号名生成稳定的型号ID
// 大写后仅保留 A-Z、0-9，其余字符视为分隔，按 "-" 连接，如 "HP Spectre x360" -> "HP-SPECTRE-X360"
func NormalizeModelID(brand, modelName string) string {
	upper := strings.ToUpper(brand + " " + modelName)
	var b strings.Builder
	b.Grow(len(upper))
	for _, r := range upper {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}
	return strings.Join(strings.Fields(b.String()), "-")
}
