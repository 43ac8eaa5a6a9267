package scraper

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonKeyChars = regexp.MustCompile(`[^a-z0-9 ]+`)
	spaces      = regexp.MustCompile(`\s+`)

	inchPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d)?)\s*(?:po|pouces?|")`),
		regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d)?)\s*(?:inch|inches?)`),
		regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d)?)\s*(?:p|pce?)`),
		regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d)?)\s*\(\s*\d{1,2}(?:\.\d)?\s*cm\)`),
		regexp.MustCompile(`(\d{1,2}(?:\.\d)?)\s*["]`),
	}

	gbLoose     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(to|tb|tera|go|gb|g|gigaoctet|gigabyte)?`)
	gbStrict    = regexp.MustCompile(`(\d+(?:[\.,]\d+)?)\s*(to|tb|tera|go|gb|g)\b`)
	resolutionR = regexp.MustCompile(`(\d+)\s*x\s*(\d+)`)
	priceChars  = regexp.MustCompile(`[^\d.,]`)

	brandAcronyms = map[string]struct{}{
		"HP": {}, "ASUS": {}, "ACER": {}, "MSI": {}, "LG": {}, "IBM": {}, "RCA": {},
	}
)

// StripAccents NFD 分解后去掉组合附加符号
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeKey 属性名规范化：反转义、小写、去重音，非字母数字替换为空格
func NormalizeKey(s string) string {
	s = strings.TrimSpace(strings.ToLower(html.UnescapeString(s)))
	s = StripAccents(s)
	s = nonKeyChars.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// TitleBrand 缩写品牌全大写，其余首字母大写
func TitleBrand(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, ok := brandAcronyms[strings.ToUpper(s)]; ok {
		return strings.ToUpper(s)
	}
	return capitalize(s)
}

func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return ""
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func trimFloat(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

// ParseInches 从描述文本中识别屏幕尺寸，输出 "15.6 inch"
func ParseInches(s string) string {
	if s == "" {
		return ""
	}
	t := StripAccents(html.UnescapeString(s))
	t = strings.ReplaceAll(t, ",", ".")
	t = strings.NewReplacer("”", `"`, "“", `"`, "''", `"`).Replace(t)
	for _, re := range inchPatterns {
		if m := re.FindStringSubmatch(t); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			return trimFloat(v, 1) + " inch"
		}
	}
	return ""
}

func unitToGB(num float64, unit string) float64 {
	switch unit {
	case "to", "tb", "tera":
		return num * 1024
	default:
		return num
	}
}

// ToGB 取文本中最大的容量数值（GB），带单位的数值优先，无法识别返回 0
// "16 Go DDR4 3200 MHz" 中的 3200 不带容量单位，不参与比较
func ToGB(val string) float64 {
	if val == "" {
		return 0
	}
	s := StripAccents(strings.ToLower(html.UnescapeString(val)))
	s = strings.ReplaceAll(s, ",", ".")
	bestWithUnit, bestBare := 0.0, 0.0
	for _, m := range gbLoose.FindAllStringSubmatch(s, -1) {
		num, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		gb := unitToGB(num, m[2])
		if m[2] != "" {
			bestWithUnit = math.Max(bestWithUnit, gb)
		} else {
			bestBare = math.Max(bestBare, gb)
		}
	}
	if bestWithUnit > 0 {
		return bestWithUnit
	}
	return bestBare
}

// CompactGB 容量简写：≥1024GB 输出 TB
func CompactGB(gb float64) string {
	if gb <= 0 {
		return ""
	}
	if gb >= 1024 {
		return trimFloat(gb/1024, 1) + "TB"
	}
	if math.Abs(gb-math.Round(gb)) < 0.05 {
		return strconv.FormatFloat(gb, 'f', 0, 64) + "GB"
	}
	return trimFloat(gb, 1) + "GB"
}

// NormalizeRAM 例如 "16 Go" → "16GB RAM"
func NormalizeRAM(val string) string {
	gb := ToGB(val)
	if gb <= 0 {
		return ""
	}
	return CompactGB(gb) + " RAM"
}

// NormalizeStorage 合并类型与容量描述，例如 "512GB SSD"
func NormalizeStorage(typeAndCapacity, typeOnly, capacityOnly string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{typeAndCapacity, typeOnly, capacityOnly} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	text := strings.Join(parts, " ")
	if text == "" {
		return ""
	}
	lower := StripAccents(strings.ToLower(text))

	kind := ""
	switch {
	case strings.Contains(lower, "ssd"):
		kind = "SSD"
	case strings.Contains(lower, "hdd"), strings.Contains(lower, "sata"):
		kind = "HDD"
	}

	best := 0.0
	for _, m := range gbStrict.FindAllStringSubmatch(lower, -1) {
		num, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			continue
		}
		if gb := unitToGB(num, m[2]); gb > best {
			best = gb
		}
	}
	capacity := CompactGB(best)
	if capacity == "" {
		capacity = CompactGB(ToGB(text))
	}

	if capacity != "" && kind != "" {
		return capacity + " " + kind
	}
	if capacity != "" {
		return capacity
	}
	return strings.TrimSpace(text)
}

// CPUBrand 由处理器描述推断厂商
func CPUBrand(processor string) string {
	s := strings.ToLower(strings.TrimSpace(processor))
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "intel"):
		return "Intel"
	case strings.HasPrefix(s, "amd"):
		return "AMD"
	case strings.HasPrefix(s, "apple"):
		return "Apple"
	}
	return capitalize(strings.Fields(processor)[0])
}

// NormalizeResolution 统一为 "宽x高"，长边在前；无法识别时原样压缩空白返回
func NormalizeResolution(val string) string {
	if val == "" {
		return ""
	}
	lower := strings.ReplaceAll(StripAccents(strings.ToLower(val)), "×", "x")
	m := resolutionR.FindStringSubmatch(lower)
	if m == nil {
		return strings.TrimSpace(spaces.ReplaceAllString(val, " "))
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	if h > w {
		w, h = h, w
	}
	return fmt.Sprintf("%dx%d", w, h)
}

// NormalizePrice 保留小数部分：逗号视为小数点，多余的分隔符视为千位分隔
func NormalizePrice(raw string) string {
	s := priceChars.ReplaceAllString(strings.TrimSpace(raw), "")
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		last := strings.LastIndex(s, ".")
		s = strings.ReplaceAll(s[:last], ".", "") + s[last:]
	}
	return strings.Trim(s, ".")
}
