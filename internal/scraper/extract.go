package scraper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dujiao-next/pricedata/internal/models"

	"golang.org/x/net/html"
)

var (
	processorKeys   = []string{"processeur", "reference du processeur", "processeur cpu", "reference processeur"}
	ramKeys         = []string{"memoire vive ram", "memoire vive", "ram"}
	storageTypeKeys = []string{"type de stockage", "stockage", "support de stockage"}
	storageCapKeys  = []string{"capacite de stockage", "capacite totale de stockage"}
	screenSizeKeys  = []string{
		"taille de l ecran en pouces diagonale",
		"taille de l ecran",
		"taille ecran",
		"taille de l ecran pouces",
		"taille de l ecran diagonale",
		"diagonale de l ecran",
		"diagonale ecran",
	}
	resolutionKeys = []string{"resolution", "definition de l image"}
)

const storageTypeAndCapacityKey = "type et capacite totale de stockage"

// Properties 规范化键名后的 additionalProperty
type Properties struct {
	values map[string]string
	order  []string
}

// Get 取值
func (p Properties) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// First 按候选键顺序取第一个存在的值
func (p Properties) First(keys ...string) string {
	for _, k := range keys {
		if v, ok := p.values[k]; ok {
			return v
		}
	}
	return ""
}

// ParseProperties 解析 additionalProperty（或 additionalProperties）列表
func ParseProperties(prod map[string]interface{}) Properties {
	props := Properties{values: make(map[string]string)}
	raw, ok := prod["additionalProperty"]
	if !ok || raw == nil {
		raw = prod["additionalProperties"]
	}
	list, _ := raw.([]interface{})
	for _, item := range list {
		ap, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		key := NormalizeKey(readString(ap, "name"))
		if key == "" {
			continue
		}
		if _, exists := props.values[key]; !exists {
			props.order = append(props.order, key)
		}
		props.values[key] = strings.TrimSpace(html.UnescapeString(readString(ap, "value")))
	}
	return props
}

// ExtractProduct 由 JSON-LD Product 提取榜单字段（不含排名）
func ExtractProduct(prod map[string]interface{}) models.CatalogProduct {
	props := ParseProperties(prod)

	processor := strings.TrimSpace(props.First(processorKeys...))
	typeAndCapacity, _ := props.Get(storageTypeAndCapacityKey)

	product := models.CatalogProduct{
		Brand:         TitleBrand(readBrand(prod["brand"])),
		CPUBrand:      CPUBrand(processor),
		ProcessorType: processor,
		RAM:           NormalizeRAM(props.First(ramKeys...)),
		Storage:       NormalizeStorage(typeAndCapacity, props.First(storageTypeKeys...), props.First(storageCapKeys...)),
		ScreenSize:    screenSize(prod, props),
		Resolution:    NormalizeResolution(props.First(resolutionKeys...)),
		ProductName:   strings.TrimSpace(html.UnescapeString(readString(prod, "name"))),
	}
	if price := NormalizePrice(offerPrice(prod["offers"])); price != "" {
		if m, err := models.ParseMoney(price); err == nil {
			product.Price = &m
		}
	}
	return product
}

func screenSize(prod map[string]interface{}, props Properties) string {
	for _, k := range screenSizeKeys {
		if v, ok := props.Get(k); ok {
			if got := ParseInches(v); got != "" {
				return got
			}
		}
	}
	for _, k := range props.order {
		if (strings.Contains(k, "taille") || strings.Contains(k, "diagonale")) && strings.Contains(k, "ecran") {
			if got := ParseInches(props.values[k]); got != "" {
				return got
			}
		}
	}
	for _, field := range []string{"name", "description"} {
		if got := ParseInches(readString(prod, field)); got != "" {
			return got
		}
	}
	if offer, ok := prod["offers"].(map[string]interface{}); ok {
		text := readString(offer, "name")
		if text == "" {
			text = readString(offer, "description")
		}
		return ParseInches(text)
	}
	return ""
}

func readBrand(v interface{}) string {
	switch b := v.(type) {
	case string:
		return b
	case map[string]interface{}:
		if name := readString(b, "name"); name != "" {
			return name
		}
		return readString(b, "brand")
	}
	return ""
}

// offerPrice offers 为对象时取其 price，为数组时取第一个非空 price
func offerPrice(v interface{}) string {
	switch o := v.(type) {
	case map[string]interface{}:
		return readString(o, "price")
	case []interface{}:
		for _, item := range o {
			if offer, ok := item.(map[string]interface{}); ok {
				if p := readString(offer, "price"); p != "" {
					return p
				}
			}
		}
	}
	return ""
}

func readString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64, bool:
		return fmt.Sprint(v)
	default:
		return ""
	}
}
