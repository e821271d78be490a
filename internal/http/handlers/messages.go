package handlers

// User-facing messages keyed by locale. The i18n middleware resolves the
// locale from headers, token claims, or GeoIP country.
var messages = map[string]map[string]string{
	"zh": {
		"generated": "播客生成成功！",
		"deleted":   "播客已刪除",
	},
	"en": {
		"generated": "Podcast generated successfully!",
		"deleted":   "Podcast deleted",
	},
}

func message(locale, key string) string {
	if m, ok := messages[locale]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return messages["en"][key]
}
