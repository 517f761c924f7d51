package domain

import (
	"strings"
)

// locationAliases — разговорные названия районов Найроби.
var locationAliases = map[string]string{
	"westie":         "Westlands",
	"kile":           "Kilimani",
	"lavi":           "Lavington",
	"south c":        "South C",
	"south b":        "South B",
	"kasa":           "Kasarani",
	"juja town":      "Juja",
	"ruaka town":     "Ruaka",
	"roysa":          "Roysambu",
	"kahawa wendani": "Kahawa Wendani",
}

// NormalizeLocation приводит название района к единому виду:
// убирает лишние пробелы, раскрывает известные сокращения и делает первую букву заглавной.
func NormalizeLocation(location string) string {
	location = strings.Join(strings.Fields(location), " ")
	if location == "" {
		return ""
	}

	if normalized, ok := locationAliases[strings.ToLower(location)]; ok {
		return normalized
	}

	runes := []rune(location)
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}

// LocationsMatch проверяет, совпадают ли два района (с учётом нормализации).
func LocationsMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(NormalizeLocation(a), NormalizeLocation(b))
}
