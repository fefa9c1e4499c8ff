package playstore

import (
	"strconv"
	"strings"
)

// Collections accepted by list.
var collections = map[string]bool{
	"TOP_FREE": true,
	"TOP_PAID": true,
	"GROSSING": true,
}

// Categories accepted by list.
var categories = map[string]bool{
	"APPLICATION":         true,
	"ANDROID_WEAR":        true,
	"ART_AND_DESIGN":      true,
	"AUTO_AND_VEHICLES":   true,
	"BEAUTY":              true,
	"BOOKS_AND_REFERENCE": true,
	"BUSINESS":            true,
	"COMICS":              true,
	"COMMUNICATION":       true,
	"DATING":              true,
	"EDUCATION":           true,
	"ENTERTAINMENT":       true,
	"EVENTS":              true,
	"FINANCE":             true,
	"FOOD_AND_DRINK":      true,
	"HEALTH_AND_FITNESS":  true,
	"HOUSE_AND_HOME":      true,
	"LIBRARIES_AND_DEMO":  true,
	"LIFESTYLE":           true,
	"MAPS_AND_NAVIGATION": true,
	"MEDICAL":             true,
	"MUSIC_AND_AUDIO":     true,
	"NEWS_AND_MAGAZINES":  true,
	"PARENTING":           true,
	"PERSONALIZATION":     true,
	"PHOTOGRAPHY":         true,
	"PRODUCTIVITY":        true,
	"SHOPPING":            true,
	"SOCIAL":              true,
	"SPORTS":              true,
	"TOOLS":               true,
	"TRAVEL_AND_LOCAL":    true,
	"VIDEO_PLAYERS":       true,
	"WATCH_FACE":          true,
	"WEATHER":             true,
	"GAME":                true,
	"GAME_ACTION":         true,
	"GAME_ADVENTURE":      true,
	"GAME_ARCADE":         true,
	"GAME_BOARD":          true,
	"GAME_CARD":           true,
	"GAME_CASINO":         true,
	"GAME_CASUAL":         true,
	"GAME_EDUCATIONAL":    true,
	"GAME_MUSIC":          true,
	"GAME_PUZZLE":         true,
	"GAME_RACING":         true,
	"GAME_ROLE_PLAYING":   true,
	"GAME_SIMULATION":     true,
	"GAME_SPORTS":         true,
	"GAME_STRATEGY":       true,
	"GAME_TRIVIA":         true,
	"GAME_WORD":           true,
	"FAMILY":              true,
}

// Review sort orders as the upstream encodes them.
var reviewSorts = map[string]int{
	"HELPFULNESS": 1,
	"NEWEST":      2,
	"RATING":      3,
}

// Search price filters as the upstream encodes them.
var searchPrices = map[string]string{
	"all":  "0",
	"free": "1",
	"paid": "2",
}

// parseReviewSort accepts a sort name or its numeric code.
func parseReviewSort(raw string) (int, bool) {
	if raw == "" {
		return reviewSorts["NEWEST"], true
	}
	if code, ok := reviewSorts[strings.ToUpper(raw)]; ok {
		return code, true
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	for _, known := range reviewSorts {
		if known == code {
			return code, true
		}
	}
	return 0, false
}
