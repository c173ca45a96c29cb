package trust

import (
	"math"
	"strings"
)

// domainWeight pairs a URL fragment with the score a match grants
type domainWeight struct {
	fragment string
	score    float64
}

// trustedDomains lists the fragments that raise a source's base score
var trustedDomains = []domainWeight{
	{".gouv.fr", 0.95},
	{".edu", 0.90},
	{"education.gouv.fr", 0.98},
	{"eduscol.education.fr", 0.95},
	{"ac-", 0.85},
	{"rectorat", 0.85},
	{"reseau-canope.fr", 0.90},
	{"bnf.fr", 0.88},
	{"cnrs.fr", 0.92},
	{"universit", 0.75},
	{"lycee", 0.70},
	{".org", 0.60},
	{".com", 0.40},
	{"wikipedia", 0.65},
}

// qualityIndicators are words in page content hinting at academic quality
var qualityIndicators = []string{
	"bibliographie", "références", "source", "étude", "recherche",
	"académique", "officiel", "ministère", "université", "peer-review",
}

const (
	baseScore        = 0.5
	indicatorBonus   = 0.03
	maxContentBonus  = 0.15
	maxContentScored = 0.98
)

// ScoreURL estimates how trustworthy a source is from its URL and, optionally,
// a sample of its content. The result is in [0.5, 0.98] rounded to 2 decimals
func ScoreURL(url, content string) float64 {
	score := baseScore

	lowerURL := strings.ToLower(url)
	for _, d := range trustedDomains {
		if strings.Contains(lowerURL, d.fragment) {
			score = math.Max(score, d.score)
		}
	}

	if content != "" {
		lowerContent := strings.ToLower(content)
		count := 0
		for _, indicator := range qualityIndicators {
			if strings.Contains(lowerContent, indicator) {
				count++
			}
		}
		bonus := math.Min(maxContentBonus, float64(count)*indicatorBonus)
		score = math.Min(maxContentScored, score+bonus)
	}

	return math.Round(score*100) / 100
}

// Level names the reliability band of a source score
func Level(score float64) string {
	switch {
	case score >= 0.8:
		return "Très fiable"
	case score >= 0.6:
		return "Fiable"
	case score >= 0.4:
		return "Modérément fiable"
	default:
		return "Peu fiable"
	}
}

// Recommendation is the advice shown next to a source score
func Recommendation(score float64) string {
	switch {
	case score >= 0.7:
		return "Source recommandée"
	case score >= 0.5:
		return "Vérifier avec d'autres sources"
	default:
		return "Source non recommandée"
	}
}
