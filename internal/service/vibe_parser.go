package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"vibehouse/internal/model"
	"vibehouse/internal/utils"
)

// Parser defaults and bounds
const (
	DefaultBedrooms   = 3
	DefaultBathrooms  = 2.0
	DefaultFloors     = 1
	DefaultStyle      = "modern"
	DefaultBudgetLow  = 250000
	DefaultBudgetHigh = 450000

	minLotSqft  = 1000
	minTarget   = 400
	sqftPerAcre = 43560
)

// styleKeyword maps a keyword found in text to a canonical style.
// Declaration order is the tie-break when several keywords appear.
type styleKeyword struct {
	keyword string
	style   string
}

var styleKeywords = []styleKeyword{
	{"modern", "modern"},
	{"contemporary", "contemporary"},
	{"farmhouse", "farmhouse"},
	{"farm house", "farmhouse"},
	{"craftsman", "craftsman"},
	{"colonial", "colonial"},
	{"ranch", "ranch"},
	{"mid-century", "contemporary"},
	{"mid century", "contemporary"},
	{"minimalist", "modern"},
	{"traditional", "colonial"},
	{"rustic", "farmhouse"},
	{"industrial", "modern"},
	{"mediterranean", "contemporary"},
	{"tudor", "colonial"},
	{"victorian", "colonial"},
	{"cape cod", "colonial"},
}

// specialFeatures is scanned in order; every substring hit becomes a requirement
var specialFeatures = []string{
	"home office",
	"office",
	"wine cellar",
	"theater",
	"media room",
	"gym",
	"workshop",
	"mudroom",
	"mud room",
	"pantry",
	"walk-in closet",
	"laundry room",
	"bonus room",
	"playroom",
	"library",
	"sunroom",
	"sun room",
	"sauna",
	"pool",
	"hot tub",
	"ev charging",
	"smart home",
	"solar",
	"accessibility",
	"ada",
	"guest suite",
	"in-law suite",
	"mother-in-law",
}

var numberWords = []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

var wordToNum = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"single": 1, "double": 2, "triple": 3,
}

var (
	bedroomPattern  = newNumberPattern(`bed(?:room)?s?`)
	bathroomPattern = newNumberPattern(`bath(?:room)?s?`)
	floorPatterns   = []numberPattern{
		newNumberPattern(`stor(?:y|ies)`),
		newNumberPattern(`floor`),
		newNumberPattern(`level`),
	}

	halfBathRe  = regexp.MustCompile(`(?i)half\s*bath`)
	storySizeRe = regexp.MustCompile(`(?i)(` + strings.Join(numberWords, "|") + `|single|double|triple|\d)\s*[-\s]?stor(?:y|ied|ies)`)

	budgetKRangeRe = regexp.MustCompile(`(?i)\$?([\d,.]+)\s*k?\s*[-–to]+\s*\$?([\d,.]+)\s*k`)
	budgetDollarRe = regexp.MustCompile(`(?i)\$?([\d,]+)\s*(?:to|-|–)\s*\$?([\d,]+)`)
	budgetSingleRe = regexp.MustCompile(`(?i)budget\s*(?:of|around|about|is|:)?\s*\$?([\d,]+)\s*k?`)

	acreRe        = regexp.MustCompile(`(?i)([\d.]+)\s*[-\s]?acre`)
	halfAcreRe    = regexp.MustCompile(`(?i)half\s*[-\s]?acre`)
	quarterAcreRe = regexp.MustCompile(`(?i)quarter\s*[-\s]?acre`)
	lotSqftRe     = regexp.MustCompile(`(?i)([\d,]+)\s*(?:sq\.?\s*ft|sqft|sf)\s*lot`)

	sqftPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d[\d,]*)\s*(?:sq\.?\s*ft|square\s*feet|sqft|sf)`),
		regexp.MustCompile(`(?i)(\d[\d,]*)\s*(?:square\s*foot)`),
	}

	garageKeywords  = newBoolFeature("garage")
	outdoorKeywords = newBoolFeature("outdoor", "patio", "deck", "porch", "yard", "garden")
)

// VibeParser converts free-form vibe descriptions into requirement specifications.
// It is keyword based and deterministic: the same text always yields the same result.
type VibeParser struct{}

// NewVibeParser creates a new vibe parser
func NewVibeParser() *VibeParser {
	return &VibeParser{}
}

// Parse extracts a requirement specification from text. Every field falls back to a
// default, so Parse never fails.
func (p *VibeParser) Parse(text string) model.RequirementSpecification {
	bedrooms := DefaultBedrooms
	bathrooms := DefaultBathrooms
	if n, ok := bedroomPattern.find(text); ok && int(n) > 0 {
		bedrooms = int(n)
		bathrooms = math.Max(2.0, float64(bedrooms)*0.75)
	}

	if n, ok := bathroomPattern.find(text); ok && n > 0 {
		// stated counts come in half increments
		bathrooms = math.Max(math.Floor(n*2)/2, 1)
	}
	if halfBathRe.MatchString(text) {
		bathrooms += 0.5
	}

	floors := max(extractFloors(text), 1)

	targetSqft := extractSqft(text)
	if targetSqft <= 0 {
		targetSqft = defaultTargetSqft(bedrooms, floors)
	}
	if targetSqft < minTarget {
		targetSqft = minTarget
	}

	lotSqft := extractLotSqft(text)
	if lotSqft <= 0 {
		lotSqft = max(targetSqft*3, 6000)
	}
	if lotSqft < minLotSqft {
		lotSqft = minLotSqft
	}

	budget, ok := extractBudget(text)
	if !ok {
		budget = model.BudgetRange{Low: DefaultBudgetLow, High: DefaultBudgetHigh}
	}

	return model.RequirementSpecification{
		Bedrooms:            bedrooms,
		Bathrooms:           bathrooms,
		Floors:              floors,
		Style:               detectStyle(text),
		BudgetRange:         budget,
		LotSqft:             lotSqft,
		TargetSqft:          targetSqft,
		SpecialRequirements: detectSpecialRequirements(text),
		Garage:              garageKeywords.detect(text, true),
		OutdoorSpace:        outdoorKeywords.detect(text, true),
	}
}

// numberPattern finds a digit or spelled-out number directly before a keyword
// ("4 bedrooms", "4-bedroom", "four bedrooms")
type numberPattern struct {
	digit *regexp.Regexp
	word  *regexp.Regexp
}

func newNumberPattern(keyword string) numberPattern {
	return numberPattern{
		digit: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*[-\s]?\s*` + keyword),
		word:  regexp.MustCompile(`(?i)(` + strings.Join(numberWords, "|") + `)\s+` + keyword),
	}
}

func (np numberPattern) find(text string) (float64, bool) {
	if m := np.digit.FindStringSubmatch(text); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			return n, true
		}
	}
	if m := np.word.FindStringSubmatch(text); m != nil {
		return float64(wordToNum[strings.ToLower(m[1])]), true
	}
	return 0, false
}

func extractFloors(text string) int {
	for _, pattern := range floorPatterns {
		if n, ok := pattern.find(text); ok && int(n) > 0 {
			return int(n)
		}
	}

	// "two-story", "single-storied"
	if m := storySizeRe.FindStringSubmatch(text); m != nil {
		word := strings.ToLower(m[1])
		if n, ok := wordToNum[word]; ok {
			return n
		}
		if n, err := strconv.Atoi(word); err == nil && n > 0 {
			return n
		}
	}

	return DefaultFloors
}

func detectStyle(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range styleKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.style
		}
	}
	return DefaultStyle
}

func extractBudget(text string) (model.BudgetRange, bool) {
	// "400-550k", "400k-550k"
	for _, m := range budgetKRangeRe.FindAllStringSubmatch(text, -1) {
		lo, errLo := parseAmount(m[1])
		hi, errHi := parseAmount(m[2])
		if errLo != nil || errHi != nil {
			continue
		}
		if lo < 1000 {
			lo *= 1000
		}
		if hi < 1000 {
			hi *= 1000
		}
		return orderedBudget(int(lo), int(hi)), true
	}

	// "$400,000 to $550,000"; small figures are usually not money
	for _, m := range budgetDollarRe.FindAllStringSubmatch(text, -1) {
		lo, errLo := parseAmount(m[1])
		hi, errHi := parseAmount(m[2])
		if errLo != nil || errHi != nil {
			continue
		}
		if lo > 10000 && hi > 10000 {
			return orderedBudget(int(lo), int(hi)), true
		}
		break
	}

	// "budget of $500k" -> +/- 20%
	for _, m := range budgetSingleRe.FindAllStringSubmatch(text, -1) {
		val, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		if val < 1000 {
			val *= 1000
		}
		n := float64(int(val))
		return orderedBudget(int(n*0.8), int(n*1.2)), true
	}

	return model.BudgetRange{}, false
}

func orderedBudget(lo, hi int) model.BudgetRange {
	if lo > hi {
		lo, hi = hi, lo
	}
	return model.BudgetRange{Low: lo, High: hi}
}

func extractLotSqft(text string) int {
	for _, m := range acreRe.FindAllStringSubmatch(text, -1) {
		acres, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return int(acres * sqftPerAcre)
	}
	if halfAcreRe.MatchString(text) {
		return sqftPerAcre / 2
	}
	if quarterAcreRe.MatchString(text) {
		return sqftPerAcre / 4
	}
	if m := lotSqftRe.FindStringSubmatch(text); m != nil {
		if n, err := parseAmount(m[1]); err == nil {
			return int(n)
		}
	}
	return 0
}

func extractSqft(text string) int {
	for _, re := range sqftPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := parseAmount(m[1]); err == nil {
				return int(n)
			}
		}
	}
	return 0
}

func detectSpecialRequirements(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, feature := range specialFeatures {
		if strings.Contains(lower, feature) {
			found = append(found, utils.NormalizeFeature(feature))
		}
	}
	return found
}

func defaultTargetSqft(bedrooms, floors int) int {
	return (800 + bedrooms*350) * floors
}

// boolFeature detects an explicitly wanted or declined feature
type boolFeature struct {
	keywords []string
	negated  []*regexp.Regexp
}

func newBoolFeature(keywords ...string) boolFeature {
	negated := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		negated[i] = regexp.MustCompile(`\bno\s+` + regexp.QuoteMeta(kw))
	}
	return boolFeature{keywords: keywords, negated: negated}
}

// detect returns false for "no <keyword>", true for a bare keyword and fallback when
// none of the keywords is mentioned
func (f boolFeature) detect(text string, fallback bool) bool {
	lower := strings.ToLower(text)
	for i, kw := range f.keywords {
		if f.negated[i].MatchString(lower) {
			return false
		}
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return fallback
}

func parseAmount(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
}
