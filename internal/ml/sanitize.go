package ml

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/franckalain/frigozen/internal/models"
	"github.com/go-playground/validator/v10"
)

// Model output is untrusted: everything below decodes loosely and keeps only
// what passes validation.

var validate = validator.New()

var (
	shelfLifeRule = fmt.Sprintf("min=1,max=%d", models.MaxShelfLifeDays)
	quantityRule  = fmt.Sprintf("min=1,max=%d", models.MaxQuantity)
)

// trimFences strips the markdown code fence models sometimes wrap JSON in
func trimFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// decodeReceipt turns the model's JSON array into validated receipt lines.
// Entries that are not objects or have no name are dropped.
func decodeReceipt(text string) ([]models.ReceiptLine, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(trimFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse receipt response: %w", err)
	}

	lines := make([]models.ReceiptLine, 0, len(raw))
	for _, entry := range raw {
		var fields map[string]any
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			continue
		}
		line := models.ReceiptLine{
			Name:            strings.TrimSpace(asString(fields["name"])),
			Category:        models.ParseCategory(asString(fields["category"])),
			ShelfLifeDays:   bounded(asInt(fields["shelfLifeDays"]), shelfLifeRule),
			QuantityLabel:   strings.TrimSpace(asString(fields["quantity"])),
			NumericQuantity: bounded(asInt(fields["numericQuantity"]), quantityRule),
		}
		if err := validate.Struct(line); err != nil {
			log.Printf("Dropping receipt line: %v", err)
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// decodeTranslations keeps the string-to-string pairs of the model's JSON object
func decodeTranslations(text string) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(trimFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse translation response: %w", err)
	}
	mapping := make(map[string]string, len(raw))
	for original, value := range raw {
		translated, ok := value.(string)
		if !ok || strings.TrimSpace(translated) == "" {
			continue
		}
		mapping[original] = strings.TrimSpace(translated)
	}
	return mapping, nil
}

// decodeRecipes returns the recipes that carry at least a title
func decodeRecipes(text string) ([]models.Recipe, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(trimFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse recipe response: %w", err)
	}

	recipes := make([]models.Recipe, 0, len(raw))
	for _, entry := range raw {
		var fields map[string]any
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			continue
		}
		recipe := models.Recipe{
			Title:        strings.TrimSpace(asString(fields["title"])),
			Description:  asString(fields["description"]),
			Ingredients:  asStrings(fields["ingredients"]),
			Instructions: asStrings(fields["instructions"]),
			PrepTime:     asString(fields["prepTime"]),
			Difficulty:   asString(fields["difficulty"]),
		}
		if err := validate.Struct(recipe); err != nil {
			log.Printf("Dropping recipe: %v", err)
			continue
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func asStrings(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if s := strings.TrimSpace(asString(entry)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// bounded keeps n when it satisfies rule. Otherwise it reads as 0 and the
// item defaults apply.
func bounded(n int, rule string) int {
	if err := validate.Var(n, rule); err != nil {
		return 0
	}
	return n
}

// asInt reads a whole number from a JSON number or numeric string. Anything
// else, including NaN and values out of int range, reads as 0.
func asInt(v any) int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(math.Round(f))
}
