package ml

import (
	"fmt"
	"strings"

	"github.com/franckalain/frigozen/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LanguageName renders lang for prompts, e.g. "French (français)".
func LanguageName(lang models.Language) string {
	tag, err := language.Parse(string(lang))
	if err != nil {
		tag = language.French
	}
	english := display.English.Languages().Name(tag)
	self := display.Self.Name(tag)
	if self == "" || strings.EqualFold(self, english) {
		return english
	}
	return fmt.Sprintf("%s (%s)", english, self)
}

func receiptPrompt(lang models.Language) string {
	return fmt.Sprintf(`Analyse this grocery receipt and list the food products that were bought.
Answer strictly in %s.
For each product estimate a technical category among %s,
a shelf life in days and a numeric quantity.`, LanguageName(lang), categoryList())
}

func translationPrompt(names []string, lang models.Language) string {
	return fmt.Sprintf(`Translate exactly these food ingredient names into %s.
Return a JSON object where keys are the original names and values are the translations.
Names: %s`, LanguageName(lang), strings.Join(names, ", "))
}

func recipePrompt(ingredients []string, lang models.Language) string {
	return fmt.Sprintf(`Your role: expert anti-waste chef.

AVAILABLE INGREDIENTS:
%s

LANGUAGE:
- Answer exclusively in %s.
- Every JSON field (title, description, ingredients, instructions, prep time, difficulty) must be in that language.
- Do not leave any text in another language.

OUTPUT: answer ONLY with valid JSON following the provided schema.`, strings.Join(ingredients, ", "), LanguageName(lang))
}

func imagePrompt(title string) string {
	return fmt.Sprintf("High-quality close up of %s, gourmet food photography, soft lighting, 4k.", title)
}

// VoiceInstruction grounds the live assistant in the current inventory
func VoiceInstruction(names []string, lang models.Language) string {
	return fmt.Sprintf(`You are an anti-waste chef helping families cook with what they have.
Current fridge inventory: %s.
Your voice is warm and encouraging. Speak exclusively in %s.`, strings.Join(names, ", "), LanguageName(lang))
}

func categoryList() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
