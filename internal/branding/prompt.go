package branding

import (
	"fmt"
	"strings"

	"github.com/brandgen/brandgen-go/internal/model"
)

// VariationCount is the number of logo candidates produced per request.
const VariationCount = 4

const basePrompt = "Create a professional logo with prominent colors being dark blue, light blue, orange and yellow."

var stylePrompts = map[string]string{
	"professional": "Create a professional and corporate style with clean lines and traditional business elements.",
	"modern":       "Design a sleek, contemporary, and minimalist composition.",
	"friendly":     "Generate a warm and welcoming design with approachable elements.",
	"bold":         "Create a strong and impactful design with confident elements.",
	"surprise":     "Incorporate unexpected creative elements while maintaining professionalism.",
	"eccentric":    "Design a unique and artistic interpretation while keeping it business-appropriate.",
}

var themePrompts = map[string]string{
	"house":     "Incorporate a professional house symbol representing property ownership.",
	"handshake": "Include a handshake symbol representing trust and partnership.",
	"key":       "Feature a key symbol representing the milestone of closing.",
	"shield":    "Include a shield icon representing security and protection.",
	"tree":      "Include a tree symbol representing growth and stability.",
	"arrow":     "Incorporate a growth arrow symbolizing financial progress.",
}

var variationHints = [VariationCount]string{
	"Style A: Modern and clean.",
	"Style B: Bold and dynamic.",
	"Style C: Elegant and professional.",
	"Style D: Creative and unique.",
}

// PromptInput carries the already-resolved fields a prompt is assembled from.
type PromptInput struct {
	Name        string
	Suffix      string
	Style       string
	Theme       string
	Description string
}

// StylePrompt returns the sentence for a style key, or "" if unknown.
func StylePrompt(style string) string {
	return stylePrompts[style]
}

// ThemePrompt returns the sentence for a brand theme key, or "" if unknown.
func ThemePrompt(theme string) string {
	return themePrompts[theme]
}

// VariationHint returns the fixed hint for a variation slot. Indices wrap.
func VariationHint(variation int) string {
	i := variation % VariationCount
	if i < 0 {
		i += VariationCount
	}
	return variationHints[i]
}

// BuildPrompt assembles the prompt for one variation slot.
func BuildPrompt(in PromptInput, variation int) string {
	segments := []string{
		basePrompt,
		fmt.Sprintf(`The text "%s %s" should be prominently displayed.`, in.Name, in.Suffix),
		StylePrompt(in.Style),
		ThemePrompt(in.Theme),
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		segments = append(segments, "Additional details: "+d+".")
	}
	segments = append(segments, VariationHint(variation))

	out := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.TrimSpace(strings.Join(out, " "))
}

// BuildPrompts returns one prompt per variation slot, in slot order.
func BuildPrompts(req model.BrandRequest) []string {
	in := PromptInput{
		Name:        BuildName(req),
		Suffix:      req.Suffix,
		Style:       req.Style,
		Theme:       req.BrandTheme,
		Description: req.Description,
	}

	prompts := make([]string, VariationCount)
	for i := range prompts {
		prompts[i] = BuildPrompt(in, i)
	}
	return prompts
}
