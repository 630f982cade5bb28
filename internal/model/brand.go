package model

import (
	"encoding/json"
	"fmt"
)

// NameMode selects how the display name is shortened. The zero value renders
// the full name.
type NameMode string

const (
	NameModeFull        NameMode = ""
	NameModeAbbreviated NameMode = "abbreviated"
	NameModeFirstOnly   NameMode = "firstOnly"
	NameModeLastOnly    NameMode = "lastOnly"
)

// Valid reports whether m is one of the known name modes.
func (m NameMode) Valid() bool {
	switch m {
	case NameModeFull, NameModeAbbreviated, NameModeFirstOnly, NameModeLastOnly:
		return true
	}
	return false
}

// Suffix values accepted by the branding form.
const (
	SuffixTeam          = "Team"
	SuffixGroup         = "Group"
	SuffixMortgageTeam  = "Mortgage Team"
	SuffixMortgageGroup = "Mortgage Group"
)

// BrandRequest represents the branding form submission.
type BrandRequest struct {
	Prefix      bool     `json:"prefix"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Suffix      string   `json:"suffix" validate:"required,oneof=Team Group 'Mortgage Team' 'Mortgage Group'"`
	Style       string   `json:"style,omitempty"`
	BrandTheme  string   `json:"brandTheme,omitempty"`
	Description string   `json:"description,omitempty" validate:"max=200"`
	NameMode    NameMode `json:"nameMode,omitempty"`
}

// brandRequestWire mirrors the form payload, which still sends the three
// mutually exclusive checkboxes as separate booleans.
type brandRequestWire struct {
	Prefix             bool    `json:"prefix"`
	FirstName          string  `json:"firstName"`
	LastName           string  `json:"lastName"`
	Suffix             string  `json:"suffix"`
	Style              string  `json:"style"`
	BrandTheme         string  `json:"brandTheme"`
	Description        string  `json:"description"`
	NameMode           *string `json:"nameMode"`
	UseAbbreviatedName bool    `json:"useAbbreviatedName"`
	UseFirstNameOnly   bool    `json:"useFirstNameOnly"`
	UseLastNameOnly    bool    `json:"useLastNameOnly"`
}

// UnmarshalJSON resolves the legacy checkbox flags into a single NameMode.
// An explicit nameMode takes precedence over the flags.
func (r *BrandRequest) UnmarshalJSON(data []byte) error {
	var w brandRequestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	mode := NameModeFull
	switch {
	case w.NameMode != nil:
		mode = NameMode(*w.NameMode)
		if !mode.Valid() {
			return fmt.Errorf("unknown nameMode %q", *w.NameMode)
		}
	case w.UseAbbreviatedName:
		mode = NameModeAbbreviated
	case w.UseFirstNameOnly:
		mode = NameModeFirstOnly
	case w.UseLastNameOnly:
		mode = NameModeLastOnly
	}

	*r = BrandRequest{
		Prefix:      w.Prefix,
		FirstName:   w.FirstName,
		LastName:    w.LastName,
		Suffix:      w.Suffix,
		Style:       w.Style,
		BrandTheme:  w.BrandTheme,
		Description: w.Description,
		NameMode:    mode,
	}
	return nil
}

// GenerateResponse lists the generated image URLs in variation order.
// DownloadTickets is index-aligned with ImageURLs when tickets are enabled.
type GenerateResponse struct {
	ImageURLs       []string `json:"imageUrls"`
	DownloadTickets []string `json:"downloadTickets,omitempty"`
}

// ErrorResponse is the JSON error body used by the brand endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
