package ideogram

import "fmt"

const (
	AspectRatioSquare = "ASPECT_1_1"
	ModelV2           = "V_2"
	MagicPromptAuto   = "AUTO"
)

// ImageRequest is the payload nested under "image_request".
type ImageRequest struct {
	Prompt            string `json:"prompt"`
	AspectRatio       string `json:"aspect_ratio,omitempty"`
	Model             string `json:"model,omitempty"`
	MagicPromptOption string `json:"magic_prompt_option,omitempty"`
}

type generateRequest struct {
	ImageRequest ImageRequest `json:"image_request"`
}

// Image is one generated image entry.
type Image struct {
	URL         string `json:"url"`
	Prompt      string `json:"prompt"`
	Resolution  string `json:"resolution"`
	IsImageSafe bool   `json:"is_image_safe"`
	Seed        int64  `json:"seed"`
}

// ImageResponse is the decoded /generate response body.
type ImageResponse struct {
	Created string  `json:"created"`
	Data    []Image `json:"data"`
}

// FirstURL returns the URL of the first image, or "" if none was returned.
func (r ImageResponse) FirstURL() string {
	if len(r.Data) == 0 {
		return ""
	}
	return r.Data[0].URL
}

// APIError is returned when the provider answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ideogram API %s: %s", e.Status, e.Body)
}
