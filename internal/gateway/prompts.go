package gateway

import "google.golang.org/genai"

// refineSystemInstruction is the fixed instruction profile for the refine
// call. The visual prompt is required in English so it can feed the image
// model directly.
const refineSystemInstruction = `You are an advanced reality-manifestation guide. The user states an intention; you help them direct their observing awareness so the chosen possibility becomes fixed reality.

Rules:
1. refinedIntention: restate the intention as a present-tense fact. It must feel powerful, clear and certain, as if the chosen reality has already begun to take form.
2. explanation: explain how the observer effect is right now collapsing the scatter of other possibilities and concentrating energy into the chosen version of reality.
3. focusKeywords: extract short, high-frequency power words (abundance, harmony, observation, manifestation, collapse, certainty).
4. visualPrompt: describe one hyper-realistic cinematic scene that encodes this manifestation visually, rich in physical and lighting detail, to serve as a subconscious anchor. English only.

Output strictly JSON.`

// refineContentsPrefix frames the user's raw intention for the model.
const refineContentsPrefix = "Intention to observe and collapse into tangible reality: "

// imagePromptTemplate wraps the visual prompt with the fixed rendering
// framing used for every anchor image.
const imagePromptTemplate = "A profound and mystical hyper-realistic image serving as a quantum anchor for reality manifestation. Cinematic lighting, divine geometry, extreme details, 8k resolution. The image should visually encode the frequency of: %s. Ethereal yet grounded in physical reality."

// refinementSchema constrains the refine response. Every field is
// required; a response missing any of them is rejected at the boundary.
var refinementSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"refinedIntention": {
			Type:        genai.TypeString,
			Description: "The intention restated as presently observed reality",
		},
		"explanation": {
			Type:        genai.TypeString,
			Description: "How the observation is collapsing probability toward this reality",
		},
		"resonanceScore": {
			Type:        genai.TypeNumber,
			Description: "Alignment with the manifestation frequency (0-1)",
		},
		"focusKeywords": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"visualPrompt": {
			Type:        genai.TypeString,
			Description: "Detailed cinematic visual sigil (English)",
		},
	},
	Required: []string{"refinedIntention", "explanation", "resonanceScore", "focusKeywords", "visualPrompt"},
}
