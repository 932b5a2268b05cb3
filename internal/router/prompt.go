package router

const defaultPrompt = `You are the intent router of {{.Assistant}}, a personal assistant that talks to its user over Discord direct messages.
Pick the single feature below that should handle the user's message.

User message: """{{.Message}}"""

Available features (index: name - description):
{{range .Features}}
[{{.Index}}] {{.Name}} - {{.Description}}
{{.Capabilities}}
{{end}}
Rules:
- Choose by meaning, not by isolated words.
- "feature_index" is the 0-based index shown in brackets, or null if nothing fits.
- "confidence" is a number between 0 and 1.
- "reasoning" is one short sentence.

Return ONLY a JSON object with exactly these fields and no markdown:
{"feature_index": <int or null>, "confidence": <float>, "reasoning": "<string>"}`

type promptFeature struct {
	Index        int
	Name         string
	Description  string
	Capabilities string
}

type promptData struct {
	Assistant string
	Message   string
	Features  []promptFeature
}
