package models

// RepurposeResult is the structured output demanded from the generation
// backend: one entry per target channel.
type RepurposeResult struct {
	TwitterThreads     []string        `json:"twitter_threads"`
	LinkedInPost       string          `json:"linkedin_post"`
	InstagramCaptions  []string        `json:"instagram_captions"`
	EmailNewsletter    EmailNewsletter `json:"email_newsletter"`
	TikTokScripts      []string        `json:"tiktok_scripts"`
	YouTubeDescription string          `json:"youtube_description"`
	KeyHashtags        []string        `json:"key_hashtags"`
}

type EmailNewsletter struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// CostEstimate is a local, display-only token estimate. It is never used for
// billing enforcement.
type CostEstimate struct {
	EstimatedTokens  int     `json:"estimated_tokens"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
}
