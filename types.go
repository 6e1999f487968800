package resist

// --------------------------------------------------------------------------
// API root
// --------------------------------------------------------------------------

// CaptchaFeature is the captcha provider.
type CaptchaFeature struct {
	Enabled bool   `json:"enabled"`
	Key     string `json:"key"`
}

// ServiceFeature is an auxiliary service: the file server (autumn) or the
// link proxy (january).
type ServiceFeature struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
}

// VoiceFeature is the voice server.
type VoiceFeature struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	WS      string `json:"ws"`
}

// Features lists what the server instance supports.
type Features struct {
	Captcha    CaptchaFeature `json:"captcha"`
	Email      bool           `json:"email"`
	InviteOnly bool           `json:"invite_only"`
	Autumn     ServiceFeature `json:"autumn"`
	January    ServiceFeature `json:"january"`
	Voso       VoiceFeature   `json:"voso"`
}

// APIContext is the response of the API root. WS is the gateway address.
type APIContext struct {
	Revolt   string   `json:"revolt"`
	Features Features `json:"features"`
	WS       string   `json:"ws"`
	App      string   `json:"app"`
	Vapid    string   `json:"vapid"`
}
