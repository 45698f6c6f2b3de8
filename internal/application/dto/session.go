package dto

type UpdateSessionCommand struct {
	Address     *string `json:"address,omitempty"`
	SlippageBps *int64  `json:"slippageBps,omitempty"`
}

type GetSessionQuery struct{}

type SessionOutput struct {
	Address     string `json:"address,omitempty"`
	Network     string `json:"network"`
	SlippageBps int64  `json:"slippageBps"`
}
