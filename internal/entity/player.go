package entity

type Player struct {
	ID     string `json:"id"`
	Side   Side   `json:"side,omitempty"`
	GameID string `json:"game_id,omitempty"`
}
