package relayhandler

type HealthResponse struct {
	Status string `json:"status"`
}

type StatsResponse struct {
	Sessions int `json:"sessions"`
	Rooms    int `json:"rooms"`
}
