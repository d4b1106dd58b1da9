package dto

type LocationResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Category  string   `json:"category"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	OpenTime  string   `json:"open_time"`
	CloseTime string   `json:"close_time"`
	Medias    []string `json:"medias"`
}

type ListLocationResponse struct {
	Locations []LocationResponse `json:"locations"`
}
