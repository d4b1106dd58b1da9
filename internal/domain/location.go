package domain

// Location is a place that can be visited on a tour. It is owned by the
// portal backend and consumed here read-only.
type Location struct {
	ID        string
	Name      string
	Address   string
	Category  string
	Latitude  float64
	Longitude float64
	OpenTime  string
	CloseTime string
	Medias    []string
}

func (l Location) Coordinates() Coordinates {
	return Coordinates{Lat: l.Latitude, Lng: l.Longitude}
}
