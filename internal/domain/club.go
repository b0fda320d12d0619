package domain

import "context"

// Club is a venue that owns events.
// swagger:model Club
type Club struct {
	ID                  string  `json:"club_id"`
	Name                string  `json:"club_name"`
	DefaultWorkingHours string  `json:"default_working_hours"`
	WorkingDays         string  `json:"working_days"`
	Latitude            Degrees `json:"latitude"`
	Longitude           Degrees `json:"longitude"`
}

// Coordinates parses the club location.
func (c Club) Coordinates() (Coordinates, error) {
	return ParseCoordinates(c.Latitude, c.Longitude)
}

// EnrichedClub is a Club with its reverse-geocoded address (nil when unresolved).
// swagger:model EnrichedClub
type EnrichedClub struct {
	Club
	Address *string `json:"address"`
}

// ClubSource is the clubs side of the RiConnect API.
type ClubSource interface {
	NearbyClubs(ctx context.Context, token string, at Coordinates) ([]Club, error)
}

// ClubService lists clubs around the user.
type ClubService interface {
	Nearby(ctx context.Context, token string, at Coordinates) []EnrichedClub
}
