package maps

import "context"

// Provider resolves coordinates to named places. The service layer only
// needs reverse geocoding to label bathrooms with a building name, but
// forward geocoding is kept for seeding tools.
type Provider interface {
	Geocode(ctx context.Context, address string) (*GeocodeResponse, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error)
	BuildingName(ctx context.Context, lat, lng float64) (string, error)
}

type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}

type GeocodeResult struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Address     string   `json:"formatted_address"`
	Coordinates Location `json:"geometry"`
	Types       []string `json:"types"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// buildingTypes are the place types worth surfacing as a building name,
// in preference order.
var buildingTypes = []string{"premise", "point_of_interest", "poi", "establishment", "building"}

func pickBuildingName(results []GeocodeResult) string {
	for _, wanted := range buildingTypes {
		for _, result := range results {
			for _, t := range result.Types {
				if t != wanted {
					continue
				}
				if result.Name != "" {
					return result.Name
				}
				return result.Address
			}
		}
	}

	if len(results) > 0 {
		return results[0].Address
	}

	return ""
}
