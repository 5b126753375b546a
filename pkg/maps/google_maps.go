package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

type GoogleMapsProvider struct {
	client *maps.Client
}

func NewGoogleMapsProvider(apiKey string) (*GoogleMapsProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleMapsProvider{
		client: client,
	}, nil
}

func (g *GoogleMapsProvider) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	req := &maps.GeocodingRequest{
		Address: address,
	}

	resp, err := g.client.Geocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}

	return &GeocodeResponse{Results: convertResults(resp)}, nil
}

func (g *GoogleMapsProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error) {
	req := &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	}

	resp, err := g.client.ReverseGeocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding failed: %w", err)
	}

	return &GeocodeResponse{Results: convertResults(resp)}, nil
}

func (g *GoogleMapsProvider) BuildingName(ctx context.Context, lat, lng float64) (string, error) {
	resp, err := g.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return "", err
	}

	return pickBuildingName(resp.Results), nil
}

func convertResults(resp []maps.GeocodingResult) []GeocodeResult {
	results := make([]GeocodeResult, len(resp))
	for i, result := range resp {
		name := ""
		for _, component := range result.AddressComponents {
			for _, t := range component.Types {
				if t == "premise" || t == "point_of_interest" {
					name = component.LongName
				}
			}
		}

		results[i] = GeocodeResult{
			PlaceID: result.PlaceID,
			Name:    name,
			Address: result.FormattedAddress,
			Coordinates: Location{
				Latitude:  result.Geometry.Location.Lat,
				Longitude: result.Geometry.Location.Lng,
			},
			Types: result.Types,
		}
	}

	return results
}
