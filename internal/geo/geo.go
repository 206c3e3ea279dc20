package geo

import (
	"fmt"

	"github.com/kelvins/geocoder"
)

// Resolve turns a city/country pair into coordinates using the Google
// geocoding API. Called once at startup when the configured location has no
// explicit latitude/longitude.
func Resolve(city, country, apiKey string) (lat, lon float64, err error) {
	if apiKey == "" {
		return 0, 0, fmt.Errorf("geocoder api key is not configured")
	}
	geocoder.ApiKey = apiKey

	loc, err := geocoder.Geocoding(geocoder.Address{
		City:    city,
		Country: country,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %s,%s: %w", city, country, err)
	}
	return loc.Latitude, loc.Longitude, nil
}
