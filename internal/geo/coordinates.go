package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

var (
	// ErrNoSeparator is returned for an empty coordinate string or one without a comma.
	ErrNoSeparator = errors.New("coordinate string has no comma separator")
	// ErrPartCount is returned when a coordinate string does not split into exactly two parts.
	ErrPartCount = errors.New("coordinate string must have exactly two parts")
)

// LatLon is a textual coordinate pair in "lat, lon" order.
// Values are trimmed but not validated as numbers.
type LatLon struct {
	Lat string
	Lon string
}

// ParseLatLon parses a "<lat>, <lon>" string.
func ParseLatLon(s string) (LatLon, error) {
	if s == "" || !strings.Contains(s, ",") {
		return LatLon{}, ErrNoSeparator
	}

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return LatLon{}, fmt.Errorf("%w: got %d", ErrPartCount, len(parts))
	}

	return LatLon{
		Lat: strings.TrimSpace(parts[0]),
		Lon: strings.TrimSpace(parts[1]),
	}, nil
}

// XY returns the pair in x (lon), y (lat) order as expected by routing tools.
func (c LatLon) XY() (x, y string) {
	return c.Lon, c.Lat
}

// Point converts the pair to an orb point ([lon, lat]).
func (c LatLon) Point() (orb.Point, error) {
	lat, err := strconv.ParseFloat(c.Lat, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("latitude %q: %w", c.Lat, err)
	}
	lon, err := strconv.ParseFloat(c.Lon, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("longitude %q: %w", c.Lon, err)
	}

	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return orb.Point{}, fmt.Errorf("non-finite coordinate %q, %q", c.Lat, c.Lon)
	}

	return orb.Point{lon, lat}, nil
}
