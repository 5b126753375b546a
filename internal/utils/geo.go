package utils

import "fmt"

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is the axis-aligned box enclosing a set of points, used for
// fitting a map viewport around a cluster.
type Bounds struct {
	Northeast Point `json:"northeast"`
	Southwest Point `json:"southwest"`
}

func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

func IsValidCoordinates(lat, lng float64) bool {
	if lat < -90 || lat > 90 {
		return false
	}
	return lng >= -180 && lng <= 180
}

// CalculateCenter returns the arithmetic mean of the points. Good
// enough at campus scale, where clusters span tens of meters.
func CalculateCenter(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var center Point
	for _, p := range points {
		center.Lat += p.Lat
		center.Lng += p.Lng
	}
	center.Lat /= float64(len(points))
	center.Lng /= float64(len(points))

	return center
}

// CalculateBounds returns nil when points is empty.
func CalculateBounds(points []Point) *Bounds {
	if len(points) == 0 {
		return nil
	}

	b := &Bounds{Northeast: points[0], Southwest: points[0]}
	for _, p := range points[1:] {
		if p.Lat > b.Northeast.Lat {
			b.Northeast.Lat = p.Lat
		}
		if p.Lng > b.Northeast.Lng {
			b.Northeast.Lng = p.Lng
		}
		if p.Lat < b.Southwest.Lat {
			b.Southwest.Lat = p.Lat
		}
		if p.Lng < b.Southwest.Lng {
			b.Southwest.Lng = p.Lng
		}
	}

	return b
}
