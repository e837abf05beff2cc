package routing

import (
	"math"

	"dispatch/internal/entities"

	"github.com/mmcloughlin/geohash"
)

const earthRadiusKm = 6371.0088

// Distance расстояние по большой окружности (haversine) в километрах.
func Distance(a, b entities.Point) float64 {
	const degToRad = math.Pi / 180

	dLat := (b.Lat - a.Lat) * degToRad
	dLng := (b.Lng - a.Lng) * degToRad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*degToRad)*math.Cos(b.Lat*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// у почти противоположных точек округление выводит h за 1, Sqrt(1-h) дал бы NaN
	h = min(max(h, 0), 1)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ResolvePoint берет координаты адреса, а если их нет - декодирует geohash.
func ResolvePoint(addr entities.Address) (entities.Point, bool) {
	if addr.Location != nil {
		return *addr.Location, true
	}
	if addr.Geohash == "" {
		return entities.Point{}, false
	}
	lat, lng := geohash.Decode(addr.Geohash)
	return entities.Point{Lat: lat, Lng: lng}, true
}

// Matrix симметричная матрица расстояний, индекс 0 - точка забора.
type Matrix [][]float64

func NewMatrix(pickup entities.Point, drops []entities.Point) Matrix {
	points := make([]entities.Point, 0, len(drops)+1)
	points = append(points, pickup)
	points = append(points, drops...)

	m := make(Matrix, len(points))
	for i := range m {
		m[i] = make([]float64, len(points))
	}
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			d := Distance(points[i], points[j])
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

// Stops количество точек доставки (без точки забора).
func (m Matrix) Stops() int {
	if len(m) == 0 {
		return 0
	}
	return len(m) - 1
}
