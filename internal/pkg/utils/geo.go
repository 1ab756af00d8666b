package utils

import "math"

const earthRadiusMeters = 6371000.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// centralAngle - центральный угол между двумя точками по формуле гаверсинусов (радианы)
func centralAngle(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	// произведение косинусов считается первым, чтобы результат не зависел от порядка точек
	a := sinLat*sinLat + math.Cos(lat1Rad)*math.Cos(lat2Rad)*sinLon*sinLon
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceMeters - расстояние по большому кругу, округлённое до целого метра
func DistanceMeters(lat1, lon1, lat2, lon2 float64) int {
	return int(math.Round(earthRadiusMeters * centralAngle(lat1, lon1, lat2, lon2)))
}
