package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Driver status sets mirrored into Redis.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// NearbyDriver represents a driver returned from Redis GEO queries.
type NearbyDriver struct {
	ID   int64   `json:"driver_id"`
	Dist float64 `json:"distance_m"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

// DriverLocator mirrors taxi positions into per-status Redis GEO sets so the
// dashboard can find screens near a high-viewership location.
type DriverLocator struct {
	rdb  *redis.Client
	city string
}

// NewDriverLocator creates a locator for one city.
func NewDriverLocator(rdb *redis.Client, city string) *DriverLocator {
	return &DriverLocator{rdb: rdb, city: normalizeCity(city)}
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func redisKey(city, status string) string {
	return fmt.Sprintf("drivers:%s:%s", city, status)
}

func memberName(driverID int64) string {
	return fmt.Sprintf("driver:%d", driverID)
}

func parseDriverMember(member string) (int64, error) {
	parts := strings.Split(member, ":")
	if len(parts) != 2 || parts[0] != "driver" {
		return 0, fmt.Errorf("invalid member %q", member)
	}
	return strconv.ParseInt(parts[1], 10, 64)
}

// statusSet maps a fleet status label (Active, Inactive, ...) to a set name.
func statusSet(status string) string {
	if strings.EqualFold(status, "active") {
		return StatusActive
	}
	return StatusInactive
}

func validCoords(lon, lat float64) error {
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return fmt.Errorf("invalid coords lon=%.8f lat=%.8f", lon, lat)
	}
	if math.Abs(lon) < 1e-4 && math.Abs(lat) < 1e-4 {
		return fmt.Errorf("near-zero coords lon=%.8f lat=%.8f", lon, lat)
	}
	return nil
}

// UpdateDriver stores the driver's position in the set for its status and
// removes it from the other set.
func (l *DriverLocator) UpdateDriver(ctx context.Context, driverID int64, lon, lat float64, status string) error {
	if err := validCoords(lon, lat); err != nil {
		return fmt.Errorf("update driver %d: %w", driverID, err)
	}
	set := statusSet(status)
	other := StatusInactive
	if set == StatusInactive {
		other = StatusActive
	}
	mem := memberName(driverID)

	pipe := l.rdb.TxPipeline()
	pipe.GeoAdd(ctx, redisKey(l.city, set), &redis.GeoLocation{
		Name:      mem,
		Longitude: lon,
		Latitude:  lat,
	})
	pipe.ZRem(ctx, redisKey(l.city, other), mem)
	_, err := pipe.Exec(ctx)
	return err
}

// Nearby returns active drivers within radius sorted by distance.
func (l *DriverLocator) Nearby(ctx context.Context, lon, lat, radiusMeters float64, limit int) ([]NearbyDriver, error) {
	res, err := l.rdb.GeoSearchLocation(ctx, redisKey(l.city, StatusActive), &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  lon,
			Latitude:   lat,
			Radius:     radiusMeters,
			RadiusUnit: "m",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	drivers := make([]NearbyDriver, 0, len(res))
	for _, item := range res {
		id, err := parseDriverMember(item.Name)
		if err != nil {
			continue
		}
		drivers = append(drivers, NearbyDriver{
			ID:   id,
			Dist: item.Dist,
			Lon:  item.Longitude,
			Lat:  item.Latitude,
		})
	}
	return drivers, nil
}
