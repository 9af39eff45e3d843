package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"driver-console-service/internal/domain"
	"driver-console-service/internal/ports"
)

// RedisSessionCache is the reload-survival store for a driver's console
// session, playing the role the browser's localStorage plays for the web
// console. Entries have no TTL: an itinerary must outlive arbitrary gaps
// between sessions.
type RedisSessionCache struct {
	Client *redis.Client
}

func NewRedisSessionCache(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{Client: client}
}

func stateKey(driverID string) string    { return "console:" + driverID + ":state" }
func progressKey(driverID string) string { return "console:" + driverID + ":progress" }
func snapshotKey(driverID string) string { return "console:" + driverID + ":snapshot" }

type legRecord struct {
	OrderID  *string `json:"id"`
	Pickup   string  `json:"pickup"`
	Delivery string  `json:"delivery"`
	Onboard  bool    `json:"onboard,omitempty"`
}

type stateRecord struct {
	DriverLoc string      `json:"driver_loc"`
	Legs      []legRecord `json:"legs"`
	Waypoints []string    `json:"waypoints,omitempty"`
}

type progressRecord struct {
	RouteHash string `json:"route_hash"`
	StopIndex int    `json:"stop_index"`
}

type snapshotStopRecord struct {
	Address string    `json:"address"`
	Coord   []float64 `json:"coord"`
	Type    string    `json:"type,omitempty"`
	Label   string    `json:"label,omitempty"`
}

type snapshotRecord struct {
	Stops            []snapshotStopRecord `json:"stops"`
	Path             [][]float64          `json:"path,omitempty"`
	TotalTimeSeconds int                  `json:"total_time_seconds"`
}

func (c *RedisSessionCache) SaveState(ctx context.Context, driverID string, state ports.SessionState) error {
	if c.Client == nil {
		return errors.New("session cache: client is nil")
	}

	rec := stateRecord{
		DriverLoc: state.DriverLoc,
		Legs:      make([]legRecord, 0, len(state.Legs)),
	}
	for _, leg := range state.Legs {
		rec.Legs = append(rec.Legs, legRecord{
			OrderID:  leg.OrderID,
			Pickup:   leg.Pickup,
			Delivery: leg.Delivery,
			Onboard:  leg.Onboard,
		})
	}
	for _, wp := range state.Waypoints {
		rec.Waypoints = append(rec.Waypoints, wp.Address)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("save session state: encode: %w", err)
	}

	if err := c.Client.Set(ctx, stateKey(driverID), raw, 0).Err(); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

func (c *RedisSessionCache) LoadState(ctx context.Context, driverID string) (*ports.SessionState, error) {
	if c.Client == nil {
		return nil, errors.New("session cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, stateKey(driverID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}

	var rec stateRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("load session state: decode: %w", err)
	}

	state := &ports.SessionState{
		DriverLoc: rec.DriverLoc,
		Legs:      make([]domain.PassengerLeg, 0, len(rec.Legs)),
	}
	for _, leg := range rec.Legs {
		state.Legs = append(state.Legs, domain.PassengerLeg{
			OrderID:  leg.OrderID,
			Pickup:   leg.Pickup,
			Delivery: leg.Delivery,
			Onboard:  leg.Onboard,
		})
	}
	for _, addr := range rec.Waypoints {
		state.Waypoints = append(state.Waypoints, domain.Waypoint{Address: addr})
	}

	return state, nil
}

func (c *RedisSessionCache) SaveProgress(ctx context.Context, driverID string, p ports.SavedProgress) error {
	if c.Client == nil {
		return errors.New("session cache: client is nil")
	}

	raw, err := json.Marshal(progressRecord{RouteHash: p.RouteHash, StopIndex: p.StopIndex})
	if err != nil {
		return fmt.Errorf("save progress: encode: %w", err)
	}

	if err := c.Client.Set(ctx, progressKey(driverID), raw, 0).Err(); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (c *RedisSessionCache) LoadProgress(ctx context.Context, driverID string) (ports.SavedProgress, bool, error) {
	if c.Client == nil {
		return ports.SavedProgress{}, false, errors.New("session cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, progressKey(driverID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.SavedProgress{}, false, nil
	}
	if err != nil {
		return ports.SavedProgress{}, false, fmt.Errorf("load progress: %w", err)
	}

	var rec progressRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ports.SavedProgress{}, false, fmt.Errorf("load progress: decode: %w", err)
	}

	return ports.SavedProgress{RouteHash: rec.RouteHash, StopIndex: rec.StopIndex}, true, nil
}

func (c *RedisSessionCache) ClearProgress(ctx context.Context, driverID string) error {
	if c.Client == nil {
		return errors.New("session cache: client is nil")
	}

	if err := c.Client.Del(ctx, progressKey(driverID)).Err(); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

func (c *RedisSessionCache) SaveSnapshot(ctx context.Context, driverID string, snap *domain.RouteSnapshot) error {
	if c.Client == nil {
		return errors.New("session cache: client is nil")
	}
	if snap == nil {
		return errors.New("save snapshot mirror: snapshot is nil")
	}

	rec := snapshotRecord{
		Stops:            make([]snapshotStopRecord, 0, len(snap.Stops)),
		TotalTimeSeconds: snap.TotalDurationSeconds,
	}
	for _, stop := range snap.Stops {
		rec.Stops = append(rec.Stops, snapshotStopRecord{
			Address: stop.Address,
			Coord:   stop.Coord.CoordsToList(),
			Type:    stop.Type,
			Label:   stop.Label,
		})
	}
	for _, p := range snap.Path {
		rec.Path = append(rec.Path, p.CoordsToList())
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("save snapshot mirror: encode: %w", err)
	}

	if err := c.Client.Set(ctx, snapshotKey(driverID), raw, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot mirror: %w", err)
	}
	return nil
}

func (c *RedisSessionCache) LoadSnapshot(ctx context.Context, driverID string) (*domain.RouteSnapshot, error) {
	if c.Client == nil {
		return nil, errors.New("session cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, snapshotKey(driverID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot mirror: %w", err)
	}

	var rec snapshotRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("load snapshot mirror: decode: %w", err)
	}
	if len(rec.Stops) == 0 {
		return nil, nil
	}

	snap := &domain.RouteSnapshot{
		Stops:                make([]domain.RouteStop, 0, len(rec.Stops)),
		TotalDurationSeconds: rec.TotalTimeSeconds,
	}
	for _, stop := range rec.Stops {
		coord, ok := domain.CoordsFromList(stop.Coord)
		if !ok {
			return nil, fmt.Errorf("load snapshot mirror: invalid coordinate pair for %q", stop.Address)
		}
		snap.Stops = append(snap.Stops, domain.RouteStop{
			Address: stop.Address,
			Coord:   coord,
			Type:    stop.Type,
			Label:   stop.Label,
		})
	}
	for _, pair := range rec.Path {
		if coord, ok := domain.CoordsFromList(pair); ok {
			snap.Path = append(snap.Path, coord)
		}
	}

	return snap, nil
}
