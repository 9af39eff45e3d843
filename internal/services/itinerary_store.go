package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"driver-console-service/internal/domain"
	"driver-console-service/internal/ports"
)

// DefaultVehicleCapacity matches the four passenger seats the console
// assumes for a private car.
const DefaultVehicleCapacity = 4

// ItineraryStore holds the authoritative, editable list of passenger legs
// and waypoints for one driver session.
//
// Local state is the source of truth: remote propagation (order pool,
// driver state) is best-effort, and a failure there is reduced to a short
// status string instead of rolling the edit back. Every mutation persists
// the full session to the local cache so a reload survives.
//
// The order pool and driver state repositories may be nil, which puts the
// store in local-only mode (no shared-store configuration available).
type ItineraryStore struct {
	driverID string
	capacity int

	mu         sync.Mutex
	driverLoc  string
	driverName string
	plate      string
	emptySeats int
	legs       []domain.PassengerLeg
	waypoints  []domain.Waypoint
	lastError  string

	orders  ports.OrderRepository
	drivers ports.DriverStateRepository
	dir     ports.DriverDirectory
	cache   ports.SessionCache
}

func NewItineraryStore(
	driverID string,
	capacity int,
	orders ports.OrderRepository,
	drivers ports.DriverStateRepository,
	dir ports.DriverDirectory,
	sessionCache ports.SessionCache,
) *ItineraryStore {
	if capacity <= 0 {
		capacity = DefaultVehicleCapacity
	}
	return &ItineraryStore{
		driverID: driverID,
		capacity: capacity,
		orders:   orders,
		drivers:  drivers,
		dir:      dir,
		cache:    sessionCache,
	}
}

// LocalOnly reports whether the shared store is unavailable and the
// session runs purely on local state.
func (s *ItineraryStore) LocalOnly() bool {
	return s.orders == nil || s.drivers == nil
}

// recordError keeps the most recent remote failure as a short
// user-visible status string. Local state stays authoritative.
func (s *ItineraryStore) recordError(op string, err error) {
	msg := op + ": " + err.Error()
	runes := []rune(msg)
	if len(runes) > 80 {
		msg = string(runes[:80]) + "…"
	}
	s.lastError = msg
	log.Warn().Str("driver_id", s.driverID).Str("op", op).Err(err).Msg("remote propagation failed")
}

// persistLocked writes the full session to the cache without blocking the
// caller. Callers must hold s.mu; the snapshot is taken synchronously so
// the write races nothing.
func (s *ItineraryStore) persistLocked() {
	state := ports.SessionState{
		DriverLoc: s.driverLoc,
		Legs:      append([]domain.PassengerLeg(nil), s.legs...),
		Waypoints: append([]domain.Waypoint(nil), s.waypoints...),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.cache.SaveState(ctx, s.driverID, state); err != nil {
			log.Warn().Str("driver_id", s.driverID).Err(err).Msg("session cache write failed")
		}
	}()
}

// AddLeg appends a new unassigned leg and returns its index.
// Duplicate addresses are allowed; a leg that is empty on both ends is not.
func (s *ItineraryStore) AddLeg(pickup, delivery string) (int, error) {
	pickup = strings.TrimSpace(pickup)
	delivery = strings.TrimSpace(delivery)
	if pickup == "" && delivery == "" {
		return 0, errors.New("add leg: pickup and delivery are both empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.legs = append(s.legs, domain.PassengerLeg{Pickup: pickup, Delivery: delivery})
	s.persistLocked()
	return len(s.legs) - 1, nil
}

// EditLeg updates a leg in place. When the leg is backed by an order the
// change is propagated to the order pool; propagation failure keeps the
// local edit (optimistic) and records the error.
func (s *ItineraryStore) EditLeg(ctx context.Context, index int, newPickup, newDelivery string) error {
	newPickup = strings.TrimSpace(newPickup)
	newDelivery = strings.TrimSpace(newDelivery)
	if newPickup == "" && newDelivery == "" {
		return errors.New("edit leg: pickup and delivery are both empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.legs) {
		return fmt.Errorf("edit leg: index %d out of range", index)
	}

	leg := &s.legs[index]
	leg.Pickup = newPickup
	leg.Delivery = newDelivery

	if leg.OrderID != nil && s.orders != nil {
		if err := s.orders.UpdateAddresses(ctx, *leg.OrderID, newPickup, newDelivery); err != nil {
			s.recordError("update order", err)
		}
	}

	s.persistLocked()
	return nil
}

// MarkOnboard records that the passenger has been picked up. Idempotent;
// there is no un-board operation.
func (s *ItineraryStore) MarkOnboard(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.legs) {
		return fmt.Errorf("mark onboard: index %d out of range", index)
	}
	if s.legs[index].Onboard {
		return nil
	}

	s.legs[index].Onboard = true
	s.persistLocked()
	return nil
}

// RemoveLeg drops a leg from the session. Local removal is unconditional;
// when the leg has a backend order the order is completed and one seat is
// freed, both best-effort. A non-empty arrivalAddress becomes the
// driver's new current location.
func (s *ItineraryStore) RemoveLeg(ctx context.Context, index int, arrivalAddress string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.legs) {
		return fmt.Errorf("remove leg: index %d out of range", index)
	}

	leg := s.legs[index]
	s.legs = append(s.legs[:index], s.legs[index+1:]...)

	if leg.OrderID != nil && s.orders != nil {
		if err := s.orders.CompleteOrder(ctx, *leg.OrderID); err != nil {
			s.recordError("complete order", err)
		} else {
			s.releaseSeatLocked(ctx)
		}
	}

	if addr := strings.TrimSpace(arrivalAddress); addr != "" {
		s.setDriverLocationLocked(ctx, addr)
	}

	s.persistLocked()
	return nil
}

// AddWaypoint appends a bare address with no backend linkage.
func (s *ItineraryStore) AddWaypoint(address string) (int, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return 0, errors.New("add waypoint: address is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.waypoints = append(s.waypoints, domain.Waypoint{Address: address})
	s.persistLocked()
	return len(s.waypoints) - 1, nil
}

func (s *ItineraryStore) RemoveWaypoint(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.waypoints) {
		return fmt.Errorf("remove waypoint: index %d out of range", index)
	}

	s.waypoints = append(s.waypoints[:index], s.waypoints[index+1:]...)
	s.persistLocked()
	return nil
}

// RemoveWaypointByAddress drops the first waypoint matching the address,
// used when "arrived" is acknowledged for a waypoint stop.
func (s *ItineraryStore) RemoveWaypointByAddress(address string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, wp := range s.waypoints {
		if wp.Address == address {
			s.waypoints = append(s.waypoints[:i], s.waypoints[i+1:]...)
			s.persistLocked()
			return true
		}
	}
	return false
}

// ItineraryState builds the routing request payload from current state.
func (s *ItineraryStore) ItineraryState() domain.ItineraryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.BuildItineraryState(s.driverLoc, s.plate, s.legs, s.waypoints)
}

// SetDriverLocation updates the driver's current location locally and
// mirrors it to the shared store best-effort.
func (s *ItineraryStore) SetDriverLocation(ctx context.Context, addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDriverLocationLocked(ctx, addr)
	s.persistLocked()
}

func (s *ItineraryStore) setDriverLocationLocked(ctx context.Context, addr string) {
	s.driverLoc = addr
	if s.drivers != nil {
		if err := s.drivers.SetCurrentLocation(ctx, s.driverID, addr); err != nil {
			s.recordError("update driver location", err)
		}
	}
}

// ReleaseSeat frees one seat, capped at vehicle capacity.
func (s *ItineraryStore) ReleaseSeat(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseSeatLocked(ctx)
}

func (s *ItineraryStore) releaseSeatLocked(ctx context.Context) {
	next := s.emptySeats + 1
	if next > s.capacity {
		next = s.capacity
	}
	s.emptySeats = next

	if s.drivers != nil {
		if err := s.drivers.SetEmptySeats(ctx, s.driverID, next); err != nil {
			s.recordError("update empty seats", err)
		}
	}
}

// CompleteDelivery closes the assigned order whose delivery address
// matches an arrived delivery stop and frees a seat. Reports whether a
// matching order was found; lookup or completion failures are recorded,
// not returned.
func (s *ItineraryStore) CompleteDelivery(ctx context.Context, deliveryAddr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.orders == nil || deliveryAddr == "" {
		return false
	}

	orderID, ok, err := s.orders.FindAssignedByDelivery(ctx, s.driverID, deliveryAddr)
	if err != nil {
		s.recordError("find order by delivery", err)
		return false
	}
	if !ok {
		return false
	}

	if err := s.orders.CompleteOrder(ctx, orderID); err != nil {
		s.recordError("complete order", err)
		return false
	}

	s.releaseSeatLocked(ctx)
	return true
}

// Load hydrates the session. With a shared store configured it reads the
// driver's assigned orders, state and profile; otherwise it falls back to
// the locally cached session. Onboard flags only live locally, so they
// are re-applied from the cache by order id after a remote load.
func (s *ItineraryStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, cacheErr := s.cache.LoadState(ctx, s.driverID)
	if cacheErr != nil {
		log.Warn().Str("driver_id", s.driverID).Err(cacheErr).Msg("session cache read failed")
	}

	if s.LocalOnly() {
		if cached == nil {
			return nil
		}
		s.driverLoc = cached.DriverLoc
		s.legs = append([]domain.PassengerLeg(nil), cached.Legs...)
		s.waypoints = append([]domain.Waypoint(nil), cached.Waypoints...)
		return nil
	}

	state, hasState, err := s.drivers.GetState(ctx, s.driverID)
	if err != nil {
		return fmt.Errorf("load session: driver state: %w", err)
	}
	if hasState {
		s.driverLoc = strings.TrimSpace(state.CurrentLoc)
		s.emptySeats = clampSeats(state.EmptySeats, s.capacity)
	}

	assigned, err := s.orders.ListAssigned(ctx, s.driverID)
	if err != nil {
		return fmt.Errorf("load session: assigned orders: %w", err)
	}

	onboardByOrder := make(map[string]bool)
	if cached != nil {
		for _, leg := range cached.Legs {
			if leg.OrderID != nil && leg.Onboard {
				onboardByOrder[*leg.OrderID] = true
			}
		}
		s.waypoints = append([]domain.Waypoint(nil), cached.Waypoints...)
	}

	s.legs = make([]domain.PassengerLeg, 0, len(assigned))
	for _, o := range assigned {
		id := o.ID
		s.legs = append(s.legs, domain.PassengerLeg{
			OrderID:  &id,
			Pickup:   o.Pickup,
			Delivery: o.Delivery,
			Onboard:  onboardByOrder[o.ID],
		})
	}

	// Free seats follow directly from the number of assigned passengers;
	// write the recomputed value back so the matcher sees it.
	s.emptySeats = clampSeats(s.capacity-len(s.legs), s.capacity)
	if err := s.drivers.SetEmptySeats(ctx, s.driverID, s.emptySeats); err != nil {
		s.recordError("update empty seats", err)
	}

	if s.dir != nil {
		profile, ok, err := s.dir.GetProfile(ctx, s.driverID)
		if err != nil {
			s.recordError("load driver profile", err)
		} else if ok {
			s.driverName = strings.TrimSpace(profile.Name)
			s.plate = strings.TrimSpace(profile.PlateNumber)
		}
	}

	s.persistLocked()
	return nil
}

func clampSeats(seats, capacity int) int {
	if seats < 0 {
		return 0
	}
	if seats > capacity {
		return capacity
	}
	return seats
}

// Session is a read-only view of the store for the API layer.
type Session struct {
	DriverLoc  string
	DriverName string
	Plate      string
	EmptySeats int
	Capacity   int
	Legs       []domain.PassengerLeg
	Waypoints  []domain.Waypoint
	LastError  string
	LocalOnly  bool
}

func (s *ItineraryStore) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Session{
		DriverLoc:  s.driverLoc,
		DriverName: s.driverName,
		Plate:      s.plate,
		EmptySeats: s.emptySeats,
		Capacity:   s.capacity,
		Legs:       append([]domain.PassengerLeg(nil), s.legs...),
		Waypoints:  append([]domain.Waypoint(nil), s.waypoints...),
		LastError:  s.lastError,
		LocalOnly:  s.LocalOnly(),
	}
}
