package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"driver-console-service/internal/domain"
	"driver-console-service/internal/platform/obs"
	"driver-console-service/internal/ports"
)

// Routing strategy keys exposed to the console, mapped to the backend's
// tactics codes.
var strategyTactics = map[string]int{
	"DEFAULT":          0,
	"LEAST_TIME":       13,
	"LEAST_DISTANCE":   12,
	"AVOID_CONGESTION": 5,
	"LEAST_FEE":        6,
	"AVOID_HIGHWAY":    3,
}

// TacticsForStrategy resolves a strategy key to the backend tactics code.
// An empty key means DEFAULT.
func TacticsForStrategy(key string) (int, bool) {
	if key == "" {
		key = "DEFAULT"
	}
	code, ok := strategyTactics[key]
	return code, ok
}

// ErrRoutingUnavailable is returned when no routing backend is configured
// (degraded local-only mode).
var ErrRoutingUnavailable = errors.New("routing backend not configured")

// ErrNoRoute is returned for progression operations before any snapshot
// has been loaded.
var ErrNoRoute = errors.New("no route loaded")

// TripTracker owns the route snapshot and the stop-progression pointer
// for one driver session.
//
// A snapshot is replaced wholesale by each successful route request or
// restore. Whenever a snapshot is adopted its stop-address hash is
// compared with the saved one: on a match the saved pointer is reused
// (clamped), otherwise the pointer resets to zero so a re-ordered route
// never inherits a stale position.
type TripTracker struct {
	driverID string

	mu       sync.Mutex
	snapshot *domain.RouteSnapshot
	progress domain.TripProgress
	lastErr  string

	// Route requests carry a sequence token. In-flight requests are not
	// cancelled, so a slow older response can still land after a newer
	// one; that overwrite is preserved (last write wins) but logged.
	reqSeq  atomic.Uint64
	applied uint64

	provider ports.RoutePreviewProvider
	remote   ports.SnapshotStore
	cache    ports.SessionCache
	store    *ItineraryStore
}

func NewTripTracker(
	driverID string,
	provider ports.RoutePreviewProvider,
	remote ports.SnapshotStore,
	sessionCache ports.SessionCache,
	store *ItineraryStore,
) *TripTracker {
	return &TripTracker{
		driverID: driverID,
		provider: provider,
		remote:   remote,
		cache:    sessionCache,
		store:    store,
	}
}

// TripView is a read-only view of the tracker for the API layer.
type TripView struct {
	Snapshot  *domain.RouteSnapshot
	StopIndex int
	Completed bool
	NextStop  *domain.RouteStop
	Remaining int
	LastError string
}

func (t *TripTracker) View() TripView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked()
}

func (t *TripTracker) viewLocked() TripView {
	view := TripView{
		Snapshot:  t.snapshot,
		StopIndex: t.progress.Index(),
		LastError: t.lastErr,
	}
	if t.snapshot == nil {
		return view
	}

	view.Completed = t.progress.Completed()
	view.Remaining = t.snapshot.LastIndex() - t.progress.Index()
	if next, ok := t.progress.NextIndex(); ok {
		stop := t.snapshot.Stops[next]
		view.NextStop = &stop
	}
	return view
}

// RequestRoute sends the current itinerary to the routing backend and
// adopts the returned snapshot, upserting it to the remote snapshot row
// (one per driver, last write wins).
func (t *TripTracker) RequestRoute(ctx context.Context, strategyKey string) (_ TripView, err error) {
	defer obs.Time(ctx, "trip.RequestRoute")(&err)

	if t.provider == nil {
		return TripView{}, ErrRoutingUnavailable
	}

	tactics, ok := TacticsForStrategy(strategyKey)
	if !ok {
		return TripView{}, fmt.Errorf("request route: unknown strategy %q", strategyKey)
	}

	state := t.store.ItineraryState().RoutableState()
	if state.DriverLoc == "" {
		return TripView{}, errors.New("request route: driver location not set")
	}

	seq := t.reqSeq.Add(1)

	snap, err := t.provider.PreviewRoute(ctx, state, tactics)
	if err != nil {
		return TripView{}, fmt.Errorf("request route: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if seq < t.applied {
		// Known gap: no request-sequencing guard in the original design.
		log.Warn().
			Str("driver_id", t.driverID).
			Uint64("seq", seq).
			Uint64("applied", t.applied).
			Msg("stale route response overwrote a newer one")
	}
	t.applied = seq

	t.adoptLocked(ctx, snap)

	if t.remote != nil {
		if err := t.remote.SaveSnapshot(ctx, t.driverID, snap); err != nil {
			t.recordErrLocked("save route snapshot", err)
		}
	}

	return t.viewLocked(), nil
}

// RestoreSnapshot loads the last persisted snapshot without a routing
// call: the remote row first, then the local mirror. Returns a zero view
// when nothing is saved.
func (t *TripTracker) RestoreSnapshot(ctx context.Context) (_ TripView, err error) {
	defer obs.Time(ctx, "trip.RestoreSnapshot")(&err)

	var snap *domain.RouteSnapshot
	if t.remote != nil {
		snap, err = t.remote.LoadSnapshot(ctx, t.driverID)
		if err != nil {
			log.Warn().Str("driver_id", t.driverID).Err(err).Msg("remote snapshot read failed, trying local mirror")
			snap = nil
		}
	}
	if snap == nil {
		snap, err = t.cache.LoadSnapshot(ctx, t.driverID)
		if err != nil {
			return TripView{}, fmt.Errorf("restore snapshot: %w", err)
		}
	}
	if snap == nil {
		return TripView{}, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.adoptLocked(ctx, snap)
	return t.viewLocked(), nil
}

// adoptLocked replaces the current snapshot and applies the hash rule to
// decide whether saved progression carries over.
func (t *TripTracker) adoptLocked(ctx context.Context, snap *domain.RouteSnapshot) {
	hash := snap.Hash()

	saved, ok, err := t.cache.LoadProgress(ctx, t.driverID)
	if err != nil {
		log.Warn().Str("driver_id", t.driverID).Err(err).Msg("saved progress read failed")
		ok = false
	}

	t.snapshot = snap
	t.progress = domain.NewTripProgress(len(snap.Stops), saved.StopIndex, ok && saved.RouteHash == hash)
	t.saveProgressLocked(ctx)

	go func() {
		mirrorCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := t.cache.SaveSnapshot(mirrorCtx, t.driverID, snap); err != nil {
			log.Warn().Str("driver_id", t.driverID).Err(err).Msg("snapshot mirror write failed")
		}
	}()
}

func (t *TripTracker) saveProgressLocked(ctx context.Context) {
	p := ports.SavedProgress{RouteHash: t.snapshot.Hash(), StopIndex: t.progress.Index()}
	if err := t.cache.SaveProgress(ctx, t.driverID, p); err != nil {
		log.Warn().Str("driver_id", t.driverID).Err(err).Msg("progress write failed")
	}
}

func (t *TripTracker) recordErrLocked(op string, err error) {
	msg := op + ": " + err.Error()
	runes := []rune(msg)
	if len(runes) > 80 {
		msg = string(runes[:80]) + "…"
	}
	t.lastErr = msg
	log.Warn().Str("driver_id", t.driverID).Str("op", op).Err(err).Msg("trip tracker remote call failed")
}

// Arrive acknowledges reaching the next stop. The driver's current
// location follows the reached address; reaching a delivery stop closes
// the matching assigned order and frees a seat, and reaching a waypoint
// removes it from the itinerary. All side effects are best-effort.
//
// Arriving on a completed trip changes nothing.
func (t *TripTracker) Arrive(ctx context.Context) (_ TripView, err error) {
	defer obs.Time(ctx, "trip.Arrive")(&err)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snapshot == nil {
		return TripView{}, ErrNoRoute
	}

	reached, advanced := t.progress.Arrive()
	if !advanced {
		return t.viewLocked(), nil
	}

	stop := t.snapshot.Stops[reached]
	if stop.Address != "" {
		t.store.SetDriverLocation(ctx, stop.Address)
	}

	switch stop.Type {
	case domain.StopTypeDelivery:
		t.store.CompleteDelivery(ctx, stop.Address)
	case domain.StopTypeWaypoint:
		t.store.RemoveWaypointByAddress(stop.Address)
	}

	t.saveProgressLocked(ctx)
	return t.viewLocked(), nil
}

// Reset forces the pointer back to the first stop and discards the
// persisted pointer (explicit route refresh).
func (t *TripTracker) Reset(ctx context.Context) (_ TripView, err error) {
	defer obs.Time(ctx, "trip.Reset")(&err)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.progress.Reset()
	if err := t.cache.ClearProgress(ctx, t.driverID); err != nil {
		log.Warn().Str("driver_id", t.driverID).Err(err).Msg("progress clear failed")
	}
	if t.snapshot != nil {
		t.saveProgressLocked(ctx)
	}
	return t.viewLocked(), nil
}
