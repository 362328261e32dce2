package prefab

import (
	"errors"
	"iter"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plus3/prefab/world"
)

// InstanceId is the opaque handle clients hold for a spawned snapshot
// instance. Ids are 128-bit random and never reused.
type InstanceId uuid.UUID

func (id InstanceId) String() string {
	return uuid.UUID(id).String()
}

func newInstanceId() InstanceId {
	return InstanceId(uuid.New())
}

// InstanceInfo owns the remap table of one live instance. It is destroyed on
// despawn together with every record the table still maps.
type InstanceInfo struct {
	remap *RemapTable
}

// Records iterates over the instance's live records.
func (i *InstanceInfo) Records() iter.Seq[world.RecordId] {
	return i.remap.Records()
}

// Remap returns the instance's local-id resolution table.
func (i *InstanceInfo) Remap() *RemapTable {
	return i.remap
}

func (i *InstanceInfo) spawn(w *world.World, assets *Assets, registry *Registry, handle Handle) error {
	snap, ok := assets.Get(handle)
	if !ok {
		return &NonExistentSnapshotError{Handle: handle}
	}
	return Write(&Patch{}, snap, w, registry, i.remap)
}

func (i *InstanceInfo) despawn(w *world.World) {
	for id := range i.remap.Records() {
		w.Destroy(id)
	}
}

type spawned struct {
	prefabs   map[Handle][]InstanceId
	instances map[InstanceId]*InstanceInfo
}

func (s *spawned) track(handle Handle, id InstanceId, info *InstanceInfo) {
	s.instances[id] = info
	s.prefabs[handle] = append(s.prefabs[handle], id)
}

func (s *spawned) spawn(w *world.World, assets *Assets, registry *Registry, handle Handle) (InstanceId, error) {
	info := &InstanceInfo{remap: NewRemapTable()}
	if err := info.spawn(w, assets, registry, handle); err != nil {
		return InstanceId{}, err
	}
	id := newInstanceId()
	s.track(handle, id, info)
	return id, nil
}

func (s *spawned) update(w *world.World, assets *Assets, registry *Registry, handle Handle, logger *zap.Logger) {
	for _, id := range s.prefabs[handle] {
		info, ok := s.instances[id]
		if !ok {
			continue
		}
		if err := info.spawn(w, assets, registry, handle); err != nil {
			logger.Error("prefab update failed",
				zap.String("handle", string(handle)),
				zap.Stringer("instance", id),
				zap.Error(err))
		}
	}
}

func (s *spawned) despawn(w *world.World, id InstanceId) bool {
	info, ok := s.instances[id]
	if !ok {
		return false
	}
	info.despawn(w)
	delete(s.instances, id)

	for handle, ids := range s.prefabs {
		i := slices.Index(ids, id)
		if i < 0 {
			continue
		}
		ids = slices.Delete(ids, i, i+1)
		if len(ids) == 0 {
			delete(s.prefabs, handle)
		} else {
			s.prefabs[handle] = ids
		}
		break
	}
	return true
}

type spawnRequest struct {
	handle Handle
	id     InstanceId
}

type parentRequest struct {
	id     InstanceId
	parent world.RecordId
}

// Spawner tracks outstanding spawn and despawn requests and every live
// instance, and propagates snapshot changes to spawned instances.
//
// Spawn and Despawn only queue; all live-collection mutation happens inside
// Maintain, which must run once per tick with exclusive access to the world.
type Spawner struct {
	assets   *Assets
	registry *Registry
	logger   *zap.Logger

	reader  EventReader
	spawned spawned

	toSpawn    []spawnRequest
	toDespawn  []InstanceId
	withParent []parentRequest
	updates    []Handle
}

// SpawnerOption customizes a Spawner.
type SpawnerOption func(*Spawner)

// WithLogger routes terminal spawn and update errors to the given logger.
func WithLogger(logger *zap.Logger) SpawnerOption {
	return func(s *Spawner) { s.logger = logger }
}

// NewSpawner creates a spawner reading snapshots and change events from the
// given assets store.
func NewSpawner(assets *Assets, registry *Registry, opts ...SpawnerOption) *Spawner {
	s := &Spawner{
		assets:   assets,
		registry: registry,
		logger:   zap.NewNop(),
		spawned: spawned{
			prefabs:   make(map[Handle][]InstanceId),
			instances: make(map[InstanceId]*InstanceInfo),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spawn queues an instantiation of the snapshot behind the handle and returns
// the instance id immediately. The instance becomes live during a later
// Maintain, once the snapshot resolves.
func (s *Spawner) Spawn(handle Handle) InstanceId {
	id := newInstanceId()
	s.toSpawn = append(s.toSpawn, spawnRequest{handle: handle, id: id})
	return id
}

// SpawnAsChild queues an instantiation whose root records get attached to the
// given parent record once all of the instance's records exist.
func (s *Spawner) SpawnAsChild(handle Handle, parent world.RecordId) InstanceId {
	id := s.Spawn(handle)
	s.withParent = append(s.withParent, parentRequest{id: id, parent: parent})
	return id
}

// Despawn queues destruction of a spawned instance.
func (s *Spawner) Despawn(id InstanceId) {
	s.toDespawn = append(s.toDespawn, id)
}

// IsReady reports whether a previously spawned instance is live.
func (s *Spawner) IsReady(id InstanceId) bool {
	_, ok := s.spawned.instances[id]
	return ok
}

// Info returns a read-only view of a live instance.
func (s *Spawner) Info(id InstanceId) (*InstanceInfo, bool) {
	info, ok := s.spawned.instances[id]
	return info, ok
}

// SpawnSync instantiates immediately, for callers that already hold exclusive
// access to the world.
func (s *Spawner) SpawnSync(w *world.World, handle Handle) (InstanceId, error) {
	return s.spawned.spawn(w, s.assets, s.registry, handle)
}

// UpdateSync re-writes every live instance of the handle immediately.
func (s *Spawner) UpdateSync(w *world.World, handle Handle) {
	s.spawned.update(w, s.assets, s.registry, handle, s.logger)
}

// DespawnSync destroys an instance immediately.
func (s *Spawner) DespawnSync(w *world.World, id InstanceId) {
	s.spawned.despawn(w, id)
}

// Maintain runs one maintenance pass. Step order is load-bearing: change
// notifications are drained first, despawns run before spawns, updates run
// after both so they never touch a destroyed instance, and parent attachment
// comes last so it observes every record the pass created.
func (s *Spawner) Maintain(w *world.World) {
	// 1. Change notifications: queue updates for tracked snapshots only.
	for _, ev := range s.reader.Read(s.assets) {
		if ev.Kind != EventModified {
			continue
		}
		if _, tracked := s.spawned.prefabs[ev.Handle]; tracked {
			s.updates = append(s.updates, ev.Handle)
		}
	}

	// 2. Despawns. A despawn racing its own spawn request in the same tick is
	// kept for the next pass, so the spawn completes before the instance is
	// destroyed rather than the request being dropped.
	remainingDespawns := s.toDespawn[:0]
	for _, id := range s.toDespawn {
		if s.spawned.despawn(w, id) {
			continue
		}
		if s.spawnPending(id) {
			remainingDespawns = append(remainingDespawns, id)
		}
	}
	s.toDespawn = remainingDespawns

	// 3. Spawns. Only a snapshot that does not resolve yet is retried; every
	// other failure drops the request and is surfaced once.
	remainingSpawns := s.toSpawn[:0]
	for _, req := range s.toSpawn {
		info := &InstanceInfo{remap: NewRemapTable()}
		err := info.spawn(w, s.assets, s.registry, req.handle)
		if err == nil {
			s.spawned.track(req.handle, req.id, info)
			continue
		}

		var missing *NonExistentSnapshotError
		if errors.As(err, &missing) {
			remainingSpawns = append(remainingSpawns, req)
			continue
		}
		s.logger.Error("prefab spawn failed",
			zap.String("handle", string(req.handle)),
			zap.Stringer("instance", req.id),
			zap.Error(err))
	}
	s.toSpawn = remainingSpawns

	// 4. Hot updates re-enter the writer with each instance's existing remap
	// table; apply-in-place reconciles the differences.
	for _, handle := range s.updates {
		s.spawned.update(w, s.assets, s.registry, handle, s.logger)
	}
	s.updates = s.updates[:0]

	// 5. Deferred parent attachment, once the instance is live.
	pendingParents := s.withParent[:0]
	for _, req := range s.withParent {
		info, ok := s.spawned.instances[req.id]
		if !ok {
			if s.spawnPending(req.id) {
				pendingParents = append(pendingParents, req)
			}
			continue
		}
		for record := range info.Records() {
			// Records that already have a parent were linked from the
			// snapshot's own data; the unparented ones are the roots.
			if w.Alive(record) && !w.HasParent(record) {
				w.AttachParent(req.parent, record)
			}
		}
	}
	s.withParent = pendingParents
}

func (s *Spawner) spawnPending(id InstanceId) bool {
	for _, req := range s.toSpawn {
		if req.id == id {
			return true
		}
	}
	return false
}
