package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-laundry/internal/application/ports"
	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/catalog"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/ledger"
	"github.com/jhoicas/stock-laundry/internal/domain/repository"
)

// Origen de un cambio.
const (
	OriginLocal  = "local"
	OriginRemote = "remote"
)

// Change notificación emitida después de cada cambio confirmado de las filas.
type Change struct {
	Origin     string
	Reason     string
	Generation uint64
	Actor      entity.Actor
}

// baseline conjunto de apertura, la posición del libro a partir de la cual se pliega y la
// posición de entrada de cada fila registrada después.
type baseline = ledger.Opening

// StoreDeps dependencias del Store.
type StoreDeps struct {
	Tx              TxRunner
	Snapshots       repository.SnapshotRepository
	Movements       repository.MovementRepository
	State           repository.StateRepository
	Clock           ports.Clock
	IDs             ports.IDGenerator
	PrimaryLocation string
	Logger          zerolog.Logger
}

// Store dueño único de las filas por ubicación y del libro de movimientos. Todas las mutaciones
// se serializan con mu, se calculan sobre una copia y se confirman solo si la persistencia tuvo éxito.
// Cada cambio de las filas incrementa la generación.
type Store struct {
	mu        sync.Mutex
	items     []entity.Item
	ledger    *ledger.Ledger
	base      baseline
	gen       uint64
	listeners []func(Change)

	tx      TxRunner
	clock   ports.Clock
	ids     ports.IDGenerator
	primary string
	log     zerolog.Logger
}

// NewStore carga filas, libro y línea base desde la persistencia.
func NewStore(ctx context.Context, deps StoreDeps) (*Store, error) {
	items, err := deps.Snapshots.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar filas: %w", err)
	}
	events, err := deps.Movements.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar movimientos: %w", err)
	}
	var base baseline
	found, err := deps.State.Get(ctx, repository.KeyLedgerBaseline, &base)
	if err != nil {
		return nil, fmt.Errorf("cargar línea base: %w", err)
	}
	if !found || base.Seq < 0 || base.Seq > len(events) {
		base = baseline{Seq: len(events), Items: entity.CloneItems(items)}
		if err := deps.State.Put(ctx, repository.KeyLedgerBaseline, base); err != nil {
			return nil, fmt.Errorf("guardar línea base: %w", err)
		}
	}

	s := &Store{
		items:   items,
		ledger:  ledger.New(events),
		base:    base,
		gen:     1,
		tx:      deps.Tx,
		clock:   deps.Clock,
		ids:     deps.IDs,
		primary: deps.PrimaryLocation,
		log:     deps.Logger.With().Str("component", "inventory_store").Logger(),
	}
	s.log.Info().Int("items", len(items)).Int("movements", len(events)).Int("baseline_seq", base.Seq).Msg("inventario cargado")
	return s, nil
}

// Subscribe registra fn para recibir cada Change confirmado. fn se llama fuera del candado.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Items copia de las filas actuales.
func (s *Store) Items() []entity.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.CloneItems(s.items)
}

// Snapshot copia de las filas junto con la generación a la que corresponden.
func (s *Store) Snapshot() ([]entity.Item, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.CloneItems(s.items), s.gen
}

// Generation generación actual.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Movements copia del libro en orden de llegada.
func (s *Store) Movements() []entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Events()
}

// PrimaryLocation bodega principal usada para el catálogo y la reposición.
func (s *Store) PrimaryLocation() string {
	return s.primary
}

// Catalog proyecta el catálogo canónico de las filas actuales.
func (s *Store) Catalog() []catalog.Entry {
	return catalog.Project(s.Items(), s.primary)
}

// Get devuelve la fila con id.
func (s *Store) Get(id string) (entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexByID(s.items, id); i >= 0 {
		return s.items[i], nil
	}
	return entity.Item{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
}

// AppendResult resultado de registrar un movimiento.
type AppendResult struct {
	Movement   entity.Movement
	Applied    bool
	Touched    []entity.Item
	Generation uint64
}

// Append valida el movimiento, lo pliega sobre las filas y persiste evento y filas en una sola
// transacción. Si el movimiento se rechaza no se anexa al libro. Un IN sin fila destino se anexa
// sin modificar filas (Applied=false).
func (s *Store) Append(ctx context.Context, m entity.Movement, actor entity.Actor) (AppendResult, error) {
	s.mu.Lock()
	now := s.now()
	if m.ID == "" {
		m.ID = s.ids.NewID()
	}
	if m.Date == "" {
		m.Date = now
	}
	m.PerformedBy = actor.Name
	// El libro guarda siempre el id y el nombre vigentes de la definición resuelta.
	if i, ok := ledger.Resolve(s.items, m.ItemID, m.ItemName); ok {
		m.ItemID, m.ItemName = s.items[i].ID, s.items[i].Name
	}

	res, err := ledger.Apply(s.items, m, s.ids.NewID)
	if err != nil {
		s.mu.Unlock()
		return AppendResult{}, err
	}
	for _, id := range res.Touched {
		if i := indexByID(res.Items, id); i >= 0 {
			res.Items[i].LastUpdated = now
		}
	}
	err = s.tx.Run(ctx, func(movRepo repository.MovementRepository, snapRepo repository.SnapshotRepository, _ repository.StateRepository) error {
		if err := movRepo.Append(ctx, m); err != nil {
			return err
		}
		if res.Applied {
			return snapRepo.ReplaceAll(ctx, res.Items)
		}
		return nil
	})
	if err != nil {
		s.mu.Unlock()
		return AppendResult{}, fmt.Errorf("persistir movimiento: %w", err)
	}

	s.ledger.Append(m)
	if res.Applied {
		s.items = res.Items
		s.gen++
	}
	out := AppendResult{Movement: m, Applied: res.Applied, Generation: s.gen}
	for _, id := range res.Touched {
		if i := indexByID(s.items, id); i >= 0 {
			out.Touched = append(out.Touched, s.items[i])
		}
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.log.Info().Str("movement_id", m.ID).Str("type", m.Type).Int("quantity", m.Quantity).
		Str("from", m.FromLocation).Str("to", m.ToLocation).Bool("applied", res.Applied).Msg("movimiento registrado")
	if res.Applied {
		notify(listeners, Change{Origin: OriginLocal, Reason: "movement", Generation: out.Generation, Actor: actor})
	}
	return out, nil
}

// Register agrega una definición nueva en una ubicación. También se agrega a la línea base:
// su cantidad inicial no proviene del libro.
func (s *Store) Register(ctx context.Context, item entity.Item, actor entity.Actor) (entity.Item, error) {
	s.mu.Lock()
	if _, dup := ledger.Locate(s.items, item.Name, item.Size, item.Location).(ledger.Found); dup {
		s.mu.Unlock()
		return entity.Item{}, fmt.Errorf("%w: %s %s ya existe en %s", domain.ErrDuplicate, item.Name, item.Size, item.Location)
	}
	if item.ID == "" {
		item.ID = s.ids.NewID()
	}
	item.LastUpdated = s.now()
	item.UpdatedBy = actor.Name

	next := append(entity.CloneItems(s.items), item)
	base := s.cloneBase()
	base.Items = append(base.Items, item)
	if pos := s.ledger.Len(); pos > base.Seq {
		base.Joined[item.ID] = pos
	}
	if err := s.persist(ctx, next, &base); err != nil {
		s.mu.Unlock()
		return entity.Item{}, err
	}
	s.items, s.base = next, base
	s.gen++
	change := Change{Origin: OriginLocal, Reason: "register", Generation: s.gen, Actor: actor}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.log.Info().Str("item_id", item.ID).Str("name", item.Name).Str("location", item.Location).Msg("artículo registrado")
	notify(listeners, change)
	return item, nil
}

// Update aplica mutate sobre la fila id. mutate no puede cambiar id, ubicación ni cantidad esperada.
// Los campos de definición (nombre, talla, categoría, unidad, tipo de uso, umbral y consumo) son
// compartidos: se copian a todas las filas y entradas de la línea base con la misma clave.
func (s *Store) Update(ctx context.Context, id string, actor entity.Actor, mutate func(*entity.Item) error) (entity.Item, error) {
	s.mu.Lock()
	i := indexByID(s.items, id)
	if i < 0 {
		s.mu.Unlock()
		return entity.Item{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	old := s.items[i]
	row := old
	if err := mutate(&row); err != nil {
		s.mu.Unlock()
		return entity.Item{}, err
	}
	row.ID, row.Location, row.ExpectedQty = old.ID, old.Location, old.ExpectedQty
	now := s.now()
	row.LastUpdated = now
	row.UpdatedBy = actor.Name

	next := entity.CloneItems(s.items)
	next[i] = row
	if row.Key() != old.Key() {
		for j := range next {
			if j == i || next[j].Key() != old.Key() {
				continue
			}
			adoptDefinition(&next[j], row)
			next[j].LastUpdated = now
			next[j].UpdatedBy = actor.Name
		}
		if err := checkUniqueKeys(next); err != nil {
			s.mu.Unlock()
			return entity.Item{}, err
		}
	} else {
		for j := range next {
			if j != i && next[j].Key() == old.Key() {
				adoptDefinition(&next[j], row)
			}
		}
	}
	base := s.cloneBase()
	for j := range base.Items {
		if base.Items[j].ID == id || base.Items[j].Key() == old.Key() {
			adoptDefinition(&base.Items[j], row)
		}
	}
	if err := s.persist(ctx, next, &base); err != nil {
		s.mu.Unlock()
		return entity.Item{}, err
	}
	s.items, s.base = next, base
	s.gen++
	change := Change{Origin: OriginLocal, Reason: "update", Generation: s.gen, Actor: actor}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, change)
	return row, nil
}

// Delete elimina la fila id de las filas actuales y de la línea base.
func (s *Store) Delete(ctx context.Context, id string, actor entity.Actor) error {
	s.mu.Lock()
	i := indexByID(s.items, id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	next := append(entity.CloneItems(s.items[:i]), s.items[i+1:]...)
	base := s.cloneBase()
	base.Items = base.Items[:0]
	for _, b := range s.base.Items {
		if b.ID != id {
			base.Items = append(base.Items, b)
		}
	}
	delete(base.Joined, id)
	if err := s.persist(ctx, next, &base); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items, s.base = next, base
	s.gen++
	change := Change{Origin: OriginLocal, Reason: "delete", Generation: s.gen, Actor: actor}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.log.Info().Str("item_id", id).Msg("artículo eliminado")
	notify(listeners, change)
	return nil
}

// Replay recomputa las cantidades esperadas desde la línea base y el libro y corrige las filas
// que se desviaron. Sin desviaciones no persiste ni cambia la generación.
func (s *Store) Replay(ctx context.Context, actor entity.Actor) (ledger.Reconciliation, error) {
	s.mu.Lock()
	rec := ledger.Replay(s.base, s.items, s.ledger.Since(s.base.Seq), s.ids.NewID)
	if len(rec.Drifts) == 0 {
		s.mu.Unlock()
		return rec, nil
	}
	now := s.now()
	for _, d := range rec.Drifts {
		if i := indexByID(rec.Items, d.ItemID); i >= 0 {
			rec.Items[i].LastUpdated = now
			rec.Items[i].UpdatedBy = actor.Name
		}
	}
	if err := s.persist(ctx, rec.Items, nil); err != nil {
		s.mu.Unlock()
		return ledger.Reconciliation{}, err
	}
	s.items = entity.CloneItems(rec.Items)
	s.gen++
	change := Change{Origin: OriginLocal, Reason: "replay", Generation: s.gen, Actor: actor}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.log.Warn().Int("drifts", len(rec.Drifts)).Int("created", rec.Created).Int("skipped", rec.Skipped).Msg("reconciliación corrigió filas")
	notify(listeners, change)
	return rec, nil
}

// ReplaceAll reemplaza todas las filas con las del espejo remoto. gen es la generación observada
// al despachar la consulta; si el inventario cambió desde entonces devuelve ErrStaleGeneration y
// no toca nada. Un conjunto que rompe las invariantes de las filas (ids vacíos o repetidos, claves
// repetidas, cantidades negativas) se rechaza con ErrInvalidInput.
// La línea base pasa a ser el conjunto recibido en la posición actual del libro.
func (s *Store) ReplaceAll(ctx context.Context, gen uint64, items []entity.Item, actor entity.Actor) error {
	if err := ValidateSnapshot(items); err != nil {
		return err
	}
	s.mu.Lock()
	if gen != s.gen {
		current := s.gen
		s.mu.Unlock()
		return fmt.Errorf("%w: esperada %d, actual %d", domain.ErrStaleGeneration, gen, current)
	}
	next := entity.CloneItems(items)
	base := baseline{Seq: s.ledger.Len(), Items: entity.CloneItems(items)}
	if err := s.persist(ctx, next, &base); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items, s.base = next, base
	s.gen++
	change := Change{Origin: OriginRemote, Reason: "pull", Generation: s.gen, Actor: actor}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, change)
	return nil
}

// persist guarda filas y, si base no es nil, la línea base en una transacción. Requiere mu.
func (s *Store) persist(ctx context.Context, items []entity.Item, base *baseline) error {
	err := s.tx.Run(ctx, func(_ repository.MovementRepository, snapRepo repository.SnapshotRepository, stateRepo repository.StateRepository) error {
		if err := snapRepo.ReplaceAll(ctx, items); err != nil {
			return err
		}
		if base != nil {
			return stateRepo.Put(ctx, repository.KeyLedgerBaseline, base)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persistir inventario: %w", err)
	}
	return nil
}

// cloneBase copia la línea base con su mapa de entradas inicializado. Requiere mu.
func (s *Store) cloneBase() baseline {
	b := baseline{Seq: s.base.Seq, Items: entity.CloneItems(s.base.Items), Joined: make(map[string]int, len(s.base.Joined)+1)}
	for id, pos := range s.base.Joined {
		b.Joined[id] = pos
	}
	return b
}

func (s *Store) snapshotListeners() []func(Change) {
	out := make([]func(Change), len(s.listeners))
	copy(out, s.listeners)
	return out
}

func (s *Store) now() string {
	return s.clock.Now().UTC().Format(time.RFC3339)
}

func notify(listeners []func(Change), c Change) {
	for _, fn := range listeners {
		fn(c)
	}
}

func indexByID(items []entity.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// adoptDefinition copia a dst los campos de definición de src.
func adoptDefinition(dst *entity.Item, src entity.Item) {
	dst.Name, dst.Category, dst.Size, dst.Unit = src.Name, src.Category, src.Size, src.Unit
	dst.UsageType, dst.MinStockThreshold, dst.DailyUsage = src.UsageType, src.MinStockThreshold, src.DailyUsage
}

func checkUniqueKeys(items []entity.Item) error {
	type slot struct{ name, size, location string }
	seen := make(map[slot]struct{}, len(items))
	for _, it := range items {
		k := slot{it.Name, it.Size, it.Location}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: %s %s ya existe en %s", domain.ErrDuplicate, it.Name, it.Size, it.Location)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// ValidateSnapshot revisa un conjunto completo de filas: ids presentes y únicos, (nombre, talla,
// ubicación) única y cantidades no negativas. Devuelve ErrInvalidInput con la primera violación.
func ValidateSnapshot(items []entity.Item) error {
	ids := make(map[string]struct{}, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ID) == "" {
			return fmt.Errorf("%w: fila %s %s en %s sin id", domain.ErrInvalidInput, it.Name, it.Size, it.Location)
		}
		if _, dup := ids[it.ID]; dup {
			return fmt.Errorf("%w: id %s repetido", domain.ErrInvalidInput, it.ID)
		}
		ids[it.ID] = struct{}{}
		if it.ExpectedQty < 0 || it.ActualQty < 0 || it.MinStockThreshold < 0 {
			return fmt.Errorf("%w: %s %s en %s con cantidad negativa", domain.ErrInvalidInput, it.Name, it.Size, it.Location)
		}
	}
	if err := checkUniqueKeys(items); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
