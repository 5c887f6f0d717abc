// Package mirror coordina el envío y la lectura del inventario contra el espejo remoto
// bajo una política offline-first: el estado local manda y una lectura remota vacía nunca
// borra datos locales.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/jhoicas/stock-laundry/internal/application/inventory"
	"github.com/jhoicas/stock-laundry/internal/application/ports"
	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/repository"
)

// Direcciones de sincronización.
const (
	DirectionPush = "PUSH"
	DirectionPull = "PULL"
)

// Resultados posibles de un envío o una lectura.
const (
	OutcomeSucceeded = "SUCCEEDED" // envío despachado sin error de transporte
	OutcomeFailed    = "FAILED"    // error de transporte, HTTP o de persistencia
	OutcomeApplied   = "APPLIED"   // filas remotas reemplazaron las locales
	OutcomeRejected  = "REJECTED"  // remoto vacío con local no vacío
	OutcomeNoData    = "NO_DATA"   // respuesta sin arreglo, o ambos lados vacíos
	OutcomeStale     = "STALE"     // el inventario local cambió durante la lectura
	OutcomeLocked    = "LOCKED"    // pullLock activo en un disparo no forzado
	OutcomeDropped   = "DROPPED"   // ya había una lectura en curso
	OutcomeInvalid   = "INVALID"   // filas remotas con cantidades negativas o claves repetidas
)

// Result resultado de un envío o una lectura.
type Result struct {
	Direction string    `json:"direction"`
	Outcome   string    `json:"outcome"`
	Rows      int       `json:"rows"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}

// Status estado visible de la sincronización.
type Status struct {
	Config       entity.SyncConfig `json:"config"`
	Pushing      bool              `json:"pushing"`
	Pulling      bool              `json:"pulling"`
	LastSyncedAt *time.Time        `json:"lastSyncedAt,omitempty"`
	LastPush     *Result           `json:"lastPush,omitempty"`
	LastPull     *Result           `json:"lastPull,omitempty"`
}

// Inventory lo que el coordinador necesita del Store.
type Inventory interface {
	Snapshot() ([]entity.Item, uint64)
	ReplaceAll(ctx context.Context, gen uint64, items []entity.Item, actor entity.Actor) error
}

// Options tiempos del coordinador.
type Options struct {
	AutoPushDelay  time.Duration // espera sin cambios antes del envío automático
	PullInterval   time.Duration // periodo de lectura automática
	RequestTimeout time.Duration // límite de cada envío o lectura disparados por temporizador
	BootstrapURL   string        // si no está vacío, conecta el endpoint al arrancar con autoSync
}

// Deps dependencias del coordinador.
type Deps struct {
	Inventory Inventory
	Mirror    ports.RemoteMirror
	State     repository.StateRepository
	Clock     ports.Clock
	IDs       ports.IDGenerator // ids para filas remotas sin id; por defecto UUID
	Logger    zerolog.Logger
}

// Coordinator serializa envíos y lecturas con opMu; pullGate descarta lecturas reentrantes.
type Coordinator struct {
	inv    Inventory
	mirror ports.RemoteMirror
	state  repository.StateRepository
	clock  ports.Clock
	ids    ports.IDGenerator
	log    zerolog.Logger
	opts   Options

	mu        sync.Mutex
	cfg       entity.SyncConfig
	status    Status
	lastActor entity.Actor

	opMu     sync.Mutex
	pullGate *semaphore.Weighted

	debounce *Debouncer
	ticker   *Ticker
}

// NewCoordinator carga la configuración persistida y aplica BootstrapURL.
func NewCoordinator(ctx context.Context, deps Deps, opts Options) (*Coordinator, error) {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if deps.IDs == nil {
		deps.IDs = ports.UUIDGenerator{}
	}
	c := &Coordinator{
		ids:       deps.IDs,
		inv:       deps.Inventory,
		mirror:    deps.Mirror,
		state:     deps.State,
		clock:     deps.Clock,
		log:       deps.Logger.With().Str("component", "mirror_sync").Logger(),
		opts:      opts,
		pullGate:  semaphore.NewWeighted(1),
		lastActor: entity.SystemActor,
	}
	if _, err := deps.State.Get(ctx, repository.KeySyncConfig, &c.cfg); err != nil {
		return nil, fmt.Errorf("cargar configuración de sincronización: %w", err)
	}
	if u := strings.TrimSpace(opts.BootstrapURL); u != "" {
		c.cfg.ScriptURL = u
		c.cfg.IsConnected = true
		c.cfg.AutoSync = true
		if err := deps.State.Put(ctx, repository.KeySyncConfig, c.cfg); err != nil {
			return nil, fmt.Errorf("guardar configuración de sincronización: %w", err)
		}
	}
	c.debounce = NewDebouncer(opts.AutoPushDelay, c.autoPush)
	c.ticker = NewTicker(opts.PullInterval, c.periodicPull)
	return c, nil
}

// Start arranca la lectura periódica.
func (c *Coordinator) Start(ctx context.Context) {
	c.ticker.Start(ctx)
}

// Close detiene temporizadores y espera a que termine lo que esté en curso.
func (c *Coordinator) Close() {
	c.ticker.Stop()
	c.debounce.Stop()
}

// Config configuración actual.
func (c *Coordinator) Config() entity.SyncConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Configure valida y persiste la configuración. Un endpoint vacío desconecta.
func (c *Coordinator) Configure(ctx context.Context, cfg entity.SyncConfig) (entity.SyncConfig, error) {
	cfg.ScriptURL = strings.TrimSpace(cfg.ScriptURL)
	if cfg.ScriptURL == "" {
		cfg.IsConnected = false
	} else if u, err := url.Parse(cfg.ScriptURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return entity.SyncConfig{}, fmt.Errorf("%w: endpoint %q", domain.ErrInvalidInput, cfg.ScriptURL)
	}
	if err := c.state.Put(ctx, repository.KeySyncConfig, cfg); err != nil {
		return entity.SyncConfig{}, err
	}
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
	if !cfg.AutoSync || !cfg.Enabled() {
		c.debounce.Cancel()
	}
	c.log.Info().Bool("connected", cfg.IsConnected).Bool("auto_sync", cfg.AutoSync).Bool("pull_lock", cfg.PullLock).Msg("configuración de sincronización actualizada")
	return cfg, nil
}

// Status copia del estado visible.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.status
	st.Config = c.cfg
	return st
}

// NotifyChange recibe los cambios del Store. Los cambios locales rearman el envío automático;
// los que vienen de una lectura remota no.
func (c *Coordinator) NotifyChange(ch inventory.Change) {
	if ch.Origin == inventory.OriginRemote {
		return
	}
	c.mu.Lock()
	c.lastActor = ch.Actor
	cfg := c.cfg
	c.mu.Unlock()
	if cfg.AutoSync && cfg.Enabled() {
		c.debounce.Trigger()
	}
}

// Push envía el conjunto completo de filas tal como está al despachar.
func (c *Coordinator) Push(ctx context.Context, actor entity.Actor) (Result, error) {
	cfg := c.Config()
	if cfg.ScriptURL == "" {
		return Result{}, domain.ErrSyncNotConfigured
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.setBusy(DirectionPush, true)
	defer c.setBusy(DirectionPush, false)

	items, _ := c.inv.Snapshot()
	entry := c.audit(actor, entity.ActivityPush, fmt.Sprintf("Sinkronisasi %d item", len(items)))
	if err := c.mirror.Push(ctx, cfg.ScriptURL, items, entry); err != nil {
		c.logAudit(ctx, cfg.ScriptURL, c.audit(actor, entity.ActivityPushError, err.Error()))
		c.log.Error().Err(err).Int("rows", len(items)).Msg("envío al espejo remoto falló")
		return c.record(Result{Direction: DirectionPush, Outcome: OutcomeFailed, Rows: len(items), Message: err.Error()}), nil
	}
	c.log.Info().Int("rows", len(items)).Str("user", actor.Name).Msg("inventario enviado al espejo remoto")
	return c.record(Result{Direction: DirectionPush, Outcome: OutcomeSucceeded, Rows: len(items)}), nil
}

// Pull lee el espejo remoto y, si trae filas, reemplaza las locales. Un disparo no forzado
// respeta pullLock; uno forzado lo ignora. Si ya hay una lectura en curso se descarta sin red.
func (c *Coordinator) Pull(ctx context.Context, actor entity.Actor, force bool) (Result, error) {
	cfg := c.Config()
	if cfg.ScriptURL == "" {
		return Result{}, domain.ErrSyncNotConfigured
	}
	if !force && cfg.PullLock {
		return Result{Direction: DirectionPull, Outcome: OutcomeLocked, At: c.clock.Now()}, nil
	}
	if !c.pullGate.TryAcquire(1) {
		return Result{Direction: DirectionPull, Outcome: OutcomeDropped, At: c.clock.Now()}, nil
	}
	defer c.pullGate.Release(1)

	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.setBusy(DirectionPull, true)
	defer c.setBusy(DirectionPull, false)

	local, gen := c.inv.Snapshot()
	rows, ok, err := c.mirror.Fetch(ctx, cfg.ScriptURL)
	switch {
	case err != nil:
		c.logAudit(ctx, cfg.ScriptURL, c.audit(actor, entity.ActivityPullError, err.Error()))
		c.log.Error().Err(err).Msg("lectura del espejo remoto falló")
		return c.record(Result{Direction: DirectionPull, Outcome: OutcomeFailed, Message: err.Error()}), nil

	case !ok:
		c.logAudit(ctx, cfg.ScriptURL, c.audit(actor, entity.ActivityPullEmpty, "Respons tanpa data"))
		return c.record(Result{Direction: DirectionPull, Outcome: OutcomeNoData}), nil

	case len(rows) == 0 && len(local) > 0:
		c.logAudit(ctx, cfg.ScriptURL, c.audit(actor, entity.ActivityPullProtected,
			fmt.Sprintf("Data cloud kosong, %d item lokal dipertahankan", len(local))))
		c.log.Warn().Int("local_rows", len(local)).Msg("lectura remota vacía rechazada: se conservan los datos locales")
		return c.record(Result{Direction: DirectionPull, Outcome: OutcomeRejected}), nil

	case len(rows) == 0:
		c.logAudit(ctx, cfg.ScriptURL, c.audit(actor, entity.ActivityPullEmpty, "Data cloud kosong"))
		return c.record(Result{Direction: DirectionPull, Outcome: OutcomeNoData}), nil
	}

	rows = c.assignIDs(rows, local)
	if err := inventory.ValidateSnapshot(rows); err != nil {
		c.logAudit(ctx, cfg.ScriptURL, c.audit(actor, entity.ActivityPullInvalid, err.Error()))
		c.log.Warn().Err(err).Int("rows", len(rows)).Msg("lectura remota rechazada: filas inválidas")
		return c.record(Result{Direction: DirectionPull, Outcome: OutcomeInvalid, Rows: len(rows), Message: err.Error()}), nil
	}

	if err := c.inv.ReplaceAll(ctx, gen, rows, actor); err != nil {
		if errors.Is(err, domain.ErrStaleGeneration) {
			c.logAudit(ctx, cfg.ScriptURL, c.audit(actor, entity.ActivityPullStale, err.Error()))
			c.log.Warn().Err(err).Msg("lectura remota descartada: el inventario cambió durante la consulta")
			return c.record(Result{Direction: DirectionPull, Outcome: OutcomeStale, Rows: len(rows), Message: err.Error()}), nil
		}
		c.logAudit(ctx, cfg.ScriptURL, c.audit(actor, entity.ActivityPullError, err.Error()))
		return c.record(Result{Direction: DirectionPull, Outcome: OutcomeFailed, Rows: len(rows), Message: err.Error()}), nil
	}
	c.logAudit(ctx, cfg.ScriptURL, c.audit(actor, entity.ActivityPull, fmt.Sprintf("Menarik %d item", len(rows))))
	c.log.Info().Int("rows", len(rows)).Str("user", actor.Name).Msg("inventario reemplazado desde el espejo remoto")
	return c.record(Result{Direction: DirectionPull, Outcome: OutcomeApplied, Rows: len(rows)}), nil
}

// assignIDs completa las filas remotas que llegan sin id: toman el id de la fila local con la misma
// (nombre, talla, ubicación) si nadie más lo usa, y si no uno nuevo. Así una lectura repetida no
// cambia los ids.
func (c *Coordinator) assignIDs(rows, local []entity.Item) []entity.Item {
	type slot struct{ name, size, location string }
	known := make(map[slot]string, len(local))
	for _, it := range local {
		known[slot{it.Name, it.Size, it.Location}] = it.ID
	}
	used := make(map[string]bool, len(rows))
	for _, r := range rows {
		used[r.ID] = true
	}

	out := entity.CloneItems(rows)
	for i := range out {
		if strings.TrimSpace(out[i].ID) != "" {
			continue
		}
		id, ok := known[slot{out[i].Name, out[i].Size, out[i].Location}]
		if !ok || id == "" || used[id] {
			id = c.ids.NewID()
		}
		out[i].ID = id
		used[id] = true
	}
	return out
}

func (c *Coordinator) autoPush() {
	c.mu.Lock()
	actor := c.lastActor
	cfg := c.cfg
	c.mu.Unlock()
	if !cfg.AutoSync || !cfg.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.RequestTimeout)
	defer cancel()
	if _, err := c.Push(ctx, actor); err != nil {
		c.log.Warn().Err(err).Msg("envío automático omitido")
	}
}

// periodicPull solo corre con endpoint conectado, sin pullLock y con una sesión activa.
func (c *Coordinator) periodicPull(ctx context.Context) {
	cfg := c.Config()
	if !cfg.Enabled() || cfg.PullLock {
		return
	}
	var sess entity.Session
	ok, err := c.state.Get(ctx, repository.KeyCurrentUser, &sess)
	if err != nil || !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()
	if _, err := c.Pull(ctx, sess.Actor(), false); err != nil {
		c.log.Warn().Err(err).Msg("lectura periódica omitida")
	}
}

func (c *Coordinator) audit(actor entity.Actor, activity, details string) entity.AuditEntry {
	return entity.AuditEntry{
		Timestamp: c.clock.Now().UTC().Format(time.RFC3339),
		User:      actor.Name,
		Role:      actor.Role,
		Activity:  activity,
		Details:   details,
	}
}

// logAudit anexa una entrada a la bitácora remota; un fallo solo se registra localmente.
func (c *Coordinator) logAudit(ctx context.Context, endpoint string, entry entity.AuditEntry) {
	if err := c.mirror.Log(ctx, endpoint, entry); err != nil {
		c.log.Warn().Err(err).Str("activity", entry.Activity).Msg("no se pudo registrar la bitácora remota")
	}
}

func (c *Coordinator) setBusy(direction string, busy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if direction == DirectionPush {
		c.status.Pushing = busy
	} else {
		c.status.Pulling = busy
	}
}

// record sella el resultado y actualiza lastSyncedAt solo en envíos exitosos y lecturas aplicadas.
func (c *Coordinator) record(r Result) Result {
	r.At = c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.Outcome == OutcomeSucceeded || r.Outcome == OutcomeApplied {
		at := r.At
		c.status.LastSyncedAt = &at
	}
	if r.Direction == DirectionPush {
		c.status.LastPush = &r
	} else {
		c.status.LastPull = &r
	}
	return r
}
