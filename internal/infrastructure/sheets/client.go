// Package sheets implementa el espejo remoto sobre el endpoint HTTP de una hoja de cálculo.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/jhoicas/stock-laundry/internal/application/ports"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa RemoteMirror.
var _ ports.RemoteMirror = (*Client)(nil)

// maxResponseBytes límite de lectura de la respuesta del GET.
const maxResponseBytes = 8 << 20

// Client adaptador HTTP del espejo remoto.
type Client struct {
	httpClient *http.Client
}

// NewClient construye el adaptador. timeout es el límite de red por petición;
// los llamadores imponen además su propio context.WithTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// ── Cuerpos del protocolo ─────────────────────────────────────────────────────

type syncRequest struct {
	Action  string            `json:"action"`
	Payload []wireItem        `json:"payload"`
	Log     entity.AuditEntry `json:"log"`
}

type logRequest struct {
	Action string            `json:"action"`
	Log    entity.AuditEntry `json:"log"`
}

// wireItem fila tal como la guarda la hoja; dailyUsage viaja como número.
type wireItem struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	Size              string  `json:"size"`
	ExpectedQty       int     `json:"expectedQty"`
	ActualQty         int     `json:"actualQty"`
	MinStockThreshold int     `json:"minStockThreshold"`
	DailyUsage        float64 `json:"dailyUsage"`
	Unit              string  `json:"unit"`
	Location          string  `json:"location"`
	UsageType         string  `json:"usageType"`
	Status            string  `json:"status"`
	Condition         string  `json:"condition"`
	LastUpdated       string  `json:"lastUpdated"`
	UpdatedBy         string  `json:"updatedBy"`
	Notes             string  `json:"notes,omitempty"`
}

func toWire(items []entity.Item) []wireItem {
	out := make([]wireItem, len(items))
	for i, it := range items {
		usage, _ := it.DailyUsage.Float64()
		out[i] = wireItem{
			ID: it.ID, Name: it.Name, Category: it.Category, Size: it.Size,
			ExpectedQty: it.ExpectedQty, ActualQty: it.ActualQty, MinStockThreshold: it.MinStockThreshold,
			DailyUsage: usage, Unit: it.Unit, Location: it.Location, UsageType: it.UsageType,
			Status: it.Status, Condition: it.Condition, LastUpdated: it.LastUpdated, UpdatedBy: it.UpdatedBy,
			Notes: it.Notes,
		}
	}
	return out
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Fetch lee todas las filas. Un cuerpo que no es un arreglo JSON devuelve ok=false.
func (c *Client) Fetch(ctx context.Context, endpoint string) ([]entity.Item, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("sheets: crear HTTP request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, fmt.Errorf("sheets: timeout o cancelación: %w", ctx.Err())
		}
		return nil, false, fmt.Errorf("sheets: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, false, fmt.Errorf("sheets: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, fmt.Errorf("sheets: HTTP %d al leer filas", resp.StatusCode)
	}

	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil || rows == nil {
		return nil, false, nil
	}
	items := make([]entity.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, decodeRow(r))
	}
	return items, true, nil
}

// Push envía el conjunto completo junto con la entrada de bitácora. El código de estado no se interpreta.
func (c *Client) Push(ctx context.Context, endpoint string, items []entity.Item, entry entity.AuditEntry) error {
	return c.post(ctx, endpoint, syncRequest{Action: "sync", Payload: toWire(items), Log: entry})
}

// Log anexa solo una entrada de bitácora.
func (c *Client) Log(ctx context.Context, endpoint string, entry entity.AuditEntry) error {
	return c.post(ctx, endpoint, logRequest{Action: "log_only", Log: entry})
}

func (c *Client) post(ctx context.Context, endpoint string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("sheets: serializar request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("sheets: crear HTTP request: %w", err)
	}
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("sheets: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("sheets: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	return nil
}

// decodeRow convierte una fila remota. Los campos numéricos aceptan cadenas; un valor inválido vale 0.
func decodeRow(r map[string]any) entity.Item {
	return entity.Item{
		ID:                cast.ToString(r["id"]),
		Name:              cast.ToString(r["name"]),
		Category:          cast.ToString(r["category"]),
		Size:              cast.ToString(r["size"]),
		Unit:              cast.ToString(r["unit"]),
		UsageType:         cast.ToString(r["usageType"]),
		MinStockThreshold: toInt(r["minStockThreshold"]),
		DailyUsage:        decimal.NewFromFloat(toFloat(r["dailyUsage"])),
		Location:          cast.ToString(r["location"]),
		ExpectedQty:       toInt(r["expectedQty"]),
		ActualQty:         toInt(r["actualQty"]),
		Status:            cast.ToString(r["status"]),
		Condition:         cast.ToString(r["condition"]),
		LastUpdated:       cast.ToString(r["lastUpdated"]),
		UpdatedBy:         cast.ToString(r["updatedBy"]),
		Notes:             cast.ToString(r["notes"]),
	}
}

func toFloat(v any) float64 {
	f := cast.ToFloat64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// maxQuantity tope de cualquier cantidad leída de la hoja; fuera de rango se recorta.
const maxQuantity = math.MaxInt32

func toInt(v any) int {
	f := toFloat(v)
	switch {
	case f > maxQuantity:
		return maxQuantity
	case f < -maxQuantity:
		return -maxQuantity
	}
	return int(f)
}
