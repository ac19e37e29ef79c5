package domain

import (
	"time"

	"github.com/rodolfodevapp/eventshop-messaging-go/core/primitives"
)

// =========== Incoming payloads ===========

// SkuImportRequested (from sku.commands)
type SkuImportRequestedPayload struct {
	Skus []Sku `json:"skus"`
}

// =========== Outgoing events ===========

type SkusImportedEvent struct {
	primitives.BaseEvent
	SkuIDs        []uint64  `json:"skuIds"`
	Count         int       `json:"count"`
	Backend       string    `json:"backend"`
	ImportedAtUtc time.Time `json:"importedAtUtc"`
}

func NewSkusImportedEvent(backend string, skus []Sku) *SkusImportedEvent {
	ids := make([]uint64, 0, len(skus))
	for _, s := range skus {
		if s.SkuID != nil {
			ids = append(ids, *s.SkuID)
		}
	}
	ev := &SkusImportedEvent{
		BaseEvent:     primitives.NewBaseEvent(),
		SkuIDs:        ids,
		Count:         len(skus),
		Backend:       backend,
		ImportedAtUtc: time.Now().UTC(),
	}
	ev.SetRoutingKey("SkusImported")
	return ev
}
