// Package status maps the free-text order states returned by the purchasing
// backend onto data.Status.
package status

import (
	"strings"

	"go-procurement/internal/procurement/data"
)

var synonyms = map[string]data.Status{
	"PENDIENTE":  data.PendingStatus,
	"PENDING":    data.PendingStatus,
	"APROBADA":   data.ApprovedStatus,
	"APPROVED":   data.ApprovedStatus,
	"EN_PROCESO": data.ApprovedStatus,
	"RECHAZADA":  data.RejectedStatus,
	"CANCELADA":  data.RejectedStatus,
	"REJECTED":   data.RejectedStatus,
	"ENTREGADA":  data.DeliveredStatus,
	"RECIBIDA":   data.DeliveredStatus,
	"COMPLETA":   data.DeliveredStatus,
	"COMPLETADA": data.DeliveredStatus,
	"DELIVERED":  data.DeliveredStatus,
}

// Normalize never fails: nil and unknown values degrade to PENDING.
func Normalize(raw *string) data.Status {
	if raw == nil {
		return data.PendingStatus
	}
	return NormalizeString(*raw)
}

func NormalizeString(raw string) data.Status {
	key := strings.Join(strings.Fields(strings.ToUpper(raw)), "_")
	if s, ok := synonyms[key]; ok {
		return s
	}
	return data.PendingStatus
}
