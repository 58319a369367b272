package medications

import "context"

type Repository interface {
	Create(ctx context.Context, m Medication) error
	Update(ctx context.Context, m Medication) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Medication, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error)
}

// HistoryClearer borra el historial de tomas de un medicamento.
// Lo implementa el repo de dosehistory; se inyecta para no importar ese paquete.
type HistoryClearer interface {
	DeleteByMedication(ctx context.Context, ownerUserID, medicationID string) (int, error)
}
