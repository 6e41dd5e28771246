package purchasingprotocol

import "github.com/shopspring/decimal"

// Estado values the purchasing backend accepts on writes. Reads may return
// other spellings; see package status.
const (
	Pending   Estado = "PENDIENTE"
	Approved  Estado = "APROBADA"
	Rejected  Estado = "RECHAZADA"
	Delivered Estado = "ENTREGADA"

	// NewOrderEstado is what the backend expects on order creation.
	NewOrderEstado Estado = "pendiente"

	ActiveVendor = "Activo"
)

type Estado string

type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

type Order struct {
	ID               int64           `json:"id_orden_compra"`
	VendorID         int64           `json:"id_proveedor"`
	Number           string          `json:"numero_orden"`
	OrderDate        string          `json:"fecha_orden"`
	ExpectedDelivery *string         `json:"fecha_entrega_esperada"`
	Estado           *string         `json:"estado"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"impuestos"`
	Total            decimal.Decimal `json:"total"`
	Currency         string          `json:"moneda"`
	PaymentTerms     string          `json:"terminos_pago"`
	Notes            string          `json:"observaciones"`
	CreatedAt        string          `json:"fecha_creacion"`
	UpdatedAt        string          `json:"fecha_actualizacion"`
	VendorName       string          `json:"nombre_proveedor"`
	VendorContact    string          `json:"contacto_proveedor"`
	Lines            []Line          `json:"detalles"`
}

type Line struct {
	ID          int64           `json:"id_detalle"`
	OrderID     int64           `json:"id_orden_compra"`
	ProductID   int64           `json:"id_producto"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Discount    decimal.Decimal `json:"descuento"`
	Subtotal    decimal.Decimal `json:"subtotal_linea"`
	Tax         decimal.Decimal `json:"impuestos_linea"`
	Total       decimal.Decimal `json:"total_linea"`
	Description string          `json:"descripcion_producto"`
	LineNumber  int             `json:"numero_linea"`
}

type CreateOrderRequest struct {
	Order OrderPayload  `json:"orden"`
	Lines []LinePayload `json:"detalles"`
}

type OrderPayload struct {
	VendorID         int64           `json:"id_proveedor"`
	Number           string          `json:"numero_orden"`
	OrderDate        string          `json:"fecha_orden"`
	ExpectedDelivery *string         `json:"fecha_entrega_esperada"`
	Estado           Estado          `json:"estado"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"impuestos"`
	Total            decimal.Decimal `json:"total"`
	Currency         string          `json:"moneda"`
	PaymentTerms     string          `json:"terminos_pago"`
	Notes            string          `json:"observaciones"`
	CreatedBy        int64           `json:"creado_por"`
}

type LinePayload struct {
	ProductID   int64           `json:"id_producto"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Discount    decimal.Decimal `json:"descuento"`
	Description string          `json:"descripcion_producto"`
	LineNumber  int             `json:"numero_linea"`
}

type StatusUpdate struct {
	Estado Estado `json:"estado"`
}

type StatusUpdateResult struct {
	ID     int64   `json:"id"`
	Estado *string `json:"estado"`
}

type Vendor struct {
	ID           int64  `json:"id_proveedor"`
	Name         string `json:"nombre"`
	TaxID        string `json:"nit,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"telefono,omitempty"`
	Address      string `json:"direccion,omitempty"`
	Contact      string `json:"contacto,omitempty"`
	City         string `json:"ciudad,omitempty"`
	Country      string `json:"pais,omitempty"`
	State        string `json:"estado,omitempty"`
	RegisteredAt string `json:"fecha_registro,omitempty"`
}

type VendorPayload struct {
	Name    string `json:"nombre,omitempty"`
	TaxID   string `json:"nit,omitempty"`
	Contact string `json:"contacto,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"telefono,omitempty"`
	Address string `json:"direccion,omitempty"`
	City    string `json:"ciudad,omitempty"`
	Country string `json:"pais,omitempty"`
	State   string `json:"estado,omitempty"`
}

type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
