package inventoryprotocol

// Adjustment quantity sign: positive means stock received.
type Adjustment struct {
	ProductID  int64  `json:"id_producto"`
	LocationID int64  `json:"id_ubicacion"`
	Quantity   int    `json:"cantidad"`
	Reason     string `json:"motivo"`
	User       string `json:"usuario"`
}
