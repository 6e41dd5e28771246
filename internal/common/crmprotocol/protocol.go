package crmprotocol

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse covers the token layouts the CRM has been seen to return.
type LoginResponse struct {
	Token       string     `json:"token"`
	AccessToken string     `json:"access_token"`
	AccessTok   string     `json:"accessToken"`
	JWT         string     `json:"jwt"`
	ExpiresIn   *float64   `json:"expires_in"`
	ExpiresInC  *float64   `json:"expiresIn"`
	Data        *LoginData `json:"data"`
}

type LoginData struct {
	Token     string   `json:"token"`
	ExpiresIn *float64 `json:"expires_in"`
}

// Contact is a prospect record; field names differ between CRM versions.
type Contact struct {
	ID             any    `json:"id"`
	ContactID      any    `json:"contacto_id"`
	ContactIDCamel any    `json:"contactoId"`
	Nombre         string `json:"nombre"`
	Name           string `json:"name"`
	NombreCompleto string `json:"nombreCompleto"`
	Nombres        string `json:"nombres"`
	Apellidos      string `json:"apellidos"`
	Email          string `json:"email"`
	Correo         string `json:"correo"`
	Telefono       string `json:"telefono"`
	Celular        string `json:"celular"`
	Telefono1      string `json:"telefono1"`
	Direccion      string `json:"direccion"`
	Domicilio      string `json:"domicilio"`
	DireccionPpal  string `json:"direccionPrincipal"`
	Ciudad         string `json:"ciudad"`
	Municipio      string `json:"municipio"`
	Pais           string `json:"pais"`
	PaisResidencia string `json:"paisResidencia"`
}

type ContactList struct {
	Data []Contact `json:"data"`
}

type VendorPayload struct {
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	NIT              int64         `json:"nit"`
	PrincipalContact string        `json:"contactoPrincipal,omitempty"`
	Contact          *VendorPerson `json:"contacto,omitempty"`
}

type VendorPerson struct {
	FirstName      string `json:"primerNombre,omitempty"`
	MiddleName     string `json:"segundoNombre,omitempty"`
	LastName       string `json:"primerApellido,omitempty"`
	SecondLastName string `json:"segundoApellido,omitempty"`
	DPI            int64  `json:"dpi,omitempty"`
	Address        string `json:"direccion,omitempty"`
	Phone          string `json:"telefono,omitempty"`
	Email          string `json:"correo,omitempty"`
	BirthDate      string `json:"fecha_Nacimiento,omitempty"`
}
