package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"go-procurement/internal/common/crmprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/pkg/logging"
	"go-procurement/pkg/resttrace"
)

type Config struct {
	ServerAddress string
	Timeout       time.Duration
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// Client calls authenticated CRM endpoints. Every request carries the bearer
// token from the TokenSource; a 401 drops the cached token so the next call
// logs in again.
type Client struct {
	client *resty.Client
	tokens TokenSource
	logger *logging.ZapLogger
}

func New(cfg Config, tokens TokenSource, logger *logging.ZapLogger) *Client {
	client := resty.New().
		SetBaseURL(cfg.ServerAddress).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{
		client: resttrace.Instrument(client, "crm"),
		tokens: tokens,
		logger: logger,
	}
}

// GetProspects lists CRM contacts of type prospect. The CRM has no server
// side search, so search and limit are applied here.
func (c *Client) GetProspects(ctx context.Context, search string, limit int) ([]data.Prospect, error) {
	request, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := request.Get("/api/ContactoTipo/Prospecto")
	if err != nil {
		return nil, fmt.Errorf("get prospects request failed: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	contacts, err := decodeContacts(resp.Body())
	if err != nil {
		c.logger.ErrorCtx(ctx, "error unmarshalling prospects", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	res := make([]data.Prospect, 0, len(contacts))
	for _, contact := range contacts {
		prospect := toProspect(contact)
		if needle != "" && !matches(prospect, needle) {
			continue
		}
		res = append(res, prospect)
		if limit > 0 && len(res) == limit {
			break
		}
	}
	return res, nil
}

func (c *Client) CreateVendor(ctx context.Context, payload crmprotocol.VendorPayload) error {
	request, err := c.request(ctx)
	if err != nil {
		return err
	}
	resp, err := request.SetBody(payload).Post("/api/Proveedor")
	if err != nil {
		return fmt.Errorf("create crm vendor request failed: %w", err)
	}
	return c.checkStatus(resp)
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	return c.client.R().SetContext(ctx).SetAuthToken(token), nil
}

func (c *Client) checkStatus(resp *resty.Response) error {
	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		c.tokens.Invalidate()
		return ErrUnauthorized
	case resp.IsError():
		return fmt.Errorf("%w: status code %v", ErrUnexpected, resp.StatusCode())
	}
	return nil
}

func decodeContacts(body []byte) ([]crmprotocol.Contact, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []crmprotocol.Contact
		err := json.Unmarshal(body, &list)
		return list, err
	}
	var wrapped crmprotocol.ContactList
	err := json.Unmarshal(body, &wrapped)
	return wrapped.Data, err
}

func toProspect(contact crmprotocol.Contact) data.Prospect {
	name := firstOf(contact.Nombre, contact.Name, contact.NombreCompleto)
	if name == "" {
		name = strings.TrimSpace(contact.Nombres + " " + contact.Apellidos)
	}
	return data.Prospect{
		ID:      idOf(contact.ID, contact.ContactID, contact.ContactIDCamel),
		Name:    name,
		Email:   firstOf(contact.Email, contact.Correo),
		Phone:   firstOf(contact.Telefono, contact.Celular, contact.Telefono1),
		Address: firstOf(contact.Direccion, contact.Domicilio, contact.DireccionPpal),
		City:    firstOf(contact.Ciudad, contact.Municipio),
		Country: firstOf(contact.Pais, contact.PaisResidencia),
	}
}

func matches(prospect data.Prospect, needle string) bool {
	for _, field := range []string{prospect.Name, prospect.Email, prospect.Phone} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func firstOf(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

func idOf(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			if v != 0 {
				return fmt.Sprintf("%.0f", v)
			}
		}
	}
	return ""
}
