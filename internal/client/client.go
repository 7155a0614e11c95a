// Package client talks to the spadesk JSON API. Endpoint adapts one entity of the API to
// storage.Repository so remote data can be browsed like the local database.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

const defaultTimeout = 10 * time.Second

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	username   string
	password   string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// List fetches one page of entity without decoding the records.
func (c *Client) List(ctx context.Context, entity string, req listquery.Request) (listquery.Page[json.RawMessage], error) {
	return List[json.RawMessage](ctx, c, entity, req)
}

func (c *Client) Delete(ctx context.Context, entity string, id int64) error {
	return c.do(ctx, http.MethodDelete, recordPath(entity, id), nil, nil, nil)
}

func List[T any](ctx context.Context, c *Client, entity string, req listquery.Request) (listquery.Page[T], error) {
	var page listquery.Page[T]
	err := c.do(ctx, http.MethodGet, "/api/"+entity+"/pagination", req.Values(), nil, &page)
	if page.Data == nil {
		page.Data = []T{}
	}
	return page, err
}

func Get[T any](ctx context.Context, c *Client, entity string, id int64) (T, error) {
	var record T
	err := c.do(ctx, http.MethodGet, recordPath(entity, id), nil, nil, &record)
	return record, err
}

func Create[T any](ctx context.Context, c *Client, entity string, record T) (T, error) {
	var created T
	err := c.do(ctx, http.MethodPost, "/api/"+entity, nil, record, &created)
	return created, err
}

func Update[T any](ctx context.Context, c *Client, entity string, id int64, record T) (T, error) {
	var updated T
	err := c.do(ctx, http.MethodPut, recordPath(entity, id), nil, record, &updated)
	return updated, err
}

// recordID reads the "id" field every entity carries in its JSON form.
func recordID(record any) (int64, error) {
	encoded, err := json.Marshal(record)
	if err != nil {
		return 0, fmt.Errorf("failed to encode record: %w", err)
	}

	var withID struct {
		ID int64 `json:"id"`
	}
	if err = json.Unmarshal(encoded, &withID); err != nil {
		return 0, fmt.Errorf("failed to read record id: %w", err)
	}
	return withID.ID, nil
}

func recordPath(entity string, id int64) string {
	return "/api/" + entity + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var envelope struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		apiErr.Fields = envelope.Fields
	}

	return apiErr
}

// Endpoint is a storage.Repository backed by the API.
type Endpoint[T any] struct {
	client *Client
	entity string
}

func NewEndpoint[T any](c *Client, entity string) *Endpoint[T] {
	return &Endpoint[T]{client: c, entity: entity}
}

func (e *Endpoint[T]) Get(ctx context.Context, id int64) (T, error) {
	record, err := Get[T](ctx, e.client, e.entity, id)
	return record, asStorageError(err)
}

func (e *Endpoint[T]) Create(ctx context.Context, record T) (int64, error) {
	created, err := Create(ctx, e.client, e.entity, record)
	if err != nil {
		return 0, asStorageError(err)
	}
	return recordID(created)
}

func (e *Endpoint[T]) Update(ctx context.Context, id int64, record T) error {
	_, err := Update(ctx, e.client, e.entity, id, record)
	return asStorageError(err)
}

func (e *Endpoint[T]) Delete(ctx context.Context, id int64) error {
	return asStorageError(e.client.Delete(ctx, e.entity, id))
}

func (e *Endpoint[T]) Paginate(ctx context.Context, req listquery.Request) (listquery.Page[T], error) {
	return List[T](ctx, e.client, e.entity, req)
}

// asStorageError maps API errors to the errors the database returns for the same failure.
func asStorageError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.StatusCode == http.StatusNotFound:
		return &storage.NotFoundError{}
	case apiErr.StatusCode == http.StatusBadRequest && len(apiErr.Fields) > 0:
		return &storage.ValidationError{Fields: apiErr.Fields}
	}
	return err
}

func (c *Client) Categories() storage.Repository[storage.Category] {
	return NewEndpoint[storage.Category](c, storage.CategoriesEntity)
}

func (c *Client) SubCategories() storage.Repository[storage.SubCategory] {
	return NewEndpoint[storage.SubCategory](c, storage.SubCategoriesEntity)
}

func (c *Client) PaymentModes() storage.Repository[storage.PaymentMode] {
	return NewEndpoint[storage.PaymentMode](c, storage.PaymentModesEntity)
}

func (c *Client) MeasurementUnits() storage.Repository[storage.MeasurementUnit] {
	return NewEndpoint[storage.MeasurementUnit](c, storage.MeasurementUnitsEntity)
}

func (c *Client) GiftCards() storage.Repository[storage.GiftCard] {
	return NewEndpoint[storage.GiftCard](c, storage.GiftCardsEntity)
}

func (c *Client) Inventory() storage.Repository[storage.InventoryItem] {
	return NewEndpoint[storage.InventoryItem](c, storage.InventoryEntity)
}
