// Package console is the admin console engine: it talks to the API on behalf
// of a signed-in operator and keeps the state behind each admin screen.
package console

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

	"kidcare/internal/domain/status"
	"kidcare/internal/usecase"
)

// 画面に載るレコードはAPIのレスポンスそのもの
type (
	Order       = usecase.OrderOutput
	Appointment = usecase.AppointmentOutput
	Child       = usecase.ChildOutput
	User        = usecase.UserOutput
)

// 呼び出しごとに渡すトークンの出どころ
type Credential interface {
	Token(ctx context.Context) (string, error)
}

// 固定のbearerトークン
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", errors.New("empty token")
	}
	return string(t), nil
}

// 通信・認証・サーバー側の障害。再操作すれば通るかもしれない
type TransportError struct {
	Op     string
	Status int // 通信自体の失敗なら0
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server responded %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// 変更がサーバーに拒否された（存在しない・遷移不可など）
type TransitionError struct {
	Op      string
	Status  int
	Message string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: rejected (%d): %s", e.Op, e.Status, e.Message)
}

func (e *TransitionError) Unwrap() error { return status.ErrInvalidTransition }

type Client struct {
	baseURL string
	cred    Credential
	http    *http.Client
}

// hcがnilなら10秒タイムアウトのクライアント
func NewClient(baseURL string, cred Credential, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), cred: cred, http: hc}
}

// 別の利用者として呼ぶ
func (c *Client) WithCredential(cred Credential) *Client {
	cp := *c
	cp.cred = cred
	return &cp
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type listBody[T any] struct {
	Data         []T    `json:"data"`
	TotalEntries int    `json:"totalEntries"`
	NextCursor   string `json:"nextCursor"`
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	mutation := method != http.MethodGet

	token, err := c.cred.Token(ctx)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		var eb errorBody
		_ = json.NewDecoder(res.Body).Decode(&eb)
		if eb.Error == "" {
			eb.Error = http.StatusText(res.StatusCode)
		}
		return classify(op, res.StatusCode, mutation, eb)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Status: res.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// 401/403/5xxは通信エラー扱い。変更系の4xxは拒否、入力エラーはフィールドごとに返す
func classify(op string, code int, mutation bool, eb errorBody) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden || code >= 500:
		return &TransportError{Op: op, Status: code, Err: errors.New(eb.Error)}
	case code == http.StatusBadRequest && len(eb.Fields) > 0:
		return ValidationErrors(eb.Fields)
	case mutation:
		return &TransitionError{Op: op, Status: code, Message: eb.Error}
	default:
		return &TransportError{Op: op, Status: code, Err: errors.New(eb.Error)}
	}
}

// 管理者の注文一覧（全件。ページングは画面側）
func (c *Client) ListOrders(ctx context.Context, statusFilter string) ([]Order, error) {
	q := url.Values{}
	if statusFilter != "" {
		q.Set("status", statusFilter)
	}
	var out listBody[Order]
	if err := c.do(ctx, "list orders", http.MethodGet, "/admin/orders", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id, to string) (Order, error) {
	var out Order
	err := c.do(ctx, "update order status", http.MethodPatch, "/admin/orders/"+url.PathEscape(id)+"/status", nil, map[string]string{"status": to}, &out)
	return out, err
}

func (c *Client) ListAppointments(ctx context.Context, statusFilter string) ([]Appointment, error) {
	q := url.Values{}
	if statusFilter != "" {
		q.Set("status", statusFilter)
	}
	var out listBody[Appointment]
	if err := c.do(ctx, "list appointments", http.MethodGet, "/admin/appointments", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) UpdateAppointmentStatus(ctx context.Context, id, to string) (Appointment, error) {
	var out Appointment
	err := c.do(ctx, "update appointment status", http.MethodPatch, "/admin/appointments/"+url.PathEscape(id)+"/status", nil, map[string]string{"status": to}, &out)
	return out, err
}

func (c *Client) CreateAppointment(ctx context.Context, in usecase.CreateAppointmentInput) (Appointment, error) {
	var out Appointment
	err := c.do(ctx, "create appointment", http.MethodPost, "/appointments", nil, in, &out)
	return out, err
}

// カーソル一覧（listing.CursorFetcherとして使える）
func (c *Client) ListChildren(ctx context.Context, cursor string, limit int) ([]Child, string, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out listBody[Child]
	if err := c.do(ctx, "list children", http.MethodGet, "/admin/children", q, nil, &out); err != nil {
		return nil, "", err
	}
	return out.Data, out.NextCursor, nil
}

func (c *Client) ListUsers(ctx context.Context, role string) ([]User, error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", role)
	}
	var out listBody[User]
	if err := c.do(ctx, "list users", http.MethodGet, "/admin/users", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) UpdateUserField(ctx context.Context, id, field, value string) (User, error) {
	var out User
	err := c.do(ctx, "update user", http.MethodPatch, "/admin/users/"+url.PathEscape(id), nil, usecase.UpdateUserFieldInput{Field: field, Value: value}, &out)
	return out, err
}
