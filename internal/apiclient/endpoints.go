package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hos-planner/internal/domain"
)

// validator is implemented by every domain payload that can check itself.
type validator interface {
	Validate() error
}

// ---- auth ----

// Login exchanges credentials for a token pair. Rejected credentials return
// a *domain.AuthenticationError with the server's message, or "Login failed".
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.TokenPair, error) {
	var out domain.TokenPair
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login/", body: creds, public: true}, &out)
	if err != nil {
		return domain.TokenPair{}, authError(err, "Login failed")
	}
	if out.Access == "" || out.Refresh == "" {
		return domain.TokenPair{}, fmt.Errorf("%w: login response is missing tokens", domain.ErrMalformedResponse)
	}
	return out, nil
}

// Register creates an account and returns its token pair. Rejected input
// returns a *domain.AuthenticationError with the server's message, or
// "Registration failed".
func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.TokenPair, error) {
	var out domain.TokenPair
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register/", body: reg, public: true}, &out)
	if err != nil {
		return domain.TokenPair{}, authError(err, "Registration failed")
	}
	if out.Access == "" || out.Refresh == "" {
		return domain.TokenPair{}, fmt.Errorf("%w: registration response is missing tokens", domain.ErrMalformedResponse)
	}
	return out, nil
}

// Refresh exchanges a refresh token for a new access token. It never
// triggers the 401 recovery itself.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		Access string `json:"access"`
	}
	body := map[string]string{"refresh": refreshToken}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/refresh/", body: body, public: true}, &out); err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", fmt.Errorf("%w: refresh response has no access token", domain.ErrMalformedResponse)
	}
	return out.Access, nil
}

// userInfo is the wire shape of GET /user-info/.
type userInfo struct {
	UserID    int                 `json:"user_id"`
	Username  string              `json:"username"`
	Email     openapi_types.Email `json:"email"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	IsAdmin   bool                `json:"is_admin"`
	HasDriver bool                `json:"has_driver"`
}

// UserInfo returns the profile of the authenticated user.
func (c *Client) UserInfo(ctx context.Context) (domain.User, error) {
	var out userInfo
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user-info/"}, &out); err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		ID:        out.UserID,
		Username:  out.Username,
		Email:     out.Email,
		FirstName: out.FirstName,
		LastName:  out.LastName,
		IsAdmin:   out.IsAdmin,
		HasDriver: out.HasDriver,
	}
	if err := u.Validate(); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// ---- trips ----

// ListTrips returns the trips visible to the user.
func (c *Client) ListTrips(ctx context.Context, params domain.TripListParams) ([]domain.Trip, error) {
	return getList[domain.Trip](ctx, c, request{method: http.MethodGet, path: "/trips/", query: params.Query()})
}

// GetTrip returns one trip.
func (c *Client) GetTrip(ctx context.Context, id int) (domain.Trip, error) {
	return call[domain.Trip](ctx, c, request{method: http.MethodGet, path: tripPath(id)})
}

// CreateTrip creates a trip.
func (c *Client) CreateTrip(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	return call[domain.Trip](ctx, c, request{method: http.MethodPost, path: "/trips/", body: in})
}

// UpdateTrip applies a partial update and returns the updated trip.
func (c *Client) UpdateTrip(ctx context.Context, id int, upd domain.TripUpdate) (domain.Trip, error) {
	return call[domain.Trip](ctx, c, request{method: http.MethodPatch, path: tripPath(id), body: upd})
}

// DeleteTrip deletes a trip.
func (c *Client) DeleteTrip(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: tripPath(id)}, nil)
}

// CalculateRoute asks the server to plan an HOS-compliant route for a trip.
func (c *Client) CalculateRoute(ctx context.Context, id int) (domain.RouteResponse, error) {
	return call[domain.RouteResponse](ctx, c, request{method: http.MethodPost, path: tripPath(id) + "route/"})
}

// ---- duty statuses ----

// ListDutyStatuses returns the duty statuses recorded for a trip.
func (c *Client) ListDutyStatuses(ctx context.Context, tripID int) ([]domain.DutyStatus, error) {
	return getList[domain.DutyStatus](ctx, c, request{method: http.MethodGet, path: tripPath(tripID) + "duty-status/"})
}

// CreateDutyStatus appends a duty status to a trip.
func (c *Client) CreateDutyStatus(ctx context.Context, tripID int, in domain.DutyStatusInput) (domain.DutyStatus, error) {
	return call[domain.DutyStatus](ctx, c, request{method: http.MethodPost, path: tripPath(tripID) + "duty-status/", body: in})
}

// ---- eld logs ----

// ListELDLogs returns the daily logs the server generated for a trip.
func (c *Client) ListELDLogs(ctx context.Context, tripID int) ([]domain.ELDLog, error) {
	return getList[domain.ELDLog](ctx, c, request{method: http.MethodGet, path: tripPath(tripID) + "eld-logs/"})
}

// GenerateELDLog asks the server to generate the log for one date. The
// server answers either with the log itself or with {message, logs}.
func (c *Client) GenerateELDLog(ctx context.Context, tripID int, date openapi_types.Date) (domain.GenerateResult, error) {
	body := map[string]openapi_types.Date{"date": date}
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodPost, path: tripPath(tripID) + "eld-logs/generate/", body: body}, &raw); err != nil {
		return domain.GenerateResult{}, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return domain.GenerateResult{}, fmt.Errorf("%w: generate eld log: %v", domain.ErrMalformedResponse, err)
	}

	var res domain.GenerateResult
	if _, ok := probe["logs"]; ok {
		if err := json.Unmarshal(raw, &res); err != nil {
			return domain.GenerateResult{}, fmt.Errorf("%w: generate eld log: %v", domain.ErrMalformedResponse, err)
		}
	} else {
		var l domain.ELDLog
		if err := json.Unmarshal(raw, &l); err != nil {
			return domain.GenerateResult{}, fmt.Errorf("%w: generate eld log: %v", domain.ErrMalformedResponse, err)
		}
		res.Logs = []domain.ELDLog{l}
	}
	if err := validateAll(res.Logs); err != nil {
		return domain.GenerateResult{}, err
	}
	return res, nil
}

// ---- fleet ----

// ListVehicles returns the vehicles visible to the user.
func (c *Client) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return getList[domain.Vehicle](ctx, c, request{method: http.MethodGet, path: "/vehicles/"})
}

// CreateVehicle registers a vehicle.
func (c *Client) CreateVehicle(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error) {
	return call[domain.Vehicle](ctx, c, request{method: http.MethodPost, path: "/vehicles/", body: in})
}

// ListCarriers returns the carriers visible to the user.
func (c *Client) ListCarriers(ctx context.Context) ([]domain.Carrier, error) {
	return getList[domain.Carrier](ctx, c, request{method: http.MethodGet, path: "/carriers/"})
}

// CreateCarrier registers a carrier.
func (c *Client) CreateCarrier(ctx context.Context, in domain.CarrierInput) (domain.Carrier, error) {
	return call[domain.Carrier](ctx, c, request{method: http.MethodPost, path: "/carriers/", body: in})
}

// ---- helpers ----

func tripPath(id int) string {
	return "/trips/" + strconv.Itoa(id) + "/"
}

// call performs req and validates the decoded payload.
func call[T validator](ctx context.Context, c *Client, req request) (T, error) {
	var out T
	if err := c.do(ctx, req, &out); err != nil {
		var zero T
		return zero, err
	}
	if err := out.Validate(); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// getList performs req and decodes either a bare JSON array or a paginated
// {"results": [...]} envelope, validating every item.
func getList[T validator](ctx context.Context, c *Client, req request) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}

	items := []T{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, req.path, err)
		}
		results := bytes.TrimSpace(page["results"])
		if len(results) == 0 || results[0] != '[' {
			return nil, fmt.Errorf("%w: %s: object without a results array", domain.ErrMalformedResponse, req.path)
		}
		if err := json.Unmarshal(results, &items); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, req.path, err)
		}
	} else if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, req.path, err)
		}
		if items == nil {
			items = []T{}
		}
	}

	if err := validateAll(items); err != nil {
		return nil, err
	}
	return items, nil
}

func validateAll[T validator](items []T) error {
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}
