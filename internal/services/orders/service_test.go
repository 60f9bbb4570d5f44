package orders

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// fakeCaller replays canned JSON per path.
type fakeCaller struct {
	responses map[string]any
	err       error

	lastPath string
	lastBody any
}

func (f *fakeCaller) reply(path string, out any) error {
	f.lastPath = path
	if f.err != nil {
		return f.err
	}
	res, ok := f.responses[path]
	if !ok || out == nil {
		return nil
	}
	b, _ := json.Marshal(res)
	return json.Unmarshal(b, out)
}

func (f *fakeCaller) Get(ctx context.Context, path string, q url.Values, out any) error {
	return f.reply(path, out)
}
func (f *fakeCaller) Post(ctx context.Context, path string, in, out any) error {
	f.lastBody = in
	return f.reply(path, out)
}
func (f *fakeCaller) Patch(ctx context.Context, path string, in, out any) error {
	f.lastBody = in
	return f.reply(path, out)
}
func (f *fakeCaller) Delete(ctx context.Context, path string, out any) error {
	return f.reply(path, out)
}

type fakeNames struct {
	names map[string]string
	err   error
	calls int
}

func (f *fakeNames) Names(ctx context.Context, ids []string) (map[string]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

func orderRes(id string, items ...models.OrderItemResource) models.OrderResource {
	return models.OrderResource{
		OrderID:    id,
		CustomerID: "cust-1",
		OrderDate:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:     "Pending",
		OrderItems: items,
	}
}

func TestGetOrdersByCustomer_Enriches(t *testing.T) {
	api := &fakeCaller{responses: map[string]any{
		"/orders": []models.OrderResource{
			orderRes("o1", models.OrderItemResource{ProductID: "p1", Quantity: 2}),
			orderRes("o2", models.OrderItemResource{ProductID: "p2", Quantity: 3}),
		},
	}}
	names := &fakeNames{names: map[string]string{"p1": "Cement", "p2": "Bricks"}}
	s := New(api, names)

	out, err := s.GetOrdersByCustomer(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "Cement", out[0].Items[0].ProductName)
	require.Equal(t, "Bricks", out[1].Items[0].ProductName)
}

func TestEnrichWithProductNames_DegradesToOriginals(t *testing.T) {
	s := New(&fakeCaller{}, &fakeNames{err: errors.New("products unavailable")})

	o1, err := models.NewOrder(orderRes("o1", models.OrderItemResource{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)
	o2, err := models.NewOrder(orderRes("o2", models.OrderItemResource{ProductID: "p2", Quantity: 1}))
	require.NoError(t, err)

	out := s.EnrichWithProductNames(context.Background(), []models.Order{o1, o2})
	require.Len(t, out, 2)
	require.Equal(t, o1, out[0])
	require.Equal(t, o2, out[1])
	require.Empty(t, out[0].Items[0].ProductName)
}

func TestGetOrderByID_UnknownStatusFails(t *testing.T) {
	res := orderRes("o1")
	res.Status = "Teleported"
	api := &fakeCaller{responses: map[string]any{"/orders/o1": res}}
	s := New(api, nil)

	_, err := s.GetOrderByID(context.Background(), "o1")
	require.Error(t, err)
	require.True(t, models.IsValidation(err))
}

func TestUpdateStatus_ValidatesBeforeCall(t *testing.T) {
	api := &fakeCaller{}
	s := New(api, nil)

	_, err := s.UpdateStatus(context.Background(), "o1", "NotAStatus")
	require.Error(t, err)
	require.True(t, models.IsValidation(err))
	require.Empty(t, api.lastPath)

	api.responses = map[string]any{"/orders/o1/status": orderRes("o1")}
	_, err = s.UpdateStatus(context.Background(), "o1", "Pending")
	require.NoError(t, err)
	require.Equal(t, "/orders/o1/status", api.lastPath)
}

func TestCreate_Validates(t *testing.T) {
	s := New(&fakeCaller{}, nil)

	_, err := s.Create(context.Background(), models.CreateOrderResource{CustomerID: "c"})
	require.Error(t, err)

	_, err = s.Create(context.Background(), models.CreateOrderResource{
		Items: []models.AddOrderItemResource{{ProductID: "p", Quantity: 1}},
	})
	require.Error(t, err)
}

func TestTransportErrorPropagatesUnchanged(t *testing.T) {
	want := errors.New("backend http 500")
	s := New(&fakeCaller{err: want}, nil)

	_, err := s.GetOrderByID(context.Background(), "o1")
	require.ErrorIs(t, err, want)
}
