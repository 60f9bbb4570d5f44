package logisticsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/QuipuLog/CargoTrail/internal/storage/pglogistics"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu          sync.Mutex
	orders      map[string]models.OrderResource
	containers  map[string]models.ContainerResource
	routes      map[string]models.RouteResource
	routeOrders map[string][]string
	events      []models.TrackingEventResource
	products    map[string]models.ProductResource
	warehouses  map[string]models.WarehouseResource
	vehicles    map[string]models.VehicleResource
	users       map[string]pglogistics.UserRecord
	tenants     map[string]pglogistics.TenantRecord
}

func newMemStore() *memStore {
	return &memStore{
		orders:      map[string]models.OrderResource{},
		containers:  map[string]models.ContainerResource{},
		routes:      map[string]models.RouteResource{},
		routeOrders: map[string][]string{},
		products:    map[string]models.ProductResource{},
		warehouses:  map[string]models.WarehouseResource{},
		vehicles:    map[string]models.VehicleResource{},
		users:       map[string]pglogistics.UserRecord{},
		tenants:     map[string]pglogistics.TenantRecord{},
	}
}

func (m *memStore) CreateOrder(ctx context.Context, o models.OrderResource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.OrderID] = o
	return nil
}

func (m *memStore) GetOrder(ctx context.Context, orderID string) (models.OrderResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return models.OrderResource{}, pglogistics.ErrNotFound
	}
	return o, nil
}

func (m *memStore) ListOrdersByCustomer(ctx context.Context, customerID string) ([]models.OrderResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OrderResource
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) ListOrdersByLogistics(ctx context.Context, logisticsID string) ([]models.OrderResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OrderResource
	for _, o := range m.orders {
		if o.LogisticsID == logisticsID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, orderID, status string) (models.OrderResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return models.OrderResource{}, pglogistics.ErrNotFound
	}
	o.Status = status
	m.orders[orderID] = o
	return o, nil
}

func (m *memStore) UpdateOrderShippingAddress(ctx context.Context, orderID, address string) (models.OrderResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return models.OrderResource{}, pglogistics.ErrNotFound
	}
	o.ShippingAddress = address
	m.orders[orderID] = o
	return o, nil
}

func (m *memStore) ReplaceOrderItems(ctx context.Context, orderID string, items []models.OrderItemResource, total float64) (models.OrderResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return models.OrderResource{}, pglogistics.ErrNotFound
	}
	o.OrderItems = items
	o.TotalPrice = total
	m.orders[orderID] = o
	return o, nil
}

func (m *memStore) CreateContainer(ctx context.Context, c models.ContainerResource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.containers[c.ContainerID] = c
	return nil
}

func (m *memStore) GetContainer(ctx context.Context, containerID string) (models.ContainerResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[containerID]
	if !ok {
		return models.ContainerResource{}, pglogistics.ErrNotFound
	}
	return c, nil
}

func (m *memStore) ListContainersByOrder(ctx context.Context, orderID string) ([]models.ContainerResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ContainerResource
	for _, c := range m.containers {
		if c.OrderID == orderID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) ListContainersByWarehouse(ctx context.Context, warehouseID string) ([]models.ContainerResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ContainerResource
	for _, c := range m.containers {
		if c.WarehouseID == warehouseID && !c.IsCompleted {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) UpdateContainerWarehouse(ctx context.Context, containerID, warehouseID string) (models.ContainerResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[containerID]
	if !ok || c.IsCompleted {
		return models.ContainerResource{}, pglogistics.ErrNotFound
	}
	c.WarehouseID = warehouseID
	m.containers[containerID] = c
	return c, nil
}

func (m *memStore) CompleteContainer(ctx context.Context, containerID, warehouseID, notes string, at time.Time) (models.ContainerResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[containerID]
	if !ok {
		return models.ContainerResource{}, pglogistics.ErrNotFound
	}
	if !c.IsCompleted {
		c.IsCompleted = true
		c.WarehouseID = warehouseID
		c.CompletionNotes = notes
		ts := at
		c.CompletedAt = &ts
		m.containers[containerID] = c
	}
	return m.containers[containerID], nil
}

func (m *memStore) SetContainerQRCode(ctx context.Context, containerID string, qr models.QrCodeResource) (models.ContainerResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[containerID]
	if !ok {
		return models.ContainerResource{}, pglogistics.ErrNotFound
	}
	c.QrCode = &qr
	m.containers[containerID] = c
	return c, nil
}

func (m *memStore) CreateRoute(ctx context.Context, r models.RouteResource, orderIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[r.RouteID] = r
	m.routeOrders[r.RouteID] = orderIDs
	return nil
}

func (m *memStore) GetRoute(ctx context.Context, routeID string) (models.RouteResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.routes[routeID]
	if !ok {
		return models.RouteResource{}, pglogistics.ErrNotFound
	}
	r.Orders = nil
	for _, orderID := range m.routeOrders[routeID] {
		if o, ok := m.orders[orderID]; ok {
			r.Orders = append(r.Orders, models.OrderSummaryResource{OrderID: o.OrderID, Status: o.Status})
		}
	}
	return r, nil
}

func (m *memStore) ListRoutes(ctx context.Context) ([]models.RouteResource, error) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.routes))
	for id := range m.routes {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var out []models.RouteResource
	for _, id := range ids {
		r, err := m.GetRoute(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) ListActiveRoutes(ctx context.Context) ([]models.RouteResource, error) {
	all, err := m.ListRoutes(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.RouteResource
	for _, r := range all {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListRoutesByVehicle(ctx context.Context, vehicleID string) ([]models.RouteResource, error) {
	all, err := m.ListRoutes(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.RouteResource
	for _, r := range all {
		if r.VehicleID == vehicleID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListRoutesByOrder(ctx context.Context, orderID string) ([]models.RouteResource, error) {
	m.mu.Lock()
	var ids []string
	for routeID, orderIDs := range m.routeOrders {
		for _, id := range orderIDs {
			if id == orderID {
				ids = append(ids, routeID)
				break
			}
		}
	}
	m.mu.Unlock()

	var out []models.RouteResource
	for _, id := range ids {
		r, err := m.GetRoute(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) SetRouteActive(ctx context.Context, routeID string, active bool) (models.RouteResource, error) {
	m.mu.Lock()
	r, ok := m.routes[routeID]
	if !ok {
		m.mu.Unlock()
		return models.RouteResource{}, pglogistics.ErrNotFound
	}
	r.IsActive = active
	m.routes[routeID] = r
	m.mu.Unlock()
	return m.GetRoute(ctx, routeID)
}

func (m *memStore) CompleteRouteItem(ctx context.Context, routeID, routeItemID string, at time.Time) (models.RouteResource, error) {
	m.mu.Lock()
	r, ok := m.routes[routeID]
	if !ok {
		m.mu.Unlock()
		return models.RouteResource{}, pglogistics.ErrNotFound
	}
	found := false
	for i := range r.RouteItems {
		if r.RouteItems[i].ID == routeItemID {
			if !r.RouteItems[i].IsCompleted {
				r.RouteItems[i].IsCompleted = true
				ts := at
				r.RouteItems[i].CompletedAt = &ts
			}
			found = true
			break
		}
	}
	if !found {
		m.mu.Unlock()
		return models.RouteResource{}, pglogistics.ErrNotFound
	}
	m.routes[routeID] = r
	m.mu.Unlock()
	return m.GetRoute(ctx, routeID)
}

func (m *memStore) InsertEvent(ctx context.Context, e models.TrackingEventResource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memStore) ListEventsByContainer(ctx context.Context, containerID string) ([]models.TrackingEventResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TrackingEventResource
	for _, e := range m.events {
		if e.ContainerID == containerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) ListEventsByOrder(ctx context.Context, orderID string) ([]models.TrackingEventResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TrackingEventResource
	for _, e := range m.events {
		if c, ok := m.containers[e.ContainerID]; ok && c.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) CreateProduct(ctx context.Context, p models.ProductResource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ProductID] = p
	return nil
}

func (m *memStore) GetProduct(ctx context.Context, productID string) (models.ProductResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return models.ProductResource{}, pglogistics.ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListProducts(ctx context.Context) ([]models.ProductResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ProductResource
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) CreateWarehouse(ctx context.Context, w models.WarehouseResource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warehouses[w.WarehouseID] = w
	return nil
}

func (m *memStore) GetWarehouse(ctx context.Context, warehouseID string) (models.WarehouseResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.warehouses[warehouseID]
	if !ok {
		return models.WarehouseResource{}, pglogistics.ErrNotFound
	}
	return w, nil
}

func (m *memStore) ListWarehouses(ctx context.Context) ([]models.WarehouseResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WarehouseResource
	for _, w := range m.warehouses {
		out = append(out, w)
	}
	return out, nil
}

func (m *memStore) DeleteWarehouse(ctx context.Context, warehouseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.warehouses[warehouseID]; !ok {
		return pglogistics.ErrNotFound
	}
	delete(m.warehouses, warehouseID)
	return nil
}

func (m *memStore) CreateVehicle(ctx context.Context, v models.VehicleResource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[v.VehicleID] = v
	return nil
}

func (m *memStore) GetVehicle(ctx context.Context, vehicleID string) (models.VehicleResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[vehicleID]
	if !ok {
		return models.VehicleResource{}, pglogistics.ErrNotFound
	}
	return v, nil
}

func (m *memStore) ListVehicles(ctx context.Context) ([]models.VehicleResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.VehicleResource
	for _, v := range m.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (m *memStore) UpdateVehicleStatus(ctx context.Context, vehicleID, status string) (models.VehicleResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[vehicleID]
	if !ok {
		return models.VehicleResource{}, pglogistics.ErrNotFound
	}
	v.Status = status
	m.vehicles[vehicleID] = v
	return v, nil
}

func (m *memStore) UpdateVehicleLocation(ctx context.Context, vehicleID string, lat, lon float64) (models.VehicleResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[vehicleID]
	if !ok {
		return models.VehicleResource{}, pglogistics.ErrNotFound
	}
	v.Latitude = lat
	v.Longitude = lon
	m.vehicles[vehicleID] = v
	return v, nil
}

func (m *memStore) CreateTenantWithUser(ctx context.Context, t pglogistics.TenantRecord, u pglogistics.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[t.ID] = t
	u.TenantID = t.ID
	m.users[u.ID] = u
	return nil
}

func (m *memStore) CreateUser(ctx context.Context, u pglogistics.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *memStore) GetUser(ctx context.Context, userID string) (pglogistics.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return pglogistics.UserRecord{}, pglogistics.ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByUsername(ctx context.Context, username string) (pglogistics.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return pglogistics.UserRecord{}, pglogistics.ErrNotFound
}

func (m *memStore) ListUsers(ctx context.Context) ([]pglogistics.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []pglogistics.UserRecord
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

type capturedPublish struct {
	topic string
	key   []byte
	value []byte
}

type fakeProducer struct {
	mu        sync.Mutex
	published []capturedPublish
}

func (f *fakeProducer) Publish(ctx context.Context, topic string, key, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, capturedPublish{topic: topic, key: key, value: value})
	return nil
}

type fakeLimiter struct {
	allowed bool
	count   int64
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	f.count++
	return f.allowed, f.count, nil
}

func newTestAPI(t *testing.T, store Store, producer EventPublisher, limiter SignInLimiter) *httptest.Server {
	t.Helper()
	api := New(store, producer, limiter, Options{
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	})
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return srv
}

func seedUser(t *testing.T, store *memStore, username, password string, roles ...string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	id := "u-" + username
	store.users[id] = pglogistics.UserRecord{
		ID:           id,
		Username:     username,
		PasswordHash: string(hash),
		Email:        username + "@example.pe",
		Roles:        roles,
	}
	return id
}

func signIn(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(models.SignInResource{Username: username, Password: password})
	res, err := http.Post(srv.URL+"/api/v1/authentication/sign-in", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out models.SignInResponseResource
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func doJSON(t *testing.T, method, url, token string, in, out any) int {
	t.Helper()
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestSignInAndProtectedRoutes(t *testing.T) {
	store := newMemStore()
	seedUser(t, store, "maria", "secret", models.RoleAdmin.String())
	srv := newTestAPI(t, store, nil, nil)

	// Unauthenticated access is rejected.
	code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/products", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, code)

	token := signIn(t, srv, "maria", "secret")

	var products []models.ProductResource
	code = doJSON(t, http.MethodGet, srv.URL+"/api/v1/products", token, nil, &products)
	require.Equal(t, http.StatusOK, code)
	require.Empty(t, products)
}

func TestSignIn_WrongPassword(t *testing.T) {
	store := newMemStore()
	seedUser(t, store, "maria", "secret", models.RoleAdmin.String())
	srv := newTestAPI(t, store, nil, nil)

	body, _ := json.Marshal(models.SignInResource{Username: "maria", Password: "wrong"})
	res, err := http.Post(srv.URL+"/api/v1/authentication/sign-in", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestSignIn_RateLimited(t *testing.T) {
	store := newMemStore()
	seedUser(t, store, "maria", "secret", models.RoleAdmin.String())
	srv := newTestAPI(t, store, nil, &fakeLimiter{allowed: false})

	body, _ := json.Marshal(models.SignInResource{Username: "maria", Password: "secret"})
	res, err := http.Post(srv.URL+"/api/v1/authentication/sign-in", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}

func TestSignUp_DerivesRoleAndIssuesToken(t *testing.T) {
	store := newMemStore()
	srv := newTestAPI(t, store, nil, nil)

	var out models.SignUpResponseResource
	code := doJSON(t, http.MethodPost, srv.URL+"/api/v1/authentication/sign-up", "", models.SignUpResource{
		RUC:        "20123456789",
		LegalName:  "Acme SAC",
		Username:   "maria",
		Password:   "secret",
		Email:      "maria@acme.pe",
		TenantType: "PROVIDER",
	}, &out)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, out.Token)

	u, err := store.GetUserByUsername(context.Background(), "maria")
	require.NoError(t, err)
	require.Equal(t, []string{models.RoleProvider.String()}, u.Roles)
}

func TestCreateOrderAndMutateItems(t *testing.T) {
	store := newMemStore()
	seedUser(t, store, "op", "secret", models.RoleOperator.String())
	store.products["p1"] = models.ProductResource{ProductID: "p1", Name: "Cemento", Price: 30, Currency: "PEN"}
	store.products["p2"] = models.ProductResource{ProductID: "p2", Name: "Ladrillo", Price: 2, Currency: "PEN"}
	srv := newTestAPI(t, store, nil, nil)
	token := signIn(t, srv, "op", "secret")

	var order models.OrderResource
	code := doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders", token, models.CreateOrderResource{
		CustomerID: "cust-1",
		Items:      []models.AddOrderItemResource{{ProductID: "p1", Quantity: 2}},
	}, &order)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, models.OrderStatusPending.String(), order.Status)
	require.Equal(t, 60.0, order.TotalPrice)
	require.Equal(t, "Cemento", order.OrderItems[0].ProductName)

	var updated models.OrderResource
	code = doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders/"+order.OrderID+"/items", token,
		models.AddOrderItemResource{ProductID: "p2", Quantity: 100}, &updated)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, updated.OrderItems, 2)
	require.Equal(t, 260.0, updated.TotalPrice)

	itemID := updated.OrderItems[0].ID
	code = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/orders/"+order.OrderID+"/items/"+itemID, token, nil, &updated)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, updated.OrderItems, 1)
	require.Equal(t, 200.0, updated.TotalPrice)

	code = doJSON(t, http.MethodPatch, srv.URL+"/api/v1/orders/"+order.OrderID+"/status", token,
		map[string]string{"status": "Bogus"}, nil)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestListOrders_DerivesFilterFromToken(t *testing.T) {
	store := newMemStore()
	clientID := seedUser(t, store, "carla", "secret", models.RoleClient.String())
	logisticsID := seedUser(t, store, "op", "secret", models.RoleOperator.String())
	store.orders["o1"] = models.OrderResource{OrderID: "o1", CustomerID: clientID, Status: "Pending"}
	store.orders["o2"] = models.OrderResource{OrderID: "o2", CustomerID: "someone-else", LogisticsID: logisticsID, Status: "Shipped"}
	srv := newTestAPI(t, store, nil, nil)

	// A client token with no query parameters sees only their own orders.
	clientToken := signIn(t, srv, "carla", "secret")
	var orders []models.OrderResource
	code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/orders", clientToken, nil, &orders)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, orders, 1)
	require.Equal(t, "o1", orders[0].OrderID)

	// Any other role gets the logistics view for their own identity.
	opToken := signIn(t, srv, "op", "secret")
	code = doJSON(t, http.MethodGet, srv.URL+"/api/v1/orders", opToken, nil, &orders)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, orders, 1)
	require.Equal(t, "o2", orders[0].OrderID)

	// Explicit query parameters still override.
	code = doJSON(t, http.MethodGet, srv.URL+"/api/v1/orders?customerId=someone-else", opToken, nil, &orders)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, orders, 1)
	require.Equal(t, "o2", orders[0].OrderID)
}

func TestCancelOrder_OnlyFromPending(t *testing.T) {
	store := newMemStore()
	seedUser(t, store, "carla", "secret", models.RoleClient.String())
	store.orders["o1"] = models.OrderResource{OrderID: "o1", CustomerID: "cust-1", Status: "Pending"}
	store.orders["o2"] = models.OrderResource{OrderID: "o2", CustomerID: "cust-1", Status: "Shipped"}
	srv := newTestAPI(t, store, nil, nil)
	token := signIn(t, srv, "carla", "secret")

	var o models.OrderResource
	code := doJSON(t, http.MethodPatch, srv.URL+"/api/v1/orders/o1/cancel", token, nil, &o)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, models.OrderStatusCancelled.String(), o.Status)

	code = doJSON(t, http.MethodPatch, srv.URL+"/api/v1/orders/o2/cancel", token, nil, nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	code = doJSON(t, http.MethodPatch, srv.URL+"/api/v1/orders/missing/cancel", token, nil, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestOrderTracking_IncludesServingRoutes(t *testing.T) {
	store := newMemStore()
	seedUser(t, store, "op", "secret", models.RoleOperator.String())
	store.orders["o1"] = models.OrderResource{OrderID: "o1", CustomerID: "cust-1", Status: "Shipped"}
	store.containers["c1"] = models.ContainerResource{ContainerID: "c1", OrderID: "o1", WarehouseID: "w1"}
	store.routes["r1"] = models.RouteResource{RouteID: "r1", VehicleID: "v1", IsActive: true}
	store.routeOrders["r1"] = []string{"o1"}
	store.routes["r2"] = models.RouteResource{RouteID: "r2", VehicleID: "v2"}
	store.routeOrders["r2"] = []string{"other"}
	srv := newTestAPI(t, store, nil, nil)
	token := signIn(t, srv, "op", "secret")

	var out struct {
		Order      models.OrderResource           `json:"order"`
		Containers []models.ContainerResource     `json:"containers"`
		Routes     []models.RouteResource         `json:"routes"`
		Events     []models.TrackingEventResource `json:"events"`
	}
	code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/tracking/orders/o1", token, nil, &out)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, out.Routes, 1)
	require.Equal(t, "r1", out.Routes[0].RouteID)
	require.Equal(t, "o1", out.Routes[0].Orders[0].OrderID)
}

func TestCreateEventPublishesUpdate(t *testing.T) {
	store := newMemStore()
	seedUser(t, store, "op", "secret", models.RoleOperator.String())
	store.orders["o1"] = models.OrderResource{OrderID: "o1", CustomerID: "cust-1", Status: "Shipped"}
	store.containers["c1"] = models.ContainerResource{ContainerID: "c1", OrderID: "o1", WarehouseID: "w1"}
	producer := &fakeProducer{}
	srv := newTestAPI(t, store, producer, nil)
	token := signIn(t, srv, "op", "secret")

	var ev models.TrackingEventResource
	code := doJSON(t, http.MethodPost, srv.URL+"/api/v1/tracking/events", token, models.CreateTrackingEventResource{
		ContainerID: "c1",
		WarehouseID: "w2",
		Type:        "ARRIVAL",
	}, &ev)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, ev.EventID)

	// The container moved and the update went out on the topic.
	c, err := store.GetContainer(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, "w2", c.WarehouseID)

	require.Len(t, producer.published, 1)
	require.Equal(t, "container.updated", producer.published[0].topic)

	var msg struct {
		ContainerID string `json:"container_id"`
		EventType   string `json:"event_type"`
	}
	require.NoError(t, json.Unmarshal(producer.published[0].value, &msg))
	require.Equal(t, "c1", msg.ContainerID)
	require.Equal(t, "ARRIVAL", msg.EventType)
}

func TestCompleteContainer_OneWay(t *testing.T) {
	store := newMemStore()
	seedUser(t, store, "op", "secret", models.RoleOperator.String())
	store.orders["o1"] = models.OrderResource{OrderID: "o1", CustomerID: "cust-1", Status: "Shipped"}
	store.containers["c1"] = models.ContainerResource{ContainerID: "c1", OrderID: "o1", WarehouseID: "w1"}
	srv := newTestAPI(t, store, nil, nil)
	token := signIn(t, srv, "op", "secret")

	var c models.ContainerResource
	code := doJSON(t, http.MethodPost, srv.URL+"/api/v1/tracking/containers/c1/complete", token,
		models.CompleteContainerResource{DeliveryWarehouseID: "w9", DeliveryNotes: "left at gate"}, &c)
	require.Equal(t, http.StatusOK, code)
	require.True(t, c.IsCompleted)
	first := c.CompletedAt

	code = doJSON(t, http.MethodPost, srv.URL+"/api/v1/tracking/containers/c1/complete", token,
		models.CompleteContainerResource{DeliveryWarehouseID: "w10"}, &c)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "w9", c.WarehouseID)
	require.Equal(t, first.UTC(), c.CompletedAt.UTC())
}

func TestRouteLifecycle(t *testing.T) {
	store := newMemStore()
	seedUser(t, store, "op", "secret", models.RoleOperator.String())
	store.vehicles["v1"] = models.VehicleResource{VehicleID: "v1", LicensePlate: "ABC-123", Status: "Available"}
	srv := newTestAPI(t, store, nil, nil)
	token := signIn(t, srv, "op", "secret")

	var route models.RouteResource
	code := doJSON(t, http.MethodPost, srv.URL+"/api/v1/routes", token, models.CreateRouteResource{
		VehicleID:    "v1",
		RouteName:    "north loop",
		WarehouseIDs: []string{"w1", "w2"},
	}, &route)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, route.RouteItems, 2)
	require.False(t, route.IsActive)

	code = doJSON(t, http.MethodPatch, srv.URL+"/api/v1/routes/"+route.RouteID+"/active", token,
		map[string]bool{"isActive": true}, &route)
	require.Equal(t, http.StatusOK, code)
	require.True(t, route.IsActive)

	stopID := route.RouteItems[0].ID
	code = doJSON(t, http.MethodPatch, srv.URL+"/api/v1/routes/"+route.RouteID+"/items/"+stopID+"/complete", token, nil, &route)
	require.Equal(t, http.StatusOK, code)
	require.True(t, route.RouteItems[0].IsCompleted)
	require.False(t, route.RouteItems[1].IsCompleted)

	var active []models.RouteResource
	code = doJSON(t, http.MethodGet, srv.URL+"/api/v1/tracking/routes/active", token, nil, &active)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, active, 1)
}

func TestOrderTrackingInfoRollup(t *testing.T) {
	store := newMemStore()
	seedUser(t, store, "op", "secret", models.RoleOperator.String())
	now := time.Now().UTC()
	store.orders["o1"] = models.OrderResource{OrderID: "o1", CustomerID: "cust-1", Status: "Shipped"}
	store.containers["c1"] = models.ContainerResource{ContainerID: "c1", OrderID: "o1", IsCompleted: true, CompletedAt: &now}
	store.containers["c2"] = models.ContainerResource{ContainerID: "c2", OrderID: "o1"}
	srv := newTestAPI(t, store, nil, nil)
	token := signIn(t, srv, "op", "secret")

	var info models.OrderTrackingInfoResource
	code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/orders/o1/tracking", token, nil, &info)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, info.TotalContainers)
	require.Equal(t, 1, info.DeliveredContainers)
	require.Equal(t, 1, info.InTransitContainers)
	require.Equal(t, models.OrderStatusShipped.String(), info.OverallStatus)
	require.NotNil(t, info.LastUpdated)
}

func TestRefreshIssuesNewToken(t *testing.T) {
	store := newMemStore()
	seedUser(t, store, "maria", "secret", models.RoleAdmin.String())
	srv := newTestAPI(t, store, nil, nil)
	token := signIn(t, srv, "maria", "secret")

	var out models.SignInResponseResource
	code := doJSON(t, http.MethodPost, srv.URL+"/api/v1/authentication/refresh", token, nil, &out)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, out.Token)
	require.Equal(t, "maria", out.Username)
}
