package logisticsapi

import (
	"net/http"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/google/uuid"
)

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.store.ListProducts(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(products))
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := a.store.GetProduct(r.Context(), pathParam(r, "productId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductResource
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	req.ProductID = uuid.NewString()
	if req.Currency == "" {
		req.Currency = models.DefaultCurrency.String()
	}
	if err := a.store.CreateProduct(r.Context(), req); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (a *API) handleListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := a.store.ListWarehouses(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(warehouses))
}

func (a *API) handleGetWarehouse(w http.ResponseWriter, r *http.Request) {
	wh, err := a.store.GetWarehouse(r.Context(), pathParam(r, "warehouseId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wh)
}

func (a *API) handleCreateWarehouse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWarehouseResource
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, err := models.ParseWarehouseType(req.Type); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	wh := models.WarehouseResource{
		WarehouseID: uuid.NewString(),
		Name:        req.Name,
		Type:        req.Type,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
	}
	if err := a.store.CreateWarehouse(r.Context(), wh); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wh)
}

func (a *API) handleDeleteWarehouse(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteWarehouse(r.Context(), pathParam(r, "warehouseId")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := a.store.ListVehicles(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(vehicles))
}

func (a *API) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := a.store.GetVehicle(r.Context(), pathParam(r, "vehicleId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (a *API) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVehicleResource
	if !decodeBody(w, r, &req) {
		return
	}
	if req.LicensePlate == "" {
		writeError(w, http.StatusBadRequest, "licensePlate is required")
		return
	}
	if req.LoadCapacity <= 0 {
		writeError(w, http.StatusBadRequest, "loadCapacity must be positive")
		return
	}
	v := models.VehicleResource{
		VehicleID:    uuid.NewString(),
		LicensePlate: req.LicensePlate,
		LoadCapacity: req.LoadCapacity,
		PaxCapacity:  req.PaxCapacity,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Tonnage:      req.Tonnage,
		Status:       models.VehicleStatusAvailable.String(),
	}
	if err := a.store.CreateVehicle(r.Context(), v); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (a *API) handleUpdateVehicleStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	status, err := models.ParseVehicleStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := a.store.UpdateVehicleStatus(r.Context(), pathParam(r, "vehicleId"), status.String())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (a *API) handleUpdateVehicleLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	v, err := a.store.UpdateVehicleLocation(r.Context(), pathParam(r, "vehicleId"), req.Latitude, req.Longitude)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
