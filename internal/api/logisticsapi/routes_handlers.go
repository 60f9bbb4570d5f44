package logisticsapi

import (
	"net/http"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/google/uuid"
)

func (a *API) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := a.store.ListRoutes(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(routes))
}

func (a *API) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	route, err := a.store.GetRoute(r.Context(), pathParam(r, "routeId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (a *API) handleCreateRoute(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRouteResource
	if !decodeBody(w, r, &req) {
		return
	}
	if req.VehicleID == "" {
		writeError(w, http.StatusBadRequest, "vehicleId is required")
		return
	}
	if len(req.WarehouseIDs) == 0 {
		writeError(w, http.StatusBadRequest, "at least one warehouse stop is required")
		return
	}
	if _, err := a.store.GetVehicle(r.Context(), req.VehicleID); err != nil {
		writeStoreError(w, err)
		return
	}

	stops := make([]models.RouteItemResource, 0, len(req.WarehouseIDs))
	for _, warehouseID := range req.WarehouseIDs {
		stops = append(stops, models.RouteItemResource{
			ID:          uuid.NewString(),
			WarehouseID: warehouseID,
		})
	}
	route := models.RouteResource{
		RouteID:          uuid.NewString(),
		VehicleID:        req.VehicleID,
		RouteName:        req.RouteName,
		PlannedStartDate: req.PlannedStartDate,
		Description:      req.Description,
		CreatedAt:        time.Now().UTC(),
		IsActive:         false,
		RouteItems:       stops,
	}
	if err := a.store.CreateRoute(r.Context(), route, req.OrderIDs); err != nil {
		writeStoreError(w, err)
		return
	}

	created, err := a.store.GetRoute(r.Context(), route.RouteID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleSetRouteActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive bool `json:"isActive"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	route, err := a.store.SetRouteActive(r.Context(), pathParam(r, "routeId"), req.IsActive)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (a *API) handleCompleteRouteItem(w http.ResponseWriter, r *http.Request) {
	route, err := a.store.CompleteRouteItem(r.Context(), pathParam(r, "routeId"), pathParam(r, "itemId"), time.Now().UTC())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (a *API) handleListRoutesByVehicle(w http.ResponseWriter, r *http.Request) {
	routes, err := a.store.ListRoutesByVehicle(r.Context(), pathParam(r, "vehicleId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(routes))
}
