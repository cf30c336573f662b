package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rentdesk/rentroll_backend/models"
	"github.com/rentdesk/rentroll_backend/utils"
)

var conflictErrors = map[string]bool{
	"room already occupied":            true,
	"occupancy is already vacated":     true,
	"bill is already paid":             true,
	"you can edit a bill only when paid amount is 0":   true,
	"you can delete a bill only when paid amount is 0": true,
}

// respondError maps model-layer errors onto HTTP status codes. Anything not
// recognized is treated as a client error; the model layer wraps true server
// faults before they get here.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": utils.ProcessValidationErrors(err)})
		return
	}
	if conflictErrors[err.Error()] {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ---- auth ----

func registerHandler(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	user, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "name": user.Name, "email": user.Email})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	info, err := models.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func meHandler(c *gin.Context) {
	ownerId, ok := utils.GetOwnerIdFromContext(c.Request.Context())
	if !ok || ownerId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	user, err := models.GetUserById(c.Request.Context(), ownerId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "name": user.Name, "email": user.Email})
}

// ---- rooms ----

func createRoomHandler(c *gin.Context) {
	var input models.NewRoom
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	room, err := models.CreateRoom(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func listRoomsHandler(c *gin.Context) {
	rooms, err := models.GetRooms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func getRoomHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	room, err := models.GetRoom(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"room": room}
	occupancy, err := models.GetActiveOccupancyForRoom(c.Request.Context(), id)
	if err == nil {
		resp["occupancy"] = occupancy
	} else if !errors.Is(err, utils.ErrorRecordNotFound) {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func updateRoomHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewRoom
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	room, err := models.UpdateRoom(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func deleteRoomHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	room, err := models.DeleteRoom(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func roomHistoryHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	history, err := models.GetRoomHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// ---- tenants ----

func createTenantHandler(c *gin.Context) {
	var input models.NewTenant
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	tenant, err := models.CreateTenant(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

type tenantWithRoom struct {
	*models.Tenant
	ActiveRoomId *int `json:"active_room_id"`
}

func listTenantsHandler(c *gin.Context) {
	tenants, err := models.GetTenants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	tenantIds := make([]int, 0, len(tenants))
	for _, t := range tenants {
		tenantIds = append(tenantIds, t.ID)
	}
	activeRooms, err := models.GetActiveRoomsForTenants(c.Request.Context(), tenantIds)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]tenantWithRoom, 0, len(tenants))
	for _, t := range tenants {
		row := tenantWithRoom{Tenant: t}
		if occ, ok := activeRooms[t.ID]; ok {
			roomId := occ.RoomId
			row.ActiveRoomId = &roomId
		}
		out = append(out, row)
	}
	c.JSON(http.StatusOK, out)
}

func getTenantHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	tenant, err := models.GetTenant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func updateTenantHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewTenant
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	tenant, err := models.UpdateTenant(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func deleteTenantHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	tenant, err := models.DeleteTenant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// ---- occupancies ----

func assignTenantHandler(c *gin.Context) {
	var input models.NewOccupancy
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	occupancy, err := models.AssignTenant(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, occupancy)
}

func listOccupanciesHandler(c *gin.Context) {
	occupancies, err := models.GetActiveOccupancies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, occupancies)
}

func vacateOccupancyHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	occupancy, err := models.VacateOccupancy(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, occupancy)
}

// ---- meter readings ----

func listMeterReadingsHandler(c *gin.Context) {
	roomId, err := strconv.Atoi(c.Query("room_id"))
	if err != nil || roomId <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id query parameter is required"})
		return
	}
	readings, err := models.GetMeterReadings(c.Request.Context(), roomId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

func latestMeterReadingHandler(c *gin.Context) {
	roomId, err := strconv.Atoi(c.Query("room_id"))
	if err != nil || roomId <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id query parameter is required"})
		return
	}
	reading, err := models.GetLatestMeterReading(c.Request.Context(), roomId)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			// no reading yet means the next bill starts from zero
			c.JSON(http.StatusOK, gin.H{"room_id": roomId, "unit": 0})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

// ---- settings ----

func getSettingHandler(c *gin.Context) {
	setting, err := models.GetSetting(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

func saveSettingHandler(c *gin.Context) {
	var input models.NewSetting
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	setting, err := models.SaveSetting(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// ---- bills ----

func createBillHandler(c *gin.Context) {
	var input models.NewBill
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	bill, err := models.CreateBill(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func listBillsHandler(c *gin.Context) {
	var status *models.BillStatus
	if s := c.Query("status"); s != "" {
		bs := models.BillStatus(s)
		switch bs {
		case models.BillStatusUnpaid, models.BillStatusPartial, models.BillStatusPaid:
			status = &bs
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
	}
	bills, err := models.GetBills(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func billSummaryHandler(c *gin.Context) {
	summary, err := models.GetBillTotalSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func getBillHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	bill, err := models.GetBill(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func updateBillHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewBill
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	bill, err := models.UpdateBill(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func deleteBillHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	bill, err := models.DeleteBill(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func recordPaymentHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewBillPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	bill, err := models.RecordPayment(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func listPaymentsHandler(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	payments, err := models.GetBillPayments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
