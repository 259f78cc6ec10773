package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/rentals_backend/models"
	"github.com/mmdatafocus/rentals_backend/models/reports"
	"github.com/mmdatafocus/rentals_backend/utils"
	"github.com/xuri/excelize/v2"
)

// renderError maps domain errors onto HTTP responses. Validation failures
// carry the offending field and violation kind so forms can route the
// message without parsing it.
func renderError(c *gin.Context, err error) {
	if ve, ok := utils.AsValidationError(err); ok {
		status := http.StatusBadRequest
		if ve.Kind == utils.ViolationConflict {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error": ve.Message,
			"field": string(ve.Field),
			"kind":  string(ve.Kind),
		})
		return
	}
	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	var se *utils.StoreError
	if errors.As(err, &se) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save changes"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func bindError(c *gin.Context, err error) {
	if fields := utils.ProcessValidationErrors(err); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

func pathId(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

func requireLandlord(c *gin.Context) bool {
	landlordId, ok := utils.GetLandlordIdFromContext(c.Request.Context())
	if !ok || landlordId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	return true
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	info, err := models.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func registerHandler(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	user, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func logoutHandler(c *gin.Context) {
	ok, err := models.Logout(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_out": ok})
}

func changePasswordHandler(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := models.ChangePassword(c.Request.Context(), req.OldPassword, req.NewPassword)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func listPropertiesHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	results, err := models.GetProperties(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func getPropertyHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	result, err := models.GetProperty(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func createPropertyHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	var input models.NewProperty
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	result, err := models.CreateProperty(c.Request.Context(), &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func updatePropertyHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewProperty
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	result, err := models.UpdateProperty(c.Request.Context(), id, &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func deletePropertyHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	result, err := models.DeleteProperty(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func listUnitsHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	results, err := models.GetUnits(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func getUnitHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	result, err := models.GetUnit(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func createUnitHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	var input models.NewUnit
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	result, err := models.CreateUnit(c.Request.Context(), &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func updateUnitHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewUnit
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	result, err := models.UpdateUnit(c.Request.Context(), id, &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func deleteUnitHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	result, err := models.DeleteUnit(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type assignTenantRequest struct {
	TenantId int `json:"tenant_id" binding:"required"`
}

func assignTenantHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var req assignTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := models.AssignTenantToUnit(c.Request.Context(), id, req.TenantId)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func unassignTenantHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	result, err := models.UnassignTenantFromUnit(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func listTenantsHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	results, err := models.GetTenants(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func getTenantHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	result, err := models.GetTenant(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func createTenantHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	var input models.NewTenant
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	result, err := models.CreateTenant(c.Request.Context(), &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func updateTenantHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewTenant
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	result, err := models.UpdateTenant(c.Request.Context(), id, &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func deleteTenantHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	result, err := models.DeleteTenant(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func listPaymentsHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	var tenantId *int
	if v := c.Query("tenant_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id must be a positive integer"})
			return
		}
		tenantId = &n
	}
	results, err := models.GetPayments(c.Request.Context(), tenantId)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func getPaymentHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	result, err := models.GetPayment(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func createPaymentHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	var input models.NewPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	result, err := models.CreatePayment(c.Request.Context(), &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func ledgerParams(c *gin.Context) (year int, month int, tenantId int, ok bool) {
	year, ok = pathId(c, "year")
	if !ok {
		return
	}
	month, ok = pathId(c, "month")
	if !ok {
		return
	}
	if month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
		return 0, 0, 0, false
	}
	tenantId, ok = pathId(c, "tenantId")
	return
}

func getLedgerHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	year, ok := pathId(c, "year")
	if !ok {
		return
	}
	landlordId, _ := utils.GetLandlordIdFromContext(c.Request.Context())
	records, err := models.GetLedgerStore().Get(c.Request.Context(), landlordId, year)
	if err != nil {
		renderError(c, err)
		return
	}
	if records == nil {
		records = []models.PaymentRecord{}
	}
	c.JSON(http.StatusOK, records)
}

type markPaidRequest struct {
	Amount string `json:"amount"`
}

// markPaidHandler toggles a tenant's month to paid. When no amount is given
// the tenant's current rent is used, so the monthly grid can be ticked
// without retyping the amount.
func markPaidHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	year, month, tenantId, ok := ledgerParams(c)
	if !ok {
		return
	}
	// body is optional; an empty body means "use the tenant's rent"
	var req markPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	ctx := c.Request.Context()
	tenant, err := models.GetTenant(ctx, tenantId)
	if err != nil {
		renderError(c, err)
		return
	}

	amount := tenant.Rent
	if req.Amount != "" {
		amount, err = utils.ParseDecimal(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal number"})
			return
		}
	}
	if err := utils.ValidatePaymentAmount(amount, nil); err != nil {
		renderError(c, err)
		return
	}

	landlordId, _ := utils.GetLandlordIdFromContext(ctx)
	ledger := models.NewLedger(models.GetLedgerStore(), landlordId, year)
	if err := ledger.MarkPaid(ctx, tenantId, month, amount); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tenant_id": tenantId,
		"year":      year,
		"month":     month,
		"paid":      true,
		"amount":    amount,
	})
}

func markUnpaidHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	year, month, tenantId, ok := ledgerParams(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	landlordId, _ := utils.GetLandlordIdFromContext(ctx)
	ledger := models.NewLedger(models.GetLedgerStore(), landlordId, year)
	if err := ledger.MarkUnpaid(ctx, tenantId, month); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tenant_id": tenantId,
		"year":      year,
		"month":     month,
		"paid":      false,
	})
}

func consistencyScanHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	findings, err := models.RunConsistencyScan(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, findings)
}

func collectionSummaryHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a positive integer"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be an integer"})
		return
	}
	result, err := reports.GetCollectionSummaryReport(c.Request.Context(), year, month)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func dashboardHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	result, err := reports.GetDashboardReport(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func rentRollHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	results, err := reports.GetRentRollReport(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func writeExcel(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write file"})
	}
}

func rentRollExcelHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	f, err := reports.RentRollExcel(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	writeExcel(c, f, "rent-roll.xlsx")
}

func consistencyExcelHandler(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	f, err := reports.ConsistencyReportExcel(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	writeExcel(c, f, "consistency-report.xlsx")
}
