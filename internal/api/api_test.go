package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAGARJHA0511/MealCount/internal/api"
	"github.com/SAGARJHA0511/MealCount/internal/models"
	"github.com/SAGARJHA0511/MealCount/internal/router"
	"github.com/SAGARJHA0511/MealCount/internal/service"
	"github.com/SAGARJHA0511/MealCount/internal/testhelpers"
)

type testApp struct {
	router *gin.Engine
	auth   *service.AuthService
}

// newTestApp wires the full route table over an in-memory database. Clocks
// are pinned so the cutoff behaves the same regardless of when the tests
// run: mutations land at noon and submissions at 9 PM.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	noon := func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local) }
	evening := func() time.Time { return time.Date(2025, 3, 10, 21, 0, 0, 0, time.Local) }

	authService := service.NewAuthService(db, "test-secret")
	mealOptService := service.NewMealOptService(db, nil).WithClock(noon)
	countService := service.NewCountService(db, nil)
	finalizeService := service.NewFinalizeService(db, countService).WithClock(evening)
	couponService := service.NewCouponService(db)
	menuService := service.NewMenuService(db, nil)
	feedbackService := service.NewFeedbackService(db, nil)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewMealOptHandler(mealOptService),
		api.NewCountHandler(countService, feedbackService),
		api.NewFinalizeHandler(finalizeService),
		api.NewCouponHandler(couponService),
		api.NewMenuHandler(menuService),
		api.NewFeedbackHandler(feedbackService),
		authService,
		nil,
		nil,
	)

	return &testApp{router: engine, auth: authService}
}

var testEmailSeq int

func (a *testApp) registerUser(t *testing.T, role models.Role, department string) (*models.User, string) {
	t.Helper()
	testEmailSeq++
	user, err := a.auth.Register(context.Background(),
		"Test User", fmt.Sprintf("user%d@example.com", testEmailSeq),
		"password123", role, department, nil)
	require.NoError(t, err)
	token, err := a.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":       "Priya Sharma",
		"email":      "priya@example.com",
		"password":   "password123",
		"role":       "employee",
		"department": "Engineering",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, decode(t, w)["token"])

	w = app.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "priya@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "priya@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMealOptRoundTrip(t *testing.T) {
	app := newTestApp(t)
	_, token := app.registerUser(t, models.RoleEmployee, "Engineering")

	w := app.request(t, http.MethodPost, "/api/v1/meal-opt", token, gin.H{
		"date":               "2025-03-10",
		"decision":           "opted-in",
		"dietary_preference": "vegetarian",
	})
	require.Equal(t, http.StatusOK, w.Code)
	opt := decode(t, w)["meal_opt"].(map[string]interface{})
	assert.Len(t, opt["coupon_code"], 4)

	w = app.request(t, http.MethodGet, "/api/v1/meal-opt?date=2025-03-10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	opt = body["meal_opt"].(map[string]interface{})
	assert.Equal(t, "opted-in", opt["decision"])

	// No decision for another date reads as pending
	w = app.request(t, http.MethodGet, "/api/v1/meal-opt?date=2025-03-11", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	opt = decode(t, w)["meal_opt"].(map[string]interface{})
	assert.Equal(t, "pending", opt["decision"])
}

func TestMealOptRequiresAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.request(t, http.MethodPost, "/api/v1/meal-opt", "", gin.H{
		"date": "2025-03-10", "decision": "opted-in", "dietary_preference": "vegetarian",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleScoping(t *testing.T) {
	app := newTestApp(t)
	_, employee := app.registerUser(t, models.RoleEmployee, "Engineering")
	_, admin := app.registerUser(t, models.RoleClientAdmin, "")
	_, vendor := app.registerUser(t, models.RoleVendor, "")

	// Employees cannot read counts
	w := app.request(t, http.MethodGet, "/api/v1/meal-counts?date=2025-03-10", employee, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins cannot verify coupons
	w = app.request(t, http.MethodPost, "/api/v1/coupons/verify", admin, gin.H{
		"code": "1234", "type": "vegetarian",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Vendors cannot opt in
	w = app.request(t, http.MethodPost, "/api/v1/meal-opt", vendor, gin.H{
		"date": "2025-03-10", "decision": "opted-in", "dietary_preference": "vegetarian",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCountsEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, employee := app.registerUser(t, models.RoleEmployee, "Engineering")
	_, admin := app.registerUser(t, models.RoleClientAdmin, "")

	w := app.request(t, http.MethodPost, "/api/v1/meal-opt", employee, gin.H{
		"date": "2025-03-10", "decision": "opted-in", "dietary_preference": "vegetarian",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/meal-counts?date=2025-03-10", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	totals := body["totals"].(map[string]interface{})
	assert.Equal(t, float64(1), totals["total"])
	assert.Equal(t, float64(1), totals["vegetarian"])
	assert.Equal(t, float64(0), totals["nonVegetarian"])

	// Scoped to a department
	w = app.request(t, http.MethodGet, "/api/v1/meal-counts?date=2025-03-10&department=Engineering", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	counts := decode(t, w)["counts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["total"])

	// Missing date
	w = app.request(t, http.MethodGet, "/api/v1/meal-counts", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdjustEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, employee := app.registerUser(t, models.RoleEmployee, "Engineering")
	_, admin := app.registerUser(t, models.RoleClientAdmin, "")

	w := app.request(t, http.MethodPost, "/api/v1/meal-opt", employee, gin.H{
		"date": "2025-03-10", "decision": "opted-in", "dietary_preference": "non-vegetarian",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodPost, "/api/v1/meal-counts/adjust", admin, gin.H{
		"date": "2025-03-10", "department": "Engineering", "type": "non-vegetarian", "delta": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	counts := decode(t, w)["counts"].(map[string]interface{})
	assert.Equal(t, float64(3), counts["nonVegetarian"])
}

func TestFinalizeFlow(t *testing.T) {
	app := newTestApp(t)
	_, employee := app.registerUser(t, models.RoleEmployee, "Engineering")
	_, admin := app.registerUser(t, models.RoleClientAdmin, "")
	_, vendor := app.registerUser(t, models.RoleVendor, "")

	w := app.request(t, http.MethodPost, "/api/v1/meal-opt", employee, gin.H{
		"date": "2025-03-10", "decision": "opted-in", "dietary_preference": "vegetarian",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Nothing submitted yet
	w = app.request(t, http.MethodGet, "/api/v1/vendor/report?date=2025-03-10", vendor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.request(t, http.MethodPost, "/api/v1/finalize/submit", admin, gin.H{
		"date": "2025-03-10",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// A second submission conflicts
	w = app.request(t, http.MethodPost, "/api/v1/finalize/submit", admin, gin.H{
		"date": "2025-03-10",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/vendor/report?date=2025-03-10", vendor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	submission := body["submission"].(map[string]interface{})
	assert.Equal(t, float64(1), submission["vegetarian"])

	// Reset reopens the date
	w = app.request(t, http.MethodPost, "/api/v1/finalize/reset?date=2025-03-10", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = app.request(t, http.MethodGet, "/api/v1/vendor/report?date=2025-03-10", vendor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCouponVerifyEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, vendor := app.registerUser(t, models.RoleVendor, "")

	w := app.request(t, http.MethodPost, "/api/v1/coupons/verify", vendor, gin.H{
		"code": "4821", "type": "vegetarian",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Second redemption conflicts
	w = app.request(t, http.MethodPost, "/api/v1/coupons/verify", vendor, gin.H{
		"code": "4821", "type": "vegetarian",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Malformed code
	w = app.request(t, http.MethodPost, "/api/v1/coupons/verify", vendor, gin.H{
		"code": "12a4", "type": "vegetarian",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/coupons/verified", vendor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	coupons := decode(t, w)["coupons"].([]interface{})
	assert.Len(t, coupons, 1)
}

func TestFeedbackEndpoints(t *testing.T) {
	app := newTestApp(t)
	_, employee := app.registerUser(t, models.RoleEmployee, "Engineering")
	_, admin := app.registerUser(t, models.RoleClientAdmin, "")

	w := app.request(t, http.MethodPost, "/api/v1/feedback", employee, gin.H{
		"date": "2025-03-10", "rating": 4, "comments": "good", "meal": "Rajma Chawal",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/feedback?date=2025-03-10", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode(t, w)["feedback"].([]interface{})
	assert.Len(t, entries, 1)

	// Rolled into the daily report
	w = app.request(t, http.MethodGet, "/api/v1/meal-counts/daily?date=2025-03-10", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decode(t, w)["average_rating"])
}

func TestVendorMenuEndpoints(t *testing.T) {
	app := newTestApp(t)
	_, employee := app.registerUser(t, models.RoleEmployee, "Engineering")
	_, vendor := app.registerUser(t, models.RoleVendor, "")

	w := app.request(t, http.MethodPost, "/api/v1/vendor/menu", vendor, gin.H{
		"day": "Monday", "date": "2025-03-10", "main_course": "Paneer Butter Masala",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	meal := decode(t, w)["meal"].(map[string]interface{})
	mealID := meal["id"].(string)
	assert.Equal(t, "draft", meal["status"])

	// Drafts are invisible to employees
	w = app.request(t, http.MethodGet, "/api/v1/menu", employee, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["menu"])

	w = app.request(t, http.MethodPut, "/api/v1/vendor/menu/"+mealID, vendor, gin.H{
		"status": "published",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/menu", employee, nil)
	require.Equal(t, http.StatusOK, w.Code)
	menu := decode(t, w)["menu"].([]interface{})
	require.Len(t, menu, 1)
}
