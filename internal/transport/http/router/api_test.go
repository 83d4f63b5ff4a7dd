package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"company-staff-api/internal/core/auth"
	"company-staff-api/internal/core/config"
	"company-staff-api/internal/core/database"
	"company-staff-api/internal/repo"
	"company-staff-api/internal/service"
	"company-staff-api/internal/validation"
	"company-staff-api/pkg/utils"
)

type api struct {
	t *testing.T
	r *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	utils.PasswordCost = bcrypt.MinCost

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := repo.NewStore(db)
	require.NoError(t, store.AutoMigrate())

	l := zap.NewNop()
	deps := service.Deps{
		Repos:     store.Repositories,
		Tx:        store,
		Validator: validation.New(validation.RepoLookup(store.Repositories)),
		Log:       l,
		PerPage:   15,
	}
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	httpCfg := config.HTTP{
		Mode:               gin.TestMode,
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
		AuthRateLimitRPS:   1000,
		AuthRateLimitBurst: 1000,
		MaxConcurrency:     10,
		MaxBodyBytes:       1 << 20,
		RequestTimeout:     5,
	}
	r := NewAPIEngine(l, httpCfg, jwter, Services{
		Auth:      service.NewAuthService(deps, jwter, nil),
		Companies: service.NewCompanyService(deps),
		Employees: service.NewEmployeeService(deps),
		Users:     service.NewUserService(deps),
	})
	return &api{t: t, r: r}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *api) login(email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/login", "", gin.H{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[struct {
		Token string `json:"token"`
	}](a.t, w).Token
}

func TestRegisterAndLogin(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/v1/register", "", gin.H{"name": "Super Admin", "email": "a@b.com", "password": "password123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode[map[string]any](t, w)
	assert.Equal(t, "User created successfully", out["message"])
	user := out["user"].(map[string]any)
	assert.Equal(t, "super_admin", user["role"])
	assert.NotContains(t, user, "password")

	w = a.do(http.MethodPost, "/v1/register", "", gin.H{"name": "", "email": "a@b.com", "password": "123"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	verr := decode[struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}](t, w)
	assert.Equal(t, "The given data was invalid.", verr.Message)
	assert.Contains(t, verr.Errors, "name")
	assert.Contains(t, verr.Errors, "password")
	assert.Equal(t, "The email has already been taken.", verr.Errors["email"])

	w = a.do(http.MethodPost, "/v1/login", "", gin.H{"email": "a@b.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = a.do(http.MethodPost, "/v1/login", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/v1/login", "", gin.H{"email": "a@b.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	tok := decode[map[string]any](t, w)
	assert.NotEmpty(t, tok["token"])
	assert.Equal(t, "bearer", tok["token_type"])
	assert.EqualValues(t, 3600, tok["expires_in"])
}

func TestUnauthenticated(t *testing.T) {
	a := newAPI(t)
	for _, p := range []string{"/v1/companies", "/v1/employees", "/v1/fellow-employees", "/v1/managers", "/v1/users"} {
		w := a.do(http.MethodGet, p, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, p)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	}
	w := a.do(http.MethodGet, "/v1/companies", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, w.Body.String())

	w = a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestCompanyLifecycle(t *testing.T) {
	a := newAPI(t)
	a.do(http.MethodPost, "/v1/register", "", gin.H{"name": "Root", "email": "root@x.io", "password": "password123"})
	admin := a.login("root@x.io", "password123")

	w := a.do(http.MethodPost, "/v1/companies", admin, gin.H{"name": "Acme", "email": "hr@acme.io", "phone_number": "+628111"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Company struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"company"`
		ManagerAccount struct {
			Email           string `json:"email"`
			DefaultPassword string `json:"default_password"`
		} `json:"manager_account"`
	}](t, w)
	assert.Equal(t, "hr@acme.io", created.ManagerAccount.Email)
	assert.Equal(t, "password123", created.ManagerAccount.DefaultPassword)
	id := created.Company.ID

	// manager 可以用默认密码登录，但不能管理公司
	mgr := a.login("hr@acme.io", "password123")
	w = a.do(http.MethodGet, "/v1/companies", mgr, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	a.do(http.MethodPost, "/v1/companies", admin, gin.H{"name": "Bolt", "email": "hr@bolt.io", "phone_number": "+628222"})
	w = a.do(http.MethodGet, "/v1/companies?search=Ac&sort_by=name&sort_direction=asc&per_page=1", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, page["total"])
	assert.EqualValues(t, 1, page["per_page"])
	assert.EqualValues(t, 1, page["current_page"])
	assert.EqualValues(t, 1, page["last_page"])
	assert.Len(t, page["data"], 1)

	// 更新公司校验失败 -> 400
	w = a.do(http.MethodPut, fmt.Sprintf("/v1/companies/%d", id), admin, gin.H{"email": "hr@bolt.io"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"The email has already been taken."`)

	w = a.do(http.MethodPut, fmt.Sprintf("/v1/companies/%d", id), admin, gin.H{"phone_number": "+62999"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "+62999", decode[map[string]any](t, w)["phone_number"])

	w = a.do(http.MethodDelete, fmt.Sprintf("/v1/companies/%d", id), admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = a.do(http.MethodGet, fmt.Sprintf("/v1/companies/%d", id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode[map[string]any](t, w)["deleted_at"])

	w = a.do(http.MethodDelete, fmt.Sprintf("/v1/companies/%d", id), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = a.do(http.MethodGet, "/v1/companies/999", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = a.do(http.MethodGet, "/v1/companies/abc", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTenantFlows(t *testing.T) {
	a := newAPI(t)
	a.do(http.MethodPost, "/v1/register", "", gin.H{"name": "Root", "email": "root@x.io", "password": "password123"})
	admin := a.login("root@x.io", "password123")

	companyID := func(name, email string) uint {
		w := a.do(http.MethodPost, "/v1/companies", admin, gin.H{"name": name, "email": email, "phone_number": email})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return uint(decode[map[string]any](t, w)["company"].(map[string]any)["id"].(float64))
	}
	acme := companyID("Acme", "hr@acme.io")
	bolt := companyID("Bolt", "hr@bolt.io")
	mgrA := a.login("hr@acme.io", "password123")
	mgrB := a.login("hr@bolt.io", "password123")

	// 员工档案
	w := a.do(http.MethodPost, "/v1/employees", mgrA, gin.H{"name": "Budi", "phone_number": "0812", "company_id": acme, "position": "Engineer"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	empID := uint(decode[map[string]any](t, w)["id"].(float64))

	w = a.do(http.MethodPost, "/v1/employees", mgrA, gin.H{"name": "X", "phone_number": "1", "company_id": bolt})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodPost, "/v1/employees", mgrA, gin.H{"company_id": 999})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = a.do(http.MethodPost, "/v1/employees", mgrA, gin.H{"name": "X", "phone_number": "1", "company_id": "acme"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/v1/employees", mgrB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	w = a.do(http.MethodGet, fmt.Sprintf("/v1/employees/%d", empID), mgrB, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodPut, fmt.Sprintf("/v1/employees/%d", empID), mgrA, gin.H{"address": "Jl. Merdeka"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jl. Merdeka", decode[map[string]any](t, w)["address"])
	w = a.do(http.MethodDelete, fmt.Sprintf("/v1/employees/%d", empID), mgrA, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(http.MethodGet, fmt.Sprintf("/v1/employees/%d", empID), mgrA, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 账号：super_admin 建 employee 账号
	mkUser := func(email string, company uint) uint {
		w := a.do(http.MethodPost, "/v1/users", admin, gin.H{
			"name": email, "email": email, "password": "secret1", "role": "employee", "company_id": company,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return uint(decode[map[string]any](t, w)["id"].(float64))
	}
	e1 := mkUser("e1@acme.io", acme)
	e2 := mkUser("e2@acme.io", acme)
	eb := mkUser("eb@bolt.io", bolt)
	tokE1 := a.login("e1@acme.io", "secret1")

	w = a.do(http.MethodPost, "/v1/users", mgrA, gin.H{"name": "x", "email": "x@acme.io", "password": "secret1", "role": "employee", "company_id": acme})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/v1/fellow-employees", tokE1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fellows := decode[[]map[string]any](t, w)
	require.Len(t, fellows, 1)
	assert.EqualValues(t, e2, fellows[0]["id"])

	w = a.do(http.MethodGet, fmt.Sprintf("/v1/fellow-employees/%d", e2), tokE1, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodGet, fmt.Sprintf("/v1/fellow-employees/%d", eb), tokE1, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodGet, "/v1/fellow-employees", mgrA, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// managers
	w = a.do(http.MethodGet, "/v1/managers", mgrA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	mgrAID := func() uint {
		w := a.do(http.MethodGet, "/v1/managers", mgrA, nil)
		return uint(decode[[]map[string]any](t, w)[0]["id"].(float64))
	}()
	w = a.do(http.MethodPut, fmt.Sprintf("/v1/managers/%d", mgrAID), mgrA, gin.H{"name": "Acme Boss"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Acme Boss", decode[map[string]any](t, w)["name"])
	w = a.do(http.MethodPut, fmt.Sprintf("/v1/managers/%d", e1), mgrA, gin.H{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// users update/show
	w = a.do(http.MethodPut, fmt.Sprintf("/v1/users/%d", e1), mgrA, gin.H{"name": "Employee One"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodPut, fmt.Sprintf("/v1/users/%d", eb), mgrA, gin.H{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodPut, fmt.Sprintf("/v1/users/%d", e1), tokE1, gin.H{"role": "super_admin"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodPut, fmt.Sprintf("/v1/users/%d", e1), tokE1, gin.H{"role": "manager"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodGet, "/v1/employees", tokE1, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodPut, fmt.Sprintf("/v1/users/%d", e1), mgrA, gin.H{"role": "boss"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = a.do(http.MethodGet, fmt.Sprintf("/v1/users/%d", e1), tokE1, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodGet, fmt.Sprintf("/v1/users/%d", e2), tokE1, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/v1/users?search=acme.io&sort_by=email&sort_direction=asc", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode[map[string]any](t, w)["total"])

	// 删除后 token 失效
	w = a.do(http.MethodDelete, fmt.Sprintf("/v1/users/%d", e1), admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(http.MethodGet, "/v1/fellow-employees", tokE1, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
