package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"company-staff-api/internal/domain"
	"company-staff-api/internal/service"
	"company-staff-api/internal/transport/http/ez"
	"company-staff-api/internal/validation"
)

type CompanyHandler struct{ svc *service.CompanyService }

func NewCompanyHandler(svc *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

func (h *CompanyHandler) Mount(_, authed ez.EZ) {
	ez.RegisterAction(authed, ez.Action[listQuery, domain.Page[domain.Company]]{
		Method: http.MethodGet,
		Path:   "/companies",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, q *listQuery) (domain.Page[domain.Company], error) {
			return h.svc.List(c.Request.Context(), a, q.toDomain())
		},
	})

	ez.RegisterAction(authed, ez.Action[none, *domain.Company]{
		Method: http.MethodGet,
		Path:   "/companies/:id",
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, _ *none) (*domain.Company, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Show(c.Request.Context(), a, id)
		},
	})

	ez.RegisterAction(authed, ez.Action[validation.CreateCompanyInput, *service.CreatedCompany]{
		Method: http.MethodPost,
		Path:   "/companies",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, a *domain.Actor, in *validation.CreateCompanyInput) (*service.CreatedCompany, error) {
			return h.svc.Create(c.Request.Context(), a, in)
		},
	})

	// 更新公司校验失败返回 400（其余接口 422）
	ez.RegisterAction(authed, ez.Action[validation.UpdateCompanyInput, *domain.Company]{
		Method:           http.MethodPut,
		Path:             "/companies/:id",
		Binder:           ez.BindJSON,
		Auth:             true,
		ValidationStatus: http.StatusBadRequest,
		Handler: func(c *gin.Context, a *domain.Actor, in *validation.UpdateCompanyInput) (*domain.Company, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), a, id, in)
		},
	})

	ez.RegisterAction(authed, ez.Action[none, none]{
		Method: http.MethodDelete,
		Path:   "/companies/:id",
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, a *domain.Actor, _ *none) (none, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return none{}, err
			}
			return none{}, h.svc.Delete(c.Request.Context(), a, id)
		},
	})
}
