package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"company-staff-api/internal/domain"
	"company-staff-api/internal/service"
	"company-staff-api/internal/transport/http/ez"
	"company-staff-api/internal/validation"
)

type EmployeeHandler struct{ svc *service.EmployeeService }

func NewEmployeeHandler(svc *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

func (h *EmployeeHandler) Mount(_, authed ez.EZ) {
	ez.RegisterAction(authed, ez.Action[none, []domain.Employee]{
		Method: http.MethodGet,
		Path:   "/employees",
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, _ *none) ([]domain.Employee, error) {
			return h.svc.List(c.Request.Context(), a)
		},
	})

	ez.RegisterAction(authed, ez.Action[none, *domain.Employee]{
		Method: http.MethodGet,
		Path:   "/employees/:id",
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, _ *none) (*domain.Employee, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Show(c.Request.Context(), a, id)
		},
	})

	ez.RegisterAction(authed, ez.Action[validation.CreateEmployeeInput, *domain.Employee]{
		Method: http.MethodPost,
		Path:   "/employees",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, a *domain.Actor, in *validation.CreateEmployeeInput) (*domain.Employee, error) {
			return h.svc.Create(c.Request.Context(), a, in)
		},
	})

	ez.RegisterAction(authed, ez.Action[validation.UpdateEmployeeInput, *domain.Employee]{
		Method: http.MethodPut,
		Path:   "/employees/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, in *validation.UpdateEmployeeInput) (*domain.Employee, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), a, id, in)
		},
	})

	ez.RegisterAction(authed, ez.Action[none, none]{
		Method: http.MethodDelete,
		Path:   "/employees/:id",
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
