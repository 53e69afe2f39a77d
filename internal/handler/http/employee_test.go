package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dokanhq/dokan/internal/handler/http/mocks"
	"github.com/dokanhq/dokan/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestEmployeeHandler_CreateEmployee(t *testing.T) {
	inCharge := activeEmployee(models.RoleInCharge)

	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockEmployeeService
		wantStatusCode int
	}{
		{
			// 201 — employee created
			name:  "valid_request_return_201",
			token: &models.TokenPayload{UserID: 1},
			body:  `{"user_id":7,"name":"Rahim","email":"rahim@dokan.example","role":"packer"}`,
			setup: func(t *testing.T) *mocks.MockEmployeeService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockEmployeeService(ctrl)
				svcMock.EXPECT().GetByUserID(gomock.Any(), uint64(1)).Return(inCharge, nil)
				svcMock.EXPECT().Create(gomock.Any(), inCharge, gomock.Any()).Return(&models.Employee{
					ID:     2,
					UserID: 7,
					Name:   "Rahim",
					Email:  "rahim@dokan.example",
					Role:   models.RolePacker,
					Status: models.EmployeeStatusActive,
				}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			// 403 — actor may not manage employees
			name:  "wrong_role_return_403",
			token: &models.TokenPayload{UserID: 1},
			body:  `{"user_id":7,"role":"packer"}`,
			setup: func(t *testing.T) *mocks.MockEmployeeService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockEmployeeService(ctrl)
				svcMock.EXPECT().GetByUserID(gomock.Any(), gomock.Any()).Return(activeEmployee(models.RolePacker), nil)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrUnauthorized)
				return svcMock
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			// 409 — user is already an employee
			name:  "duplicate_return_409",
			token: &models.TokenPayload{UserID: 1},
			body:  `{"user_id":7,"role":"packer"}`,
			setup: func(t *testing.T) *mocks.MockEmployeeService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockEmployeeService(ctrl)
				svcMock.EXPECT().GetByUserID(gomock.Any(), gomock.Any()).Return(inCharge, nil)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrConflictData)
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			// 422 — unknown role
			name:  "unknown_role_return_422",
			token: &models.TokenPayload{UserID: 1},
			body:  `{"user_id":7,"role":"janitor"}`,
			setup: func(t *testing.T) *mocks.MockEmployeeService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockEmployeeService(ctrl)
				svcMock.EXPECT().GetByUserID(gomock.Any(), gomock.Any()).Return(inCharge, nil)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrInvalidRole)
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			// 401 — not authenticated
			name: "unauthorized_return_401",
			body: `{"user_id":7,"role":"packer"}`,
			setup: func(t *testing.T) *mocks.MockEmployeeService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockEmployeeService(ctrl)
				svcMock.EXPECT().GetByUserID(gomock.Any(), gomock.Any()).Times(0)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/employees", strings.NewReader(tt.body))

			ctx := req.Context()
			if tt.token != nil {
				ctx = context.WithValue(ctx, authPayloadKey, tt.token)
			}

			w := httptest.NewRecorder()
			handler := NewEmployeeHandler(tt.setup(t))
			h := handler.CreateEmployee()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestEmployeeHandler_SuspendEmployee(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setup          func(t *testing.T) *mocks.MockEmployeeService
		wantStatusCode int
	}{
		{
			// 200 — suspended
			name: "valid_request_return_200",
			id:   "2",
			setup: func(t *testing.T) *mocks.MockEmployeeService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockEmployeeService(ctrl)
				svcMock.EXPECT().GetByUserID(gomock.Any(), uint64(1)).Return(activeEmployee(models.RoleInCharge), nil)
				svcMock.EXPECT().Suspend(gomock.Any(), gomock.Any(), uint64(2), "cash shortfall").Return(nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 400 — id is not numeric
			name: "bad_id_return_400",
			id:   "abc",
			setup: func(t *testing.T) *mocks.MockEmployeeService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockEmployeeService(ctrl)
				svcMock.EXPECT().GetByUserID(gomock.Any(), gomock.Any()).Return(activeEmployee(models.RoleInCharge), nil)
				svcMock.EXPECT().Suspend(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 404 — employee not found
			name: "missing_employee_return_404",
			id:   "99",
			setup: func(t *testing.T) *mocks.MockEmployeeService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockEmployeeService(ctrl)
				svcMock.EXPECT().GetByUserID(gomock.Any(), gomock.Any()).Return(activeEmployee(models.RoleInCharge), nil)
				svcMock.EXPECT().Suspend(gomock.Any(), gomock.Any(), uint64(99), gomock.Any()).Return(models.ErrDataNotFound)
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost,
				"/api/admin/employees/"+tt.id+"/suspend", strings.NewReader(`{"reason":"cash shortfall"}`))

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, authPayloadKey, &models.TokenPayload{UserID: 1})

			w := httptest.NewRecorder()
			handler := NewEmployeeHandler(tt.setup(t))
			h := handler.SuspendEmployee()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
