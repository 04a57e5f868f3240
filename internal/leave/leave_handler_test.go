package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/approvaltoken"
	approvaltokenerrors "go-leave/internal/approvaltoken/errors"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	submitFn      func(ctx context.Context, employeeID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	applyFn       func(ctx context.Context, cmd leave.ActionCommand) (leave.ActionResponse, error)
	previewFn     func(ctx context.Context, token string) (leave.EmailActionPreview, error)
	listMineFn    func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error)
	listPendingFn func(ctx context.Context, managerID string) ([]leave.LeaveResponse, error)
	getByIDFn     func(ctx context.Context, viewerID, id string) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, employeeID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, employeeID, req)
}
func (f *fakeLeaveService) ApplyAction(ctx context.Context, cmd leave.ActionCommand) (leave.ActionResponse, error) {
	return f.applyFn(ctx, cmd)
}
func (f *fakeLeaveService) PreviewEmailAction(ctx context.Context, token string) (leave.EmailActionPreview, error) {
	return f.previewFn(ctx, token)
}
func (f *fakeLeaveService) ListForEmployee(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	return f.listMineFn(ctx, employeeID)
}
func (f *fakeLeaveService) ListPendingForManager(ctx context.Context, managerID string) ([]leave.LeaveResponse, error) {
	return f.listPendingFn(ctx, managerID)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, viewerID, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, viewerID, id)
}

func newJSONContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
		c.Request = httptest.NewRequest(method, path, reader)
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, path, nil)
	}
	return c, w
}

func TestLeaveHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success uses user_id_validated", func(t *testing.T) {
		actorID := uuid.New().String()
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, employeeID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, employeeID)
				assert.Equal(t, "boss@example.com", req.ManagerEmail)
				return leave.LeaveResponse{
					ID:           uuid.New().String(),
					EmployeeID:   employeeID,
					LeaveType:    req.LeaveType,
					StartDate:    req.StartDate,
					EndDate:      req.EndDate,
					TotalDays:    2,
					Status:       leave.StatusPending,
					ProcessedVia: "none",
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		body := `{"manager_email":"boss@example.com","leave_type":"ANNUAL","start_date":"2026-03-10","end_date":"2026-03-11","reason":"Family matters"}`
		c, w := newJSONContext(http.MethodPost, "/leaves", body)
		c.Set("user_id", uuid.New().String())
		c.Set("user_id_validated", actorID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, actorID, got.EmployeeID)
		assert.Equal(t, leave.StatusPending, got.Status)
		assert.Equal(t, 2, got.TotalDays)
	})

	t.Run("validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newJSONContext(http.MethodPost, "/leaves", `{"manager_email":"not-an-email","leave_type":"HOLIDAY"}`)

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("overlap returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, employeeID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}
		h := leave.NewHandler(svc)
		body := `{"manager_email":"boss@example.com","leave_type":"SICK","start_date":"2026-03-10","end_date":"2026-03-11"}`
		c, w := newJSONContext(http.MethodPost, "/leaves", body)
		c.Set("user_id", uuid.New().String())

		h.Submit(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("unexpected error is masked", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, employeeID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, errors.New("db down")
			},
		}
		h := leave.NewHandler(svc)
		body := `{"manager_email":"boss@example.com","leave_type":"SICK","start_date":"2026-03-10","end_date":"2026-03-11"}`
		c, w := newJSONContext(http.MethodPost, "/leaves", body)

		h.Submit(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})
}

func TestLeaveHandler_ListPendingApprovals(t *testing.T) {
	managerID := uuid.New().String()
	items := make([]leave.LeaveResponse, 5)
	for i := range items {
		items[i] = leave.LeaveResponse{ID: uuid.New().String(), ManagerID: managerID, Status: leave.StatusPending}
	}

	svc := &fakeLeaveService{
		listPendingFn: func(ctx context.Context, mid string) ([]leave.LeaveResponse, error) {
			assert.Equal(t, managerID, mid)
			return items, nil
		},
	}
	h := leave.NewHandler(svc)
	c, w := newJSONContext(http.MethodGet, "/leaves/pending-approvals?page=2&page_size=2", "")
	c.Set("user_id_validated", managerID)

	h.ListPendingApprovals(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var got []leave.LeaveResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, items[2].ID, got[0].ID)
	assert.Equal(t, items[3].ID, got[1].ID)

	var meta struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
	}
	require.NoError(t, json.Unmarshal(env.Meta, &meta))
	assert.EqualValues(t, 5, meta.Total)
	assert.Equal(t, 2, meta.Page)
}

func TestLeaveHandler_GetByID(t *testing.T) {
	svc := &fakeLeaveService{
		getByIDFn: func(ctx context.Context, viewerID, id string) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrLeaveAccessDenied
		},
	}
	h := leave.NewHandler(svc)
	c, w := newJSONContext(http.MethodGet, "/leaves/x", "")
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Set("user_id", uuid.New().String())

	h.GetByID(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLeaveHandler_DashboardActions(t *testing.T) {
	leaveID := uuid.New()
	actorID := uuid.New()

	t.Run("approve without body", func(t *testing.T) {
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, cmd leave.ActionCommand) (leave.ActionResponse, error) {
				assert.Equal(t, leaveID, cmd.LeaveID)
				assert.Equal(t, actorID, cmd.ActorID)
				assert.Equal(t, approvaltoken.ActionApprove, cmd.Action)
				assert.Equal(t, leave.ChannelDashboard, cmd.Channel)
				assert.Empty(t, cmd.Token)
				assert.Empty(t, cmd.Comments)
				return leave.ActionResponse{Status: leave.StatusApproved, Message: "Leave request approved successfully."}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newJSONContext(http.MethodPost, "/leaves/"+leaveID.String()+"/approve", "")
		c.Params = gin.Params{{Key: "id", Value: leaveID.String()}}
		c.Set("user_id_validated", actorID.String())

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got leave.ActionResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leave.StatusApproved, got.Status)
	})

	t.Run("reject with comments", func(t *testing.T) {
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, cmd leave.ActionCommand) (leave.ActionResponse, error) {
				assert.Equal(t, approvaltoken.ActionReject, cmd.Action)
				assert.Equal(t, "Not this week", cmd.Comments)
				return leave.ActionResponse{Status: leave.StatusRejected}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newJSONContext(http.MethodPost, "/leaves/"+leaveID.String()+"/reject", `{"comments":"Not this week"}`)
		c.Params = gin.Params{{Key: "id", Value: leaveID.String()}}
		c.Set("user_id_validated", actorID.String())

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("service errors map to status", func(t *testing.T) {
		tests := []struct {
			err    error
			status int
			code   string
		}{
			{leaveerrors.ErrAlreadyResolved, http.StatusConflict, "ALREADY_RESOLVED"},
			{leaveerrors.ErrUnauthorizedApprover, http.StatusForbidden, "FORBIDDEN"},
			{leaveerrors.ErrLeaveNotFound, http.StatusNotFound, "NOT_FOUND"},
		}
		for _, tt := range tests {
			svc := &fakeLeaveService{
				applyFn: func(ctx context.Context, cmd leave.ActionCommand) (leave.ActionResponse, error) {
					return leave.ActionResponse{}, tt.err
				},
			}
			h := leave.NewHandler(svc)
			c, w := newJSONContext(http.MethodPost, "/leaves/x/approve", "")
			c.Params = gin.Params{{Key: "id", Value: leaveID.String()}}
			c.Set("user_id", actorID.String())

			h.Approve(c)

			assert.Equal(t, tt.status, w.Code)
			env := decodeEnvelope(t, w.Body.Bytes())
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		}
	})

	t.Run("bad leave id", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newJSONContext(http.MethodPost, "/leaves/abc/approve", "")
		c.Params = gin.Params{{Key: "id", Value: "abc"}}
		c.Set("user_id", actorID.String())

		h.Approve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_EmailActions(t *testing.T) {
	leaveID := uuid.New()

	t.Run("reject passes token and password", func(t *testing.T) {
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, cmd leave.ActionCommand) (leave.ActionResponse, error) {
				assert.Equal(t, leave.ChannelEmail, cmd.Channel)
				assert.Equal(t, approvaltoken.ActionReject, cmd.Action)
				assert.Equal(t, "tok", cmd.Token)
				assert.Equal(t, "secret", cmd.Password)
				assert.Equal(t, uuid.Nil, cmd.ActorID)
				return leave.ActionResponse{Status: leave.StatusRejected}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newJSONContext(http.MethodPost, "/email-actions/x/reject", `{"token":"tok","manager_password":"secret"}`)
		c.Params = gin.Params{{Key: "id", Value: leaveID.String()}}

		h.EmailReject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing password is a validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newJSONContext(http.MethodPost, "/email-actions/x/approve", `{"token":"tok"}`)
		c.Params = gin.Params{{Key: "id", Value: leaveID.String()}}

		h.EmailApprove(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("error codes", func(t *testing.T) {
		tests := []struct {
			err    error
			status int
			code   string
		}{
			{approvaltokenerrors.ErrTokenInvalid, http.StatusUnauthorized, "INVALID_TOKEN"},
			{leaveerrors.ErrSecurityMismatch, http.StatusForbidden, "SECURITY_MISMATCH"},
			{leaveerrors.ErrInvalidCredential, http.StatusUnauthorized, "INVALID_CREDENTIAL"},
			{leaveerrors.ErrAlreadyResolved, http.StatusConflict, "ALREADY_RESOLVED"},
		}
		for _, tt := range tests {
			svc := &fakeLeaveService{
				applyFn: func(ctx context.Context, cmd leave.ActionCommand) (leave.ActionResponse, error) {
					return leave.ActionResponse{}, tt.err
				},
			}
			h := leave.NewHandler(svc)
			c, w := newJSONContext(http.MethodPost, "/email-actions/x/approve", `{"token":"tok","manager_password":"secret"}`)
			c.Params = gin.Params{{Key: "id", Value: leaveID.String()}}

			h.EmailApprove(c)

			assert.Equal(t, tt.status, w.Code)
			env := decodeEnvelope(t, w.Body.Bytes())
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		}
	})
}

func TestLeaveHandler_PreviewEmailAction(t *testing.T) {
	t.Run("token required", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newJSONContext(http.MethodGet, "/email-actions", "")

		h.PreviewEmailAction(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			previewFn: func(ctx context.Context, token string) (leave.EmailActionPreview, error) {
				assert.Equal(t, "abc", token)
				return leave.EmailActionPreview{Action: "approve", ExpiresAt: "2026-03-03T09:00:00Z"}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newJSONContext(http.MethodGet, "/email-actions?token=abc", "")

		h.PreviewEmailAction(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got leave.EmailActionPreview
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "approve", got.Action)
	})
}
