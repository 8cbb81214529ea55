package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"libloan/app/echoServer/validation"
	"libloan/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type svcMock struct {
	registerFn func(ctx context.Context, req model.RegisterReq) (*model.User, error)
	loginFn    func(ctx context.Context, req model.LoginReq) (*model.User, string, error)
}

func (m *svcMock) Register(ctx context.Context, req model.RegisterReq) (*model.User, error) {
	return m.registerFn(ctx, req)
}

func (m *svcMock) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	return m.loginFn(ctx, req)
}

func newTestContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validation.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/users/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegister_ValidationRejectsShortUsername(t *testing.T) {
	called := false
	ctl := &Controller{
		Svc: &svcMock{registerFn: func(ctx context.Context, req model.RegisterReq) (*model.User, error) {
			called = true
			return nil, nil
		}},
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	c, _ := newTestContext(t, `{"username":"ab","password":"secret1","confirm_password":"secret1"}`)
	err := ctl.Register(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.False(t, called)
}

func TestRegister_ValidPayloadReachesService(t *testing.T) {
	ctl := &Controller{
		Svc: &svcMock{registerFn: func(ctx context.Context, req model.RegisterReq) (*model.User, error) {
			return &model.User{ID: 1, Username: req.Username, Role: model.RoleReader}, nil
		}},
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	c, rec := newTestContext(t, `{"username":"reader1","password":"secret1","confirm_password":"secret1"}`)
	require.NoError(t, ctl.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), "reader1")
}
