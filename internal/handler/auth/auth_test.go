package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"auth-app/internal/api"
	"auth-app/internal/middleware"
	"auth-app/internal/model"
	"auth-app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type FakeAuthenticator struct {
	RegisterFn   func(ctx context.Context, username, email, password string) (*service.AuthResult, error)
	LoginFn      func(ctx context.Context, email, password string) (*service.AuthResult, error)
	GetProfileFn func(ctx context.Context, userID int) (*model.Profile, error)
}

func (f *FakeAuthenticator) Register(ctx context.Context, username, email, password string) (*service.AuthResult, error) {
	if f.RegisterFn != nil {
		return f.RegisterFn(ctx, username, email, password)
	}
	panic("unexpected Register")
}

func (f *FakeAuthenticator) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if f.LoginFn != nil {
		return f.LoginFn(ctx, email, password)
	}
	panic("unexpected Login")
}

func (f *FakeAuthenticator) GetProfile(ctx context.Context, userID int) (*model.Profile, error) {
	if f.GetProfileFn != nil {
		return f.GetProfileFn(ctx, userID)
	}
	panic("unexpected GetProfile")
}

type testValidator struct{ v *validator.Validate }

func (tv testValidator) Validate(i any) error { return tv.v.Struct(i) }

type errBinder struct{}

func (errBinder) Bind(any, echo.Context) error { return errors.New("bind") }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = testValidator{v: validator.New()}
	return e
}

func newJSONCtx(e *echo.Echo, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var he api.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &he))
	return he.Message
}

var aliceResult = &service.AuthResult{
	Token: "tok",
	User:  model.Profile{ID: 1, Username: "alice", Email: "a@x.com"},
}

func TestRegisterHandler(t *testing.T) {
	const body = `{"username":"alice","email":"a@x.com","password":"secret1"}`

	t.Run("success", func(t *testing.T) {
		var got []string
		svc := &FakeAuthenticator{RegisterFn: func(_ context.Context, u, e, p string) (*service.AuthResult, error) {
			got = []string{u, e, p}
			return aliceResult, nil
		}}
		ctx, rec := newJSONCtx(newEcho(), http.MethodPost, body)
		require.NoError(t, RegisterHandler(svc)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, []string{"alice", "a@x.com", "secret1"}, got)

		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, api.AuthResponse{
			Message: "User registered successfully",
			Token:   "tok",
			User:    api.UserResponse{ID: 1, Username: "alice", Email: "a@x.com"},
		}, resp)
		require.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("bind error", func(t *testing.T) {
		e := newEcho()
		e.Binder = errBinder{}
		ctx, rec := newJSONCtx(e, http.MethodPost, body)
		require.NoError(t, RegisterHandler(&FakeAuthenticator{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	invalid := []string{
		`{"email":"a@x.com","password":"secret1"}`,
		`{"username":"alice","email":"not-an-email","password":"secret1"}`,
		`{"username":"alice","email":"a@x.com","password":"12345"}`,
		fmt.Sprintf(`{"username":"alice","email":"a@x.com","password":"%s"}`, strings.Repeat("p", 73)),
		fmt.Sprintf(`{"username":"%s","email":"a@x.com","password":"secret1"}`, strings.Repeat("u", 101)),
	}
	for i, b := range invalid {
		t.Run(fmt.Sprintf("invalid %d", i), func(t *testing.T) {
			ctx, rec := newJSONCtx(newEcho(), http.MethodPost, b)
			require.NoError(t, RegisterHandler(&FakeAuthenticator{})(ctx))
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("multibyte password over 72 bytes", func(t *testing.T) {
		pw := strings.Repeat("密", 30)
		b := fmt.Sprintf(`{"username":"alice","email":"a@x.com","password":"%s"}`, pw)
		ctx, rec := newJSONCtx(newEcho(), http.MethodPost, b)
		require.NoError(t, RegisterHandler(&FakeAuthenticator{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Password must be at most 72 bytes", decodeMessage(t, rec))
	})

	t.Run("validation message hides go types", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(), http.MethodPost, `{"username":"alice","email":"not-an-email","password":"secret1"}`)
		require.NoError(t, RegisterHandler(&FakeAuthenticator{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		msg := decodeMessage(t, rec)
		require.Equal(t, "Please include a valid email", msg)
		require.NotContains(t, msg, "RegisterRequest")
		require.NotContains(t, msg, "Key:")
	})

	errCases := []struct {
		err  error
		code int
		msg  string
	}{
		{service.ErrDuplicateUser, http.StatusBadRequest, "User already exists"},
		{service.ErrPasswordTooLong, http.StatusBadRequest, "Password must be at most 72 bytes"},
		{fmt.Errorf("%w: boom", service.ErrSigning), http.StatusInternalServerError, "Error generating authentication token"},
		{service.ErrSigningKeyMissing, http.StatusInternalServerError, "Error generating authentication token"},
		{fmt.Errorf("%w: connection refused", service.ErrStore), http.StatusInternalServerError, "Server error"},
	}
	for _, tc := range errCases {
		t.Run(tc.msg, func(t *testing.T) {
			svc := &FakeAuthenticator{RegisterFn: func(context.Context, string, string, string) (*service.AuthResult, error) {
				return nil, tc.err
			}}
			ctx, rec := newJSONCtx(newEcho(), http.MethodPost, body)
			require.NoError(t, RegisterHandler(svc)(ctx))
			require.Equal(t, tc.code, rec.Code)
			require.Equal(t, tc.msg, decodeMessage(t, rec))
			require.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestLoginHandler(t *testing.T) {
	const body = `{"email":"a@x.com","password":"secret1"}`

	t.Run("success", func(t *testing.T) {
		svc := &FakeAuthenticator{LoginFn: func(_ context.Context, e, p string) (*service.AuthResult, error) {
			require.Equal(t, "a@x.com", e)
			require.Equal(t, "secret1", p)
			return aliceResult, nil
		}}
		ctx, rec := newJSONCtx(newEcho(), http.MethodPost, body)
		require.NoError(t, LoginHandler(svc)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "Login successful", resp.Message)
		require.Equal(t, "tok", resp.Token)
		require.Equal(t, 1, resp.User.ID)
	})

	t.Run("validation", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(), http.MethodPost, `{"email":"a@x.com"}`)
		require.NoError(t, LoginHandler(&FakeAuthenticator{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("password over 72 bytes", func(t *testing.T) {
		b := fmt.Sprintf(`{"email":"a@x.com","password":"%s"}`, strings.Repeat("a", 72)+"suffix")
		ctx, rec := newJSONCtx(newEcho(), http.MethodPost, b)
		require.NoError(t, LoginHandler(&FakeAuthenticator{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invalid credentials", decodeMessage(t, rec))
	})

	t.Run("invalid credentials", func(t *testing.T) {
		svc := &FakeAuthenticator{LoginFn: func(context.Context, string, string) (*service.AuthResult, error) {
			return nil, service.ErrInvalidCredentials
		}}
		ctx, rec := newJSONCtx(newEcho(), http.MethodPost, body)
		require.NoError(t, LoginHandler(svc)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invalid credentials", decodeMessage(t, rec))
	})

	t.Run("store error", func(t *testing.T) {
		svc := &FakeAuthenticator{LoginFn: func(context.Context, string, string) (*service.AuthResult, error) {
			return nil, service.ErrStore
		}}
		ctx, rec := newJSONCtx(newEcho(), http.MethodPost, body)
		require.NoError(t, LoginHandler(svc)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "Server error", decodeMessage(t, rec))
	})
}

func TestProfileHandler(t *testing.T) {
	withUser := func(id int) (echo.Context, *httptest.ResponseRecorder) {
		ctx, rec := newJSONCtx(newEcho(), http.MethodGet, "")
		ctx.Set(middleware.ContextUserKey, &service.Claims{ID: id})
		return ctx, rec
	}

	t.Run("success", func(t *testing.T) {
		svc := &FakeAuthenticator{GetProfileFn: func(_ context.Context, id int) (*model.Profile, error) {
			require.Equal(t, 1, id)
			p := aliceResult.User
			return &p, nil
		}}
		ctx, rec := withUser(1)
		require.NoError(t, ProfileHandler(svc)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"id":1,"username":"alice","email":"a@x.com"}`, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		svc := &FakeAuthenticator{GetProfileFn: func(context.Context, int) (*model.Profile, error) {
			return nil, service.ErrNotFound
		}}
		ctx, rec := withUser(9)
		require.NoError(t, ProfileHandler(svc)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "User not found", decodeMessage(t, rec))
	})

	t.Run("no claims", func(t *testing.T) {
		ctx, _ := newJSONCtx(newEcho(), http.MethodGet, "")
		err := ProfileHandler(&FakeAuthenticator{})(ctx)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		require.Equal(t, http.StatusUnauthorized, he.Code)
	})
}

func TestValidationMessage(t *testing.T) {
	v := validator.New()
	cases := []struct {
		req  api.RegisterRequest
		want string
	}{
		{api.RegisterRequest{Email: "a@x.com", Password: "secret1"}, "Username is required"},
		{api.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "12345"}, "Password must be at least 6 characters"},
		{api.RegisterRequest{Username: "alice", Email: "bad", Password: "secret1"}, "Please include a valid email"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			require.Equal(t, tc.want, validationMessage(v.Struct(tc.req)))
		})
	}
	require.Equal(t, "Invalid request data", validationMessage(errors.New("other")))
}
