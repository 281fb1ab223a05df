package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"coursehub/internal/infrastructure/payment"
	"coursehub/internal/infrastructure/security"
	"coursehub/internal/notify"
	"coursehub/internal/repo/memory"
	"coursehub/internal/service"
	"coursehub/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const gatewaySecret = "test-gateway-secret"

type testApp struct {
	router  *gin.Engine
	gateway *payment.MemoryGateway
	store   *memory.Store
	hub     *notify.Hub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	gateway := payment.NewMemoryGateway(gatewaySecret)
	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	uploads, err := storage.NewUploads(t.TempDir())
	require.NoError(t, err)
	hub := notify.NewHub(logger, nil)
	t.Cleanup(hub.Close)

	deps := Deps{
		Auth: service.NewAuthService(store.Users, tokens, security.NewPasswordHasher(bcrypt.MinCost), true, logger),
		Courses: service.NewCourseService(service.CourseServiceConfig{
			Courses: store.Courses, Progress: store.Progress, Files: uploads, Logger: logger,
		}),
		Users: service.NewUserService(service.UserServiceConfig{
			Users: store.Users, Courses: store.Courses, Progress: store.Progress, Files: uploads, Logger: logger,
		}),
		Carts:     service.NewCartService(store.Carts, store.Courses, time.Now),
		Wishlists: service.NewWishlistService(store.Wishlists, store.Courses),
		Orders: service.NewOrderService(service.OrderServiceConfig{
			Orders: store.Orders, Carts: store.Carts, Courses: store.Courses, Users: store.Users,
			Gateway: gateway, GatewaySecret: gatewaySecret, Currency: "INR", Publisher: hub, Logger: logger,
		}),
		Reviews:    service.NewReviewService(store.Reviews, store.Courses, store.Users),
		Tokens:     tokens,
		Uploads:    uploads,
		Feed:       hub,
		UploadsDir: uploads.Dir(),
		Logger:     logger,
	}
	return &testApp{router: NewRouter(deps), gateway: gateway, store: store, hub: hub}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) doForm(t *testing.T, method, path, token string, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="cover.png"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testApp) register(t *testing.T, username, role string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/auth/userreg", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[struct {
		Token string `json:"token"`
	}](t, w).Token
}

func (a *testApp) addCourse(t *testing.T, adminToken, title, price string) string {
	t.Helper()
	w := a.doForm(t, http.MethodPost, "/courses/addcourse", adminToken, map[string]string{
		"title":           title,
		"description":     "learn " + title,
		"instructor":      "Ada",
		"instructorPhone": "555-0100",
		"date":            "2025-05-01",
		"price":           price,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[struct {
		Course struct {
			ID string `json:"_id"`
		} `json:"course"`
	}](t, w)
	return res.Course.ID
}

type messageBody struct {
	Message string `json:"message"`
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", "")

	w := app.do(t, http.MethodPost, "/auth/userreg", "", map[string]string{
		"username": "alice2", "email": "ALICE@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decode[messageBody](t, w).Message)

	w = app.do(t, http.MethodPost, "/auth/userlog", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[service.AuthResult](t, w)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.User.Username)

	w = app.do(t, http.MethodPost, "/auth/userlog", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthGates(t *testing.T) {
	app := newTestApp(t)
	userToken := app.register(t, "bob", "")

	w := app.do(t, http.MethodGet, "/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token provided", decode[messageBody](t, w).Message)

	w = app.do(t, http.MethodGet, "/user/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/courses/admincourses", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin access required", decode[messageBody](t, w).Message)

	w = app.do(t, http.MethodGet, "/payment/all-orders", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodGet, "/courses/samplecourses", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCourseAdministration(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.register(t, "root", "admin")
	userToken := app.register(t, "carol", "")

	w := app.doForm(t, http.MethodPost, "/courses/addcourse", adminToken, map[string]string{
		"title":           "Go",
		"description":     "learn Go",
		"instructor":      "Ada",
		"instructorPhone": "555-0100",
		"date":            "2025-05-01",
		"price":           "49.99",
	}, []byte("\x89PNG\r\n\x1a\n"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[struct {
		Message string `json:"message"`
		Course  struct {
			ID    string `json:"_id"`
			Image string `json:"image"`
		} `json:"course"`
	}](t, w)
	assert.Equal(t, "Course added successfully", created.Message)
	assert.Contains(t, created.Course.Image, "cover.png")

	w = app.do(t, http.MethodGet, "/uploads/"+created.Course.Image, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.doForm(t, http.MethodPost, "/courses/addcourse", adminToken, map[string]string{"title": "Missing"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.doForm(t, http.MethodPut, "/courses/updatecourse/"+created.Course.ID, adminToken, map[string]string{"price": "59"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/courses/allcourses?search=go", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[[]struct {
		Title string  `json:"title"`
		Price float64 `json:"price"`
	}](t, w)
	require.Len(t, listed, 1)
	assert.InDelta(t, 59.0, listed[0].Price, 1e-9)

	w = app.do(t, http.MethodGet, "/courses/admincourses", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = app.do(t, http.MethodDelete, "/courses/deletecourse/"+created.Course.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Course deleted successfully", decode[messageBody](t, w).Message)

	w = app.do(t, http.MethodDelete, "/courses/deletecourse/"+created.Course.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.register(t, "root", "admin")
	userToken := app.register(t, "dave", "")
	courseID := app.addCourse(t, adminToken, "Go", "130")

	w := app.do(t, http.MethodPut, "/user/update-cart", userToken, map[string]any{
		"cart": []map[string]any{{"courseId": courseID, "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, "/payment/initiate-payment", userToken, map[string]any{"not": "an array"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart must be a non-empty array", decode[messageBody](t, w).Message)

	w = app.do(t, http.MethodPost, "/payment/initiate-payment", userToken, []map[string]any{
		{"_id": courseID, "price": 130, "quantity": 1},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	initiated := decode[struct {
		OrderID   string `json:"orderId"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		DBOrderID string `json:"dbOrderId"`
	}](t, w)
	assert.EqualValues(t, 13000, initiated.Amount)
	assert.Equal(t, "INR", initiated.Currency)

	paymentID, signature, err := app.gateway.Pay(initiated.OrderID)
	require.NoError(t, err)

	w = app.do(t, http.MethodPost, "/payment/verify-payment", userToken, map[string]string{
		"razorpayOrderId":   initiated.OrderID,
		"razorpayPaymentId": paymentID,
		"razorpaySignature": "bad",
		"dbOrderId":         initiated.DBOrderID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/payment/verify-payment", userToken, map[string]string{
		"razorpayOrderId":   initiated.OrderID,
		"razorpayPaymentId": paymentID,
		"razorpaySignature": signature,
		"dbOrderId":         initiated.DBOrderID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	verified := decode[struct {
		Message string `json:"message"`
		Order   struct {
			Status string `json:"status"`
		} `json:"order"`
	}](t, w)
	assert.Equal(t, "Payment successful", verified.Message)
	assert.Equal(t, "Completed", verified.Order.Status)

	w = app.do(t, http.MethodGet, "/user/update-cart", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[struct {
		Cart *struct {
			Courses []map[string]any `json:"courses"`
		} `json:"cart"`
	}](t, w)
	if cart.Cart != nil {
		assert.Empty(t, cart.Cart.Courses)
	}

	w = app.do(t, http.MethodGet, "/payment/order-status", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = app.do(t, http.MethodGet, "/payment/all-orders", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = app.do(t, http.MethodGet, "/user/usercourses", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCartRejectsNonArray(t *testing.T) {
	app := newTestApp(t)
	userToken := app.register(t, "erin", "")

	w := app.do(t, http.MethodPut, "/user/update-cart", userToken, map[string]any{"cart": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart must be an array of course items", decode[messageBody](t, w).Message)
}

func TestReviewsAndWishlist(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.register(t, "root", "admin")
	userToken := app.register(t, "frank", "")
	courseID := app.addCourse(t, adminToken, "Go", "20")

	w := app.do(t, http.MethodPost, "/review/create", userToken, map[string]any{
		"courseId": courseID, "rating": 5, "comment": "great",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Review struct {
			ID string `json:"_id"`
		} `json:"review"`
	}](t, w)

	w = app.do(t, http.MethodPost, "/review/create", userToken, map[string]any{
		"courseId": courseID, "rating": 4,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/review/course/"+courseID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = app.do(t, http.MethodDelete, "/review/"+created.Review.ID, userToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPut, "/user/wishlist/"+courseID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/user/wishlist", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Wishlist []map[string]any `json:"wishlist"`
	}](t, w)
	assert.Len(t, list.Wishlist, 1)

	w = app.do(t, http.MethodDelete, "/user/wishlist/"+courseID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[struct {
		Wishlist []map[string]any `json:"wishlist"`
	}](t, w)
	assert.Empty(t, list.Wishlist)
}

func TestProgressValidation(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.register(t, "root", "admin")
	userToken := app.register(t, "gina", "")
	courseID := app.addCourse(t, adminToken, "Go", "20")

	w := app.do(t, http.MethodPut, "/user/update-progress/"+courseID, userToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPut, "/user/update-progress/"+courseID, userToken, map[string]any{"progress": 40})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Progress updated successfully", decode[messageBody](t, w).Message)
}

func (a *testApp) checkout(t *testing.T, token, courseID string) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/payment/initiate-payment", token, []map[string]any{
		{"_id": courseID, "price": 20, "quantity": 1},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	initiated := decode[struct {
		OrderID   string `json:"orderId"`
		DBOrderID string `json:"dbOrderId"`
	}](t, w)
	paymentID, signature, err := a.gateway.Pay(initiated.OrderID)
	require.NoError(t, err)
	w = a.do(t, http.MethodPost, "/payment/verify-payment", token, map[string]string{
		"razorpayOrderId":   initiated.OrderID,
		"razorpayPaymentId": paymentID,
		"razorpaySignature": signature,
		"dbOrderId":         initiated.DBOrderID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestOrderFeed(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.register(t, "root", "admin")
	userToken := app.register(t, "hank", "")
	courseID := app.addCourse(t, adminToken, "Go", "20")

	w := app.do(t, http.MethodGet, "/payment/ws/orders", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	srv := httptest.NewServer(app.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/payment/ws/orders?token=" + adminToken
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	require.Eventually(t, func() bool { return app.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	app.checkout(t, userToken, courseID)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event notify.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, notify.EventOrderCompleted, event.Type)
	assert.Equal(t, "hank", event.Order.Username)
}
