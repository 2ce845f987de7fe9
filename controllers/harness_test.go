package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go-shop/apperr"
	"go-shop/config"
	"go-shop/controllers"
	"go-shop/middleware"
	"go-shop/models"
	"go-shop/routes"
	"go-shop/store"
	"go-shop/utils"

	"github.com/gorilla/mux"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []utils.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg utils.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *fakeMailer) messages() []utils.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]utils.Message(nil), m.sent...)
}

type fakeUploader struct {
	uploads []string
}

func (u *fakeUploader) UploadImage(_ context.Context, file io.Reader, filename string) (string, error) {
	if err := utils.CheckImageFilename(filename); err != nil {
		return "", err
	}
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	u.uploads = append(u.uploads, filename)
	return "https://img.test/" + filename, nil
}

// fakePayments reports the gateway status for each known reference and
// ErrPaymentNotVerified for the rest.
type fakePayments map[string]string

func (p fakePayments) VerifyPayment(_ context.Context, ref string) (*models.PaymentVerification, error) {
	status, ok := p[ref]
	if !ok {
		return nil, apperr.ErrPaymentNotVerified
	}
	return &models.PaymentVerification{Reference: ref, Status: status}, nil
}

type harness struct {
	t        *testing.T
	router   *mux.Router
	mem      *store.MemoryStore
	tokens   *utils.TokenService
	mailer   *fakeMailer
	uploader *fakeUploader
	payments fakePayments
}

var testAuth = config.AuthConfig{
	JWTSecret:       "test-secret",
	SessionTTL:      20 * time.Minute,
	VerifyTTL:       7 * 24 * time.Hour,
	ResendVerifyTTL: 15 * time.Minute,
	AdminTTL:        24 * time.Hour,
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithAdmin(t, config.AdminConfig{SetupEnabled: true, Email: "admin@shop.com", Password: "admin123"})
}

func newHarnessWithAdmin(t *testing.T, admin config.AdminConfig) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		router:   mux.NewRouter(),
		mem:      store.NewMemoryStore(),
		tokens:   utils.NewTokenService(testAuth.JWTSecret),
		mailer:   &fakeMailer{},
		uploader: &fakeUploader{},
		payments: fakePayments{"PAY-1": "success", "PAY-2": "success", "PAY-3": "success", "FAILED-1": "failed"},
	}
	email := utils.NewEmailService(h.mailer, config.EmailConfig{FromName: "MistressChef", FrontendURL: "http://shop.test"})

	routes.RegisterRoutes(h.router, routes.Controllers{
		Users:  controllers.NewUserController(h.mem, h.tokens, email, h.uploader, testAuth),
		Orders: controllers.NewOrderController(h.mem, h.payments),
		Admin:  controllers.NewAdminController(h.mem, h.mem, h.tokens, email, testAuth, admin),
	},
		middleware.NewGuard(h.tokens, middleware.UserResolver{Users: h.mem}),
		middleware.NewGuard(h.tokens, middleware.AdminResolver{Admins: h.mem}),
	)
	return h
}

type response struct {
	code int
	body map[string]interface{}
	raw  string
}

func (r response) message() string {
	msg, _ := r.body["message"].(string)
	return msg
}

func (r response) object(key string) map[string]interface{} {
	obj, _ := r.body[key].(map[string]interface{})
	return obj
}

func (r response) list(key string) []interface{} {
	items, _ := r.body[key].([]interface{})
	return items
}

func (h *harness) send(req *http.Request, token string) response {
	h.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	res := response{code: rec.Code, raw: rec.Body.String()}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &res.body); err != nil {
			h.t.Fatalf("decode %s %s response: %v (%s)", req.Method, req.URL, err, rec.Body)
		}
	}
	return res
}

func (h *harness) do(method, path string, body interface{}, token string) response {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			h.t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.send(req, token)
}

// multipartRequest builds a form with the given fields and, when filename is
// not empty, a small "profilePic" file part.
func (h *harness) multipartRequest(method, path string, fields map[string]string, filename string) *http.Request {
	h.t.Helper()
	return h.multipartUpload(method, path, fields, filename, []byte("\x89PNG fake image bytes"))
}

func (h *harness) multipartUpload(method, path string, fields map[string]string, filename string, content []byte) *http.Request {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			h.t.Fatal(err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("profilePic", filename)
		if err != nil {
			h.t.Fatal(err)
		}
		part.Write(content)
	}
	if err := mw.Close(); err != nil {
		h.t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// addUser stores an account directly, skipping the signup flow.
func (h *harness) addUser(email, password string, verified bool) *models.User {
	h.t.Helper()
	hashed, err := utils.HashPassword(password)
	if err != nil {
		h.t.Fatal(err)
	}
	user := &models.User{FirstName: "Ada", LastName: "Lovelace", Email: email, Password: hashed, ProfilePic: models.DefaultProfilePic, IsVerified: verified}
	if err := h.mem.CreateUser(context.Background(), user); err != nil {
		h.t.Fatal(err)
	}
	return user
}

func (h *harness) login(email, password string) string {
	h.t.Helper()
	res := h.do(http.MethodPost, "/api/users/login", map[string]string{"email": email, "password": password}, "")
	if res.code != http.StatusOK {
		h.t.Fatalf("login %s: %d %s", email, res.code, res.raw)
	}
	return res.body["token"].(string)
}

func (h *harness) adminToken() string {
	h.t.Helper()
	if res := h.do(http.MethodGet, "/api/admin/create-admin", nil, ""); res.code != http.StatusCreated && res.code != http.StatusOK {
		h.t.Fatalf("create admin: %d %s", res.code, res.raw)
	}
	res := h.do(http.MethodPost, "/api/admin/login", map[string]string{"email": "admin@shop.com", "password": "admin123"}, "")
	if res.code != http.StatusOK {
		h.t.Fatalf("admin login: %d %s", res.code, res.raw)
	}
	return res.body["token"].(string)
}

func orderBody(ref, email string) map[string]interface{} {
	return map[string]interface{}{
		"name":    "Ada Lovelace",
		"email":   email,
		"phone":   "+2348000000000",
		"address": "12 Marina Road, Lagos",
		"cart": []map[string]interface{}{
			{"id": "p1", "name": "Jollof rice", "price": 50, "qty": 2},
		},
		"total":      100,
		"paymentRef": ref,
	}
}

func (h *harness) placeOrder(ref, email, token string) string {
	h.t.Helper()
	path := "/api/orders"
	if token == "" {
		path = "/api/orders/guest"
	}
	res := h.do(http.MethodPost, path, orderBody(ref, email), token)
	if res.code != http.StatusCreated {
		h.t.Fatalf("create order %s: %d %s", ref, res.code, res.raw)
	}
	return res.object("order")["id"].(string)
}

func (h *harness) lastVerificationToken() string {
	h.t.Helper()
	msgs := h.mailer.messages()
	if len(msgs) == 0 {
		h.t.Fatal("no email sent")
	}
	link := msgs[len(msgs)-1].Text
	i := strings.Index(link, "/verify/")
	if i < 0 {
		h.t.Fatalf("no verification link in %q", link)
	}
	return strings.Fields(link[i+len("/verify/"):])[0]
}

var errMailDown = errors.New("mail transport down")
