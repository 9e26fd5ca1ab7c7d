package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Handler", func() {
	var (
		router  *chi.Mux
		service *Service
	)

	ginkgo.BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(newMockUserRepository(), NewJWTTokenGenerator(testSecret, "", time.Hour), bcrypt.MinCost, logger)
		handler := NewHandler(service)
		rbac := NewRBACAuthorization(NewResolver(&fakeMembershipStore{}), logger)

		router = chi.NewRouter()
		router.Post("/auth/register", handler.Register)
		router.Post("/auth/login", handler.Login)
		router.Group(func(pr chi.Router) {
			pr.Use(handler.AuthMiddleware)
			pr.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
				actor, _ := CurrentActor(r)
				_ = json.NewEncoder(w).Encode(actor)
			})
			pr.With(rbac.RequireAdmin()).Get("/admin-only", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})

	do := func(method, path, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(email string) string {
		resp, err := service.Login(context.Background(), LoginDTO{Email: email, Password: "correct_password"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return resp.Token
	}

	ginkgo.It("registers and answers 201", func() {
		rec := do(http.MethodPost, "/auth/register", `{"email":"new@campus.edu","password":"longenough","name":"N"}`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"globalRole":"STUDENT"`))
	})

	ginkgo.It("answers 400 for a malformed body", func() {
		rec := do(http.MethodPost, "/auth/login", `{"email":`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		gomega.Expect(rec.Body.String()).To(gomega.MatchJSON(`{"error":"Invalid request body."}`))
	})

	ginkgo.It("answers 401 for bad credentials", func() {
		rec := do(http.MethodPost, "/auth/login", `{"email":"student@campus.edu","password":"nope"}`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(rec.Body.String()).To(gomega.MatchJSON(`{"error":"Invalid credentials."}`))
	})

	ginkgo.It("requires a bearer token on protected routes", func() {
		gomega.Expect(do(http.MethodGet, "/whoami", "", "").Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(do(http.MethodGet, "/whoami", "", "garbage").Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("puts the loaded actor in the request context", func() {
		rec := do(http.MethodGet, "/whoami", "", login("student@campus.edu"))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"id":"u-1"`))
	})

	ginkgo.It("guards admin routes by the stored global role", func() {
		gomega.Expect(do(http.MethodGet, "/admin-only", "", login("student@campus.edu")).Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(do(http.MethodGet, "/admin-only", "", login("admin@campus.edu")).Code).To(gomega.Equal(http.StatusNoContent))
	})
})
