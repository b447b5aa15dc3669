package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"elearn-order-service/internal/domain"
	"elearn-order-service/internal/domain/model"
	"elearn-order-service/internal/infra/logging"
	"elearn-order-service/internal/usecase"
)

const maxUploadBytes = 512 << 20 // course videos

// orderResponse is the public projection of an Order. The persistence shape
// (verification ref, password hashes elsewhere) never leaves the service.
type orderResponse struct {
	OrderID        string     `json:"orderId"`
	GatewayOrderID string     `json:"gatewayOrderId"`
	Amount         float64    `json:"amount"`
	Status         string     `json:"status"`
	UserID         string     `json:"userId"`
	CourseID       string     `json:"courseId"`
	Address        string     `json:"address"`
	CreatedAt      time.Time  `json:"createdAt"`
	PaidAt         *time.Time `json:"paidAt,omitempty"`
}

func toOrderResponse(o *model.Order) orderResponse {
	return orderResponse{
		OrderID:        o.ID,
		GatewayOrderID: o.GatewayOrderID,
		Amount:         o.Amount,
		Status:         string(o.Status),
		UserID:         o.UserID,
		CourseID:       o.CourseID,
		Address:        o.Address,
		CreatedAt:      o.CreatedAt,
		PaidAt:         o.PaidAt,
	}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, CreatedAt: u.CreatedAt}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

// writeError maps domain errors to fixed HTTP statuses. Gateway
// unavailability is deliberately indistinguishable from a rejected
// verification at this boundary: both fail closed.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeMessage(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrPaymentMismatch):
		writeMessage(w, http.StatusConflict, "amount mismatch")
	case errors.Is(err, domain.ErrVerificationFailed), errors.Is(err, domain.ErrGatewayUnavailable):
		writeMessage(w, http.StatusPaymentRequired, "payment verification failed")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeMessage(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
	default:
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// ---------------- auth ----------------

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := s.userUC.Register(r.Context(), req.Email, req.Name, req.Phone, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := s.userUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.auth.Mint(u.ID, u.Email)
	if err != nil {
		s.log.Error().Err(err).Msg("token mint failed")
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ---------------- orders ----------------

type createOrderRequest struct {
	Amount   float64 `json:"amount"`
	CourseID string  `json:"courseId"`
	UserID   string  `json:"userId"`
	Address  string  `json:"address"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := s.orderUC.Create(r.Context(), usecase.CreateOrderRequest{
		CourseID: req.CourseID,
		UserID:   req.UserID,
		Amount:   req.Amount,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithOrderID(r.Context(), chi.URLParam(r, "orderID"))
	o, err := s.orderUC.GetByID(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (s *Server) handlePaymentURL(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithOrderID(r.Context(), chi.URLParam(r, "orderID"))
	o, err := s.orderUC.GetByID(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := s.orderUC.PaymentURL(o)
	if err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("payment url build failed")
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(u))
}

// handleGatewaySuccess receives the browser redirect from the gateway after
// payment. All three parameters are forwarded verbatim to the use case.
func (s *Server) handleGatewaySuccess(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	o, err := s.orderUC.HandleSuccessCallback(r.Context(), q.Get("refId"), q.Get("pid"), q.Get("amt"))
	if err != nil {
		logging.With(r.Context(), s.log).Warn().Err(err).Str("pid", q.Get("pid")).Msg("success callback rejected")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// handleGatewayFailure is hit by the gateway's failure redirect on cancelled
// or declined payments. It reports failure unconditionally and never touches
// the order store.
func (s *Server) handleGatewayFailure(w http.ResponseWriter, r *http.Request) {
	logging.With(r.Context(), s.log).Warn().Msg("gateway failure callback received")
	writeMessage(w, http.StatusBadRequest, "Payment failed or cancelled.")
}

// ---------------- courses ----------------

type createCourseRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := s.courseUC.Create(r.Context(), req.Title, req.Description, req.Category, req.Price, req.Discount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := s.courseUC.FindByID(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	cs, err := s.courseUC.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if cs == nil {
		cs = []*model.Course{}
	}
	writeJSON(w, http.StatusOK, cs)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.courseUC.Delete(r.Context(), chi.URLParam(r, "courseID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, s.courseUC.AttachVideo)
}

func (s *Server) handleUploadThumbnail(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, s.courseUC.AttachThumbnail)
}

type attachFunc func(ctx context.Context, courseID, filename string, r io.Reader, size int64, contentType string) (*model.Course, error)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, attach attachFunc) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	c, err := attach(r.Context(), chi.URLParam(r, "courseID"), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
