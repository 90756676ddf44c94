package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/tournevent/alopeyk/pkg/alopeyk"
	"go.uber.org/zap"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	result, err := s.api.Authenticate(r.Context())
	s.writeResult(w, r, result, err)
}

func (s *Server) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, err := parseFloatParam(r, "lat")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lng, err := parseFloatParam(r, "lng")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.api.GetAddress(r.Context(), lat, lng)
	s.writeResult(w, r, result, err)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	result, err := s.api.GetLocationSuggestion(r.Context(), r.URL.Query().Get("input"))
	s.writeResult(w, r, result, err)
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	order, err := decodeOrder(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.api.GetPrice(r.Context(), order)
	s.writeResult(w, r, result, err)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	order, err := decodeOrder(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.api.CreateOrder(r.Context(), order)
	s.writeResult(w, r, result, err)
}

func (s *Server) handleOrderDetail(w http.ResponseWriter, r *http.Request) {
	result, err := s.api.GetOrderDetail(r.Context(), r.PathValue("id"))
	s.writeResult(w, r, result, err)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Comment string `json:"comment"`
	}
	// The body is optional.
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, badRequest("invalid JSON: "+err.Error()))
		return
	}
	if input.Comment == "" {
		input.Comment = r.URL.Query().Get("comment")
	}
	result, err := s.api.CancelOrder(r.Context(), r.PathValue("id"), input.Comment)
	s.writeResult(w, r, result, err)
}

func (s *Server) handleInvoice(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"url": s.api.PrintInvoiceURL(r.PathValue("id"), r.URL.Query().Get("token")),
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	result, err := s.api.GetUserProfile(r.Context())
	s.writeResult(w, r, result, err)
}

func (s *Server) handleCoupon(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeError(w, r, badRequest("invalid JSON: "+err.Error()))
		return
	}
	result, err := s.api.ValidateCoupon(r.Context(), input.Code)
	s.writeResult(w, r, result, err)
}

func (s *Server) handleGateways(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string][]string{"gateways": s.api.PaymentGateways()})
}

func (s *Server) handlePaymentRoute(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIntParam(r, "user_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	amount, err := parseIntParam(r, "amount")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	route, err := s.api.PaymentRoute(userID, amount, r.URL.Query().Get("gateway"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]string{"url": route})
}

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"url": s.api.TrackingURL(r.PathValue("token")),
	})
}

// writeResult passes the upstream body through untouched.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, result *alopeyk.Result, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, result.Raw)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := alopeyk.KindOf(err)
	if kind == "" {
		kind = "internal"
	}
	s.writeJSON(w, r, statusFor(err), errorBody{Error: errorDetail{Kind: string(kind), Message: err.Error()}})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Ctx(r.Context()).Warn("Failed to write response", zap.Error(err))
	}
}

// statusFor maps an error kind to the gateway response status.
func statusFor(err error) int {
	switch alopeyk.KindOf(err) {
	case alopeyk.KindValidation:
		return http.StatusBadRequest
	case alopeyk.KindAuth:
		return http.StatusUnauthorized
	case alopeyk.KindTransport, alopeyk.KindDecode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(message string) error {
	return alopeyk.NewError(alopeyk.KindValidation, message)
}

func decodeOrder(r *http.Request) (*alopeyk.Order, error) {
	var order alopeyk.Order
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&order); err != nil {
		return nil, badRequest("invalid order JSON: " + err.Error())
	}
	return &order, nil
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("query parameter %q must be a number", name))
	}
	return v, nil
}

func parseIntParam(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("query parameter %q must be an integer", name))
	}
	return v, nil
}
