package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// fakeAPI routes requests to per-path handlers and counts hits.
type fakeAPI struct {
	hits   atomic.Int32
	routes map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T, routes map[string]http.HandlerFunc) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		h, ok := f.routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"route not found"}`)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestSearchTripsSendsQueryAndHandlesEmpty(t *testing.T) {
	var gotQuery map[string]string
	_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /trips": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			gotQuery = map[string]string{"from": q.Get("from"), "to": q.Get("to"), "date": q.Get("date")}
			writeJSON(w, http.StatusOK, `{"message":"ok","data":[]}`)
		},
	})
	c := New(srv.URL, nil)

	trips, err := c.SearchTrips(context.Background(), TripQuery{From: "Hà Nội", To: "Sài Gòn", Date: "2024-06-01"})
	if err != nil {
		t.Fatalf("SearchTrips: %v", err)
	}
	if trips == nil || len(trips) != 0 {
		t.Fatalf("trips = %#v, want empty non-nil slice", trips)
	}
	want := map[string]string{"from": "Hà Nội", "to": "Sài Gòn", "date": "2024-06-01"}
	if !reflect.DeepEqual(gotQuery, want) {
		t.Fatalf("query = %v, want %v", gotQuery, want)
	}
}

func TestSearchTripsMissingDataIsEmpty(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /trips": func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, `{"message":"none"}`) },
	})
	trips, err := New(srv.URL, nil).SearchTrips(context.Background(), TripQuery{From: "A"})
	if err != nil || len(trips) != 0 {
		t.Fatalf("SearchTrips = %v, %v", trips, err)
	}
}

func TestGetAllTripsDecodesCatalog(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /trips": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				t.Errorf("unexpected query %q", r.URL.RawQuery)
			}
			writeJSON(w, http.StatusOK, `{"data":[{"id":"T1","companyName":"Phương Trang","route":{"from":{"name":"Hà Nội"},"to":{"name":"Sài Gòn"}},"price":350000,"seats":[{"seatNumber":"A1","status":"available"}],"availableSeats":1}]}`)
		},
	})
	trips, err := New(srv.URL, nil).GetAllTrips(context.Background())
	if err != nil {
		t.Fatalf("GetAllTrips: %v", err)
	}
	if len(trips) != 1 || trips[0].ID != "T1" || trips[0].Route.To.Name != "Sài Gòn" || trips[0].Price != 350000 {
		t.Fatalf("trips = %+v", trips)
	}
}

func TestGetTripDetailsNotFoundIsAbsent(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /trips/T404": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, `{"error":"không tìm thấy chuyến đi"}`)
		},
		"GET /trips/T0": func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, `{"message":"ok"}`) },
	})
	c := New(srv.URL, nil)
	for _, id := range []string{"T404", "T0", ""} {
		trip, err := c.GetTripDetails(context.Background(), id)
		if err != nil || trip != nil {
			t.Errorf("GetTripDetails(%q) = %v, %v; want nil, nil", id, trip, err)
		}
	}
}

func TestTransportFailureIsStructured(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(srv.URL, nil).GetTripDetails(context.Background(), "T1")
	if !IsTransport(err) {
		t.Fatalf("err = %v, want transport error", err)
	}
	if UserMessage(err) != MsgTransport {
		t.Fatalf("UserMessage = %q", UserMessage(err))
	}
}

func TestBearerTokenAttachedPerRequest(t *testing.T) {
	var seen []string
	_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /bookings/my": func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, `{"data":[]}`)
		},
	})
	tok := &switchableToken{}
	c := New(srv.URL, tok)

	_, _ = c.GetMyBookings(context.Background())
	tok.v = "abc"
	_, _ = c.GetMyBookings(context.Background())
	tok.v = ""
	_, _ = c.GetMyBookings(context.Background())

	want := []string{"", "Bearer abc", ""}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("Authorization headers = %q, want %q", seen, want)
	}
}

type switchableToken struct{ v string }

func (s *switchableToken) Token() string { return s.v }

func TestCreateBookingEmptySeatsMakesNoRequest(t *testing.T) {
	api, srv := newFakeAPI(t, map[string]http.HandlerFunc{})
	_, err := New(srv.URL, staticToken("t")).CreateBooking(context.Background(), CreateBookingRequest{TripID: "T1"})
	if !errors.Is(err, ErrNoSeats) {
		t.Fatalf("err = %v, want ErrNoSeats", err)
	}
	if n := api.hits.Load(); n != 0 {
		t.Fatalf("server hit %d times", n)
	}
}

func TestCreateBookingSuccessByID(t *testing.T) {
	var body CreateBookingRequest
	_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /bookings": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&body)
			writeJSON(w, http.StatusCreated, `{"message":"Giữ chỗ thành công!","data":{"id":"B1","status":"held","totalAmount":700000}}`)
		},
	})
	b, err := New(srv.URL, staticToken("t")).CreateBooking(context.Background(), CreateBookingRequest{TripID: "T1", SeatNumbers: []string{"A1", "A2"}})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.ID != "B1" {
		t.Fatalf("booking id = %q", b.ID)
	}
	if body.TripID != "T1" || !reflect.DeepEqual(body.SeatNumbers, []string{"A1", "A2"}) {
		t.Fatalf("request body = %+v", body)
	}
}

func TestCreateBookingRejectionIsVerbatim(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		want   string
	}{
		"error only":        {http.StatusConflict, `{"error":"Seat A1 already taken"}`, "Seat A1 already taken"},
		"ok without id":     {http.StatusOK, `{"message":"hold pending","data":{}}`, "hold pending"},
		"status ignored":    {http.StatusCreated, `{"error":"Seat A1 already taken"}`, "Seat A1 already taken"},
		"nothing explained": {http.StatusBadRequest, `{}`, MsgHoldFailed},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
				"POST /bookings": func(w http.ResponseWriter, r *http.Request) { writeJSON(w, tc.status, tc.body) },
			})
			_, err := New(srv.URL, staticToken("t")).CreateBooking(context.Background(), CreateBookingRequest{TripID: "T1", SeatNumbers: []string{"A1"}})
			if !IsRejected(err) {
				t.Fatalf("err = %v, want rejection", err)
			}
			if got := UserMessage(err); got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCreateBookingUnauthorized(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /bookings": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, `{"error":"token hết hạn"}`)
		},
	})
	_, err := New(srv.URL, staticToken("old")).CreateBooking(context.Background(), CreateBookingRequest{TripID: "T1", SeatNumbers: []string{"A1"}})
	if !IsUnauthorized(err) || UserMessage(err) != "token hết hạn" {
		t.Fatalf("err = %v", err)
	}
}

func TestGetBookingDetails(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /bookings/B1": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"data":{"id":"B1","status":"confirmed","ticketCode":"VX-8812","passengers":[{"seatNumber":"A1"},{"seatNumber":"A2"}]}}`)
		},
		"GET /bookings/B2": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"error":"không có quyền xem"}`)
		},
		"GET /bookings/B3": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `oops`)
		},
	})
	c := New(srv.URL, staticToken("t"))

	b, err := c.GetBookingDetails(context.Background(), "B1")
	if err != nil || b == nil || b.TicketCode != "VX-8812" {
		t.Fatalf("B1 = %+v, %v", b, err)
	}
	if got := b.SeatNumbers(); !reflect.DeepEqual(got, []string{"A1", "A2"}) {
		t.Fatalf("SeatNumbers = %v", got)
	}

	b, err = c.GetBookingDetails(context.Background(), "B2")
	if err != nil || b != nil {
		t.Fatalf("B2 = %+v, %v; want absent", b, err)
	}

	_, err = c.GetBookingDetails(context.Background(), "B3")
	if KindOf(err) != KindServer {
		t.Fatalf("B3 err = %v, want server error", err)
	}
}

func TestGetMyBookingsUnauthorized(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /bookings/my": func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusUnauthorized, `{}`) },
	})
	_, err := New(srv.URL, nil).GetMyBookings(context.Background())
	if !IsUnauthorized(err) || UserMessage(err) != MsgUnauthorized {
		t.Fatalf("err = %v", err)
	}
}

func TestLogin(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /auth/login": func(w http.ResponseWriter, r *http.Request) {
			var req loginRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Password != "secret" {
				writeJSON(w, http.StatusUnauthorized, `{"error":"Email hoặc mật khẩu không đúng"}`)
				return
			}
			writeJSON(w, http.StatusOK, `{"message":"Đăng nhập thành công","token":"jwt-1","data":{"id":"U1","email":"an@example.com"}}`)
		},
	})
	c := New(srv.URL, nil)

	resp, err := c.Login(context.Background(), "an@example.com", "secret")
	if err != nil || resp.Token != "jwt-1" || resp.User == nil || resp.User.ID != "U1" {
		t.Fatalf("Login = %+v, %v", resp, err)
	}

	_, err = c.Login(context.Background(), "an@example.com", "wrong")
	if !IsRejected(err) || UserMessage(err) != "Email hoặc mật khẩu không đúng" {
		t.Fatalf("bad password err = %v", err)
	}
}

func TestRegister(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /auth/register": func(w http.ResponseWriter, r *http.Request) {
			var req RegisterRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Email == "taken@example.com" {
				writeJSON(w, http.StatusConflict, `{"error":"Email đã tồn tại"}`)
				return
			}
			writeJSON(w, http.StatusCreated, `{"data":{"id":"U2","name":"`+req.Name+`"}}`)
		},
	})
	c := New(srv.URL, nil)

	resp, err := c.Register(context.Background(), RegisterRequest{Name: "Bình", Email: "binh@example.com", Password: "x"})
	if err != nil || resp.Message != MsgRegisterOK || resp.User.Name != "Bình" {
		t.Fatalf("Register = %+v, %v", resp, err)
	}
	_, err = c.Register(context.Background(), RegisterRequest{Email: "taken@example.com"})
	if UserMessage(err) != "Email đã tồn tại" {
		t.Fatalf("duplicate err = %v", err)
	}
}
