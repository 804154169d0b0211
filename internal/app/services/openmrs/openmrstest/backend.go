// Package openmrstest serves the OpenMRS REST resources used by the fixtures
// from memory, so clients and usecases can be tested without a server.
package openmrstest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RestPath    = "/openmrs/ws/rest/v1/"
	SessionID   = "E2E-SESSION"
	CashierUUID = "6a1b4e3f-0000-4000-8000-00000000ca5e"
)

// RecordedRequest is one call the backend received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
	Auth   bool
	Cookie string
}

type failure struct {
	status int
	body   string
}

type Backend struct {
	Server *httptest.Server
	Prefix string

	mu              sync.Mutex
	services        map[string]*responses.BillableService
	serviceOrder    []string
	paymentModes    []responses.PaymentMode
	cashPoints      []responses.CashPoint
	patients        map[string]*responses.Patient
	bills           map[string]*responses.Bill
	billOrder       []string
	identifierCount int
	failures        map[string]failure
	requests        []RecordedRequest
}

// New starts a backend whose billing resources live under prefix.
func New(prefix string) *Backend {
	b := &Backend{
		Prefix:   prefix,
		services: make(map[string]*responses.BillableService),
		patients: make(map[string]*responses.Patient),
		bills:    make(map[string]*responses.Bill),
		failures: make(map[string]failure),
	}
	b.Server = httptest.NewServer(b.routes())
	return b
}

func (b *Backend) Close() {
	b.Server.Close()
}

// URL is the REST base URL clients are configured with.
func (b *Backend) URL() string {
	return b.Server.URL + RestPath
}

// Fail makes every request matching method and path suffix answer status
// with body until ClearFailures is called.
func (b *Backend) Fail(method, pathSuffix string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+pathSuffix] = failure{status: status, body: body}
}

func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]failure)
}

func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// CountRequests counts received requests with method whose path ends with suffix.
func (b *Backend) CountRequests(method, pathSuffix string) int {
	count := 0
	for _, request := range b.Requests() {
		if request.Method == method && strings.HasSuffix(request.Path, pathSuffix) {
			count++
		}
	}
	return count
}

func (b *Backend) AddPaymentMode(name string) responses.PaymentMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	mode := responses.PaymentMode{UUID: uuid.NewString(), Name: name}
	b.paymentModes = append(b.paymentModes, mode)
	return mode
}

func (b *Backend) AddCashPoint(name string) responses.CashPoint {
	b.mu.Lock()
	defer b.mu.Unlock()
	cashPoint := responses.CashPoint{UUID: uuid.NewString(), Name: name}
	b.cashPoints = append(b.cashPoints, cashPoint)
	return cashPoint
}

func (b *Backend) AddService(service responses.BillableService) responses.BillableService {
	b.mu.Lock()
	defer b.mu.Unlock()
	if service.UUID == "" {
		service.UUID = uuid.NewString()
	}
	copied := service
	copied.ServicePrices = append([]responses.ServicePrice(nil), service.ServicePrices...)
	b.services[service.UUID] = &copied
	b.serviceOrder = append(b.serviceOrder, service.UUID)
	return copied
}

func (b *Backend) Service(serviceUUID string) (responses.BillableService, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	service, ok := b.services[serviceUUID]
	if !ok {
		return responses.BillableService{}, false
	}
	return *service, true
}

func (b *Backend) AddPatient(givenName, familyName string) responses.Patient {
	b.mu.Lock()
	defer b.mu.Unlock()
	patient := responses.Patient{
		UUID: uuid.NewString(),
		Person: responses.Person{
			Display: givenName + " " + familyName,
			Names:   []responses.PersonName{{GivenName: givenName, FamilyName: familyName, Preferred: true}},
		},
	}
	b.patients[patient.UUID] = &patient
	return patient
}

func (b *Backend) Patient(patientUUID string) (responses.Patient, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	patient, ok := b.patients[patientUUID]
	if !ok {
		return responses.Patient{}, false
	}
	return *patient, true
}

func (b *Backend) AddBill(bill responses.Bill) responses.Bill {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bill.UUID == "" {
		bill.UUID = uuid.NewString()
	}
	b.storeBill(&bill)
	return bill
}

func (b *Backend) Bill(billUUID string) (responses.Bill, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bill, ok := b.bills[billUUID]
	if !ok {
		return responses.Bill{}, false
	}
	return *bill, true
}

func (b *Backend) storeBill(bill *responses.Bill) {
	if _, exists := b.bills[bill.UUID]; !exists {
		b.billOrder = append(b.billOrder, bill.UUID)
	}
	b.bills[bill.UUID] = bill
}

func (b *Backend) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(b.record)
	router.Use(b.injectFailures)

	router.Route(strings.TrimSuffix(RestPath, "/"), func(r chi.Router) {
		r.Post("/"+constvars.ResourceIdentifierSource+"/{sourceUUID}/"+constvars.ResourceIdentifier, b.generateIdentifier)

		r.Post("/"+constvars.ResourcePatient, b.createPatient)
		r.Get("/"+constvars.ResourcePatient+"/{uuid}", b.getPatient)
		r.Delete("/"+constvars.ResourcePatient+"/{uuid}", b.deletePatient)

		r.Get("/"+constvars.ResourceSession, b.getSession)
		r.Post("/"+constvars.ResourceSession, b.setSession)

		r.Route("/"+b.Prefix, func(r chi.Router) {
			r.Get("/"+constvars.ResourceBillableService, b.listServices)
			r.Get("/"+constvars.ResourceBillableService+"/{uuid}", b.getService)
			r.Post("/"+constvars.ResourceBillableService+"/{uuid}", b.updateService)

			r.Get("/"+constvars.ResourcePaymentMode, b.listPaymentModes)
			r.Post("/"+constvars.ResourcePaymentMode, b.createPaymentMode)

			r.Get("/"+constvars.ResourceCashPoint, b.listCashPoints)

			r.Get("/"+constvars.ResourceBill, b.listBills)
			r.Post("/"+constvars.ResourceBill, b.createBill)
			r.Get("/"+constvars.ResourceBill+"/{uuid}", b.getBill)
			r.Delete("/"+constvars.ResourceBill+"/{uuid}", b.deleteBill)
		})
	})
	return router
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = readAll(r)
		}
		_, _, hasAuth := r.BasicAuth()
		cookie := ""
		if c, err := r.Cookie(constvars.SessionCookieName); err == nil {
			cookie = c.Value
		}
		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(body),
			Auth:   hasAuth,
			Cookie: cookie,
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		var matched *failure
		for key, f := range b.failures {
			method, suffix, _ := strings.Cut(key, " ")
			if method == r.Method && strings.HasSuffix(r.URL.Path, suffix) {
				f := f
				matched = &f
				break
			}
		}
		b.mu.Unlock()
		if matched != nil {
			w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
			w.WriteHeader(matched.status)
			_, _ = w.Write([]byte(matched.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) generateIdentifier(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.identifierCount++
	identifier := fmt.Sprintf("E2E%05d", b.identifierCount)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, responses.GeneratedIdentifier{Identifier: identifier})
}

func (b *Backend) createPatient(w http.ResponseWriter, r *http.Request) {
	var request requests.CreatePatient
	if !decode(w, r, &request) {
		return
	}

	patient := responses.Patient{
		UUID: uuid.NewString(),
		Person: responses.Person{
			UUID:      uuid.NewString(),
			Gender:    request.Person.Gender,
			Birthdate: request.Person.Birthdate,
		},
	}
	for _, name := range request.Person.Names {
		patient.Person.Names = append(patient.Person.Names, responses.PersonName{
			GivenName:  name.GivenName,
			MiddleName: name.MiddleName,
			FamilyName: name.FamilyName,
			Preferred:  name.Preferred,
		})
	}
	patient.Person.Display = patient.FullName()
	for _, identifier := range request.Identifiers {
		patient.Identifiers = append(patient.Identifiers, responses.PatientIdentifier{
			Identifier:     identifier.Identifier,
			IdentifierType: responses.ResourceRef{UUID: identifier.IdentifierType},
			Location:       responses.ResourceRef{UUID: identifier.Location},
			Preferred:      identifier.Preferred,
		})
	}
	patient.Display = patient.Person.Display

	b.mu.Lock()
	b.patients[patient.UUID] = &patient
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, patient)
}

func (b *Backend) getPatient(w http.ResponseWriter, r *http.Request) {
	patient, ok := b.Patient(chi.URLParam(r, "uuid"))
	if !ok {
		writeError(w, http.StatusNotFound, "Object with given uuid doesn't exist")
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

func (b *Backend) deletePatient(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	patientUUID := chi.URLParam(r, "uuid")
	if _, ok := b.patients[patientUUID]; !ok {
		writeError(w, http.StatusNotFound, "Object with given uuid doesn't exist")
		return
	}
	delete(b.patients, patientUUID)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) getSession(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := r.BasicAuth(); !ok {
		writeJSON(w, http.StatusOK, responses.Session{Authenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, responses.Session{
		SessionID:     SessionID,
		Authenticated: true,
		User:          &responses.SessionUser{UUID: CashierUUID, Display: "admin", Username: "admin"},
	})
}

func (b *Backend) setSession(w http.ResponseWriter, r *http.Request) {
	var request requests.SetSessionLocation
	if !decode(w, r, &request) {
		return
	}
	writeJSON(w, http.StatusOK, responses.Session{
		SessionID:       SessionID,
		Authenticated:   true,
		User:            &responses.SessionUser{UUID: CashierUUID, Display: "admin", Username: "admin"},
		SessionLocation: &responses.ResourceRef{UUID: request.SessionLocation},
		Locale:          request.Locale,
	})
}

func (b *Backend) listServices(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	results := make([]responses.BillableService, 0, len(b.serviceOrder))
	for _, serviceUUID := range b.serviceOrder {
		results = append(results, *b.services[serviceUUID])
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, responses.ListResponse[responses.BillableService]{Results: results})
}

func (b *Backend) getService(w http.ResponseWriter, r *http.Request) {
	service, ok := b.Service(chi.URLParam(r, "uuid"))
	if !ok {
		writeError(w, http.StatusNotFound, "Object with given uuid doesn't exist")
		return
	}
	writeJSON(w, http.StatusOK, service)
}

// updateService replaces the price list, resolving payment modes by uuid
// the way the billing module does.
func (b *Backend) updateService(w http.ResponseWriter, r *http.Request) {
	var request requests.UpdateServicePrices
	if !decode(w, r, &request) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	service, ok := b.services[chi.URLParam(r, "uuid")]
	if !ok {
		writeError(w, http.StatusNotFound, "Object with given uuid doesn't exist")
		return
	}

	prices := make([]responses.ServicePrice, 0, len(request.ServicePrices))
	for _, price := range request.ServicePrices {
		mode := responses.ResourceRef{UUID: price.PaymentMode}
		for _, known := range b.paymentModes {
			if known.UUID == price.PaymentMode {
				mode.Name = known.Name
			}
		}
		priceUUID := price.UUID
		if priceUUID == "" {
			priceUUID = uuid.NewString()
		}
		prices = append(prices, responses.ServicePrice{
			UUID:        priceUUID,
			Name:        price.Name,
			Price:       price.Price.Decimal,
			PaymentMode: mode,
		})
	}
	service.ServicePrices = prices
	writeJSON(w, http.StatusOK, service)
}

func (b *Backend) listPaymentModes(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	results := append([]responses.PaymentMode{}, b.paymentModes...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, responses.ListResponse[responses.PaymentMode]{Results: results})
}

func (b *Backend) createPaymentMode(w http.ResponseWriter, r *http.Request) {
	var request requests.CreatePaymentMode
	if !decode(w, r, &request) {
		return
	}
	b.mu.Lock()
	mode := responses.PaymentMode{UUID: uuid.NewString(), Name: request.Name, Description: request.Description}
	b.paymentModes = append(b.paymentModes, mode)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, mode)
}

func (b *Backend) listCashPoints(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	results := append([]responses.CashPoint{}, b.cashPoints...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, responses.ListResponse[responses.CashPoint]{Results: results})
}

func (b *Backend) listBills(w http.ResponseWriter, r *http.Request) {
	patientUUID := r.URL.Query().Get(constvars.QueryParamPatient)
	b.mu.Lock()
	results := make([]responses.Bill, 0)
	for _, billUUID := range b.billOrder {
		bill, ok := b.bills[billUUID]
		if !ok {
			continue
		}
		if patientUUID == "" || bill.Patient.UUID == patientUUID {
			results = append(results, *bill)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, responses.ListResponse[responses.Bill]{Results: results})
}

func (b *Backend) createBill(w http.ResponseWriter, r *http.Request) {
	var request requests.CreateBill
	if !decode(w, r, &request) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	bill := responses.Bill{
		UUID:          uuid.NewString(),
		ReceiptNumber: fmt.Sprintf("0%d-%d", len(b.billOrder)+1, len(b.billOrder)+1),
		Status:        request.Status,
		Patient:       responses.ResourceRef{UUID: request.Patient},
		CashPoint:     responses.ResourceRef{UUID: request.CashPoint},
		Cashier:       responses.ResourceRef{UUID: request.Cashier},
		LineItems:     []responses.LineItem{},
		Payments:      []responses.Payment{},
		DateCreated:   time.Now().Format(responses.OpenMRSDateLayout),
	}
	if patient, ok := b.patients[request.Patient]; ok {
		bill.Patient.Display = patient.FullName()
	}
	for i, item := range request.LineItems {
		bill.LineItems = append(bill.LineItems, responses.LineItem{
			UUID:            uuid.NewString(),
			Item:            item.Item,
			BillableService: responses.ResourceRef{UUID: item.BillableService},
			Quantity:        item.Quantity,
			Price:           item.Price.Decimal,
			PriceName:       item.PriceName,
			PriceUUID:       item.PriceUUID,
			LineItemOrder:   i,
			PaymentStatus:   item.PaymentStatus,
		})
	}
	for _, payment := range request.Payments {
		bill.Payments = append(bill.Payments, responses.Payment{
			UUID:           uuid.NewString(),
			InstanceType:   responses.ResourceRef{UUID: payment.InstanceType},
			Amount:         payment.Amount.Decimal,
			AmountTendered: payment.AmountTendered.Decimal,
		})
	}
	settle(&bill)
	b.storeBill(&bill)
	writeJSON(w, http.StatusCreated, bill)
}

func (b *Backend) getBill(w http.ResponseWriter, r *http.Request) {
	bill, ok := b.Bill(chi.URLParam(r, "uuid"))
	if !ok {
		writeError(w, http.StatusNotFound, "Object with given uuid doesn't exist")
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (b *Backend) deleteBill(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	billUUID := chi.URLParam(r, "uuid")
	if _, ok := b.bills[billUUID]; !ok {
		writeError(w, http.StatusNotFound, "Object with given uuid doesn't exist")
		return
	}
	delete(b.bills, billUUID)
	w.WriteHeader(http.StatusNoContent)
}

// settle applies the billing module rule: a bill is PAID once the tendered
// amount covers the total, otherwise it stays as submitted.
func settle(bill *responses.Bill) {
	if len(bill.Payments) == 0 {
		return
	}
	if bill.Tendered().GreaterThanOrEqual(bill.Total()) && bill.Total().GreaterThan(decimal.Zero) {
		bill.Status = constvars.BillStatusPaid
		for i := range bill.LineItems {
			bill.LineItems[i].PaymentStatus = constvars.BillStatusPaid
		}
	}
}

func decode(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	body, err := readAll(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := json.Unmarshal(body, out); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{"message": message},
	})
}
