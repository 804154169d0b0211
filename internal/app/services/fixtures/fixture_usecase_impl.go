package fixtures

import (
	"context"
	"fmt"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/services/shared/locker"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/utils"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fixtureUsecase struct {
	Clients        contracts.OpenMRSClients
	Locker         contracts.LockerService
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

func NewFixtureUsecase(
	clients contracts.OpenMRSClients,
	lockerService contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.FixtureUsecase {
	return &fixtureUsecase{
		Clients:        clients,
		Locker:         lockerService,
		InternalConfig: internalConfig,
		Log:            logger,
	}
}

// EnsureServiceHasPrices makes sure the service carries a price for the
// configured payment mode. Existing prices are always sent back untouched,
// and the check and append run under a lock so concurrent runners cannot add
// the price twice.
func (uc *fixtureUsecase) EnsureServiceHasPrices(ctx context.Context, serviceUUID string, defaultPrice float64) (*responses.BillableService, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	paymentModeName := uc.InternalConfig.Fixture.PaymentMode
	uc.Log.Info("fixtureUsecase.EnsureServiceHasPrices called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingServiceUUIDKey, serviceUUID),
		zap.Float64(constvars.LoggingPriceKey, defaultPrice),
	)

	lockKey := fmt.Sprintf(constvars.RedisKeyServicePriceLockFormat, serviceUUID)
	lockTTL := time.Duration(uc.InternalConfig.Fixture.PriceLockTTLInSeconds) * time.Second
	pollInterval := time.Duration(uc.InternalConfig.Fixture.PollIntervalInMs) * time.Millisecond
	release, err := locker.Acquire(ctx, uc.Locker, lockKey, lockTTL, pollInterval)
	if err != nil {
		uc.Log.Error("fixtureUsecase.EnsureServiceHasPrices error acquiring price lock",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrFixture(err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.Log.Warn("fixtureUsecase.EnsureServiceHasPrices error releasing price lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
	}()

	service, err := uc.Clients.BillableServices.FindBillableServiceByID(ctx, serviceUUID)
	if err != nil {
		return nil, err
	}

	if _, ok := service.PriceNamed(paymentModeName); ok {
		uc.Log.Info("fixtureUsecase.EnsureServiceHasPrices price already present",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentModeKey, paymentModeName),
		)
		return service, nil
	}

	paymentMode, err := uc.FindPaymentMode(ctx, paymentModeName)
	if err != nil {
		return nil, err
	}

	updatedPrices := make([]requests.ServicePrice, 0, len(service.ServicePrices)+1)
	for _, existing := range service.ServicePrices {
		updatedPrices = append(updatedPrices, requests.ServicePrice{
			UUID:        existing.UUID,
			Name:        existing.Name,
			Price:       requests.NewAmount(existing.Price),
			PaymentMode: existing.PaymentMode.UUID,
		})
	}
	updatedPrices = append(updatedPrices, requests.ServicePrice{
		Name:        paymentModeName,
		Price:       requests.NewAmountFromFloat(defaultPrice),
		PaymentMode: paymentMode.UUID,
	})

	_, err = uc.Clients.BillableServices.UpdateServicePrices(ctx, serviceUUID, &requests.UpdateServicePrices{
		ServicePrices: updatedPrices,
	})
	if err != nil {
		return nil, err
	}

	service, err = uc.Clients.BillableServices.FindBillableServiceByID(ctx, serviceUUID)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("fixtureUsecase.EnsureServiceHasPrices succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(service.ServicePrices)),
	)
	return service, nil
}

func (uc *fixtureUsecase) FindPaymentMode(ctx context.Context, name string) (*responses.PaymentMode, error) {
	paymentModes, err := uc.Clients.PaymentModes.ListPaymentModes(ctx)
	if err != nil {
		return nil, err
	}
	if mode, ok := paymentModeNamed(paymentModes, name); ok {
		return mode, nil
	}
	return nil, exceptions.ErrPaymentModeNotFound(name)
}

func (uc *fixtureUsecase) EnsurePaymentMode(ctx context.Context, name, description string) (*responses.PaymentMode, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("fixtureUsecase.EnsurePaymentMode called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentModeKey, name),
	)

	paymentModes, err := uc.Clients.PaymentModes.ListPaymentModes(ctx)
	if err != nil {
		return nil, err
	}
	if mode, ok := paymentModeNamed(paymentModes, name); ok {
		return mode, nil
	}

	request := &requests.CreatePaymentMode{Name: name, Description: description}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	created, err := uc.Clients.PaymentModes.CreatePaymentMode(ctx, request)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("fixtureUsecase.EnsurePaymentMode created payment mode",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentModeKey, created.UUID),
	)
	return created, nil
}

func paymentModeNamed(paymentModes []responses.PaymentMode, name string) (*responses.PaymentMode, bool) {
	for i := range paymentModes {
		if paymentModes[i].Name == name {
			return &paymentModes[i], true
		}
	}
	return nil, false
}

// GenerateRandomPatient reserves an identifier before creating the patient;
// identifiers are never invented on this side.
func (uc *fixtureUsecase) GenerateRandomPatient(ctx context.Context, locationUUID string) (*responses.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("fixtureUsecase.GenerateRandomPatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	identifier, err := uc.Clients.Identifiers.GenerateIdentifier(ctx, uc.InternalConfig.OpenMRS.IdentifierSourceUUID)
	if err != nil {
		return nil, err
	}

	if locationUUID == "" {
		locationUUID = uc.InternalConfig.OpenMRS.DefaultLocationUUID
	}

	request := &requests.CreatePatient{
		Identifiers: []requests.PatientIdentifier{
			{
				Identifier:     identifier,
				IdentifierType: uc.InternalConfig.OpenMRS.IdentifierTypeUUID,
				Location:       locationUUID,
				Preferred:      true,
			},
		},
		Person: requests.PatientPerson{
			Addresses: []requests.PersonAddress{
				{
					Address1:      constvars.TestPatientAddress1,
					CityVillage:   constvars.TestPatientCityVillage,
					StateProvince: constvars.TestPatientStateProvince,
					PostalCode:    constvars.TestPatientPostalCode,
					Country:       constvars.TestPatientCountry,
				},
			},
			Attributes: []interface{}{},
			Birthdate:  constvars.TestPatientBirthdate,
			Gender:     constvars.TestPatientGender,
			Names: []requests.PersonName{
				{
					GivenName:  utils.GenerateRandomName(constvars.TestPatientGivenNamePrefix, constvars.TestPatientRandomNameBound),
					FamilyName: utils.GenerateRandomName(constvars.TestPatientFamilyNamePrefix, constvars.TestPatientRandomNameBound),
					Preferred:  true,
				},
			},
		},
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	patient, err := uc.Clients.Patients.CreatePatient(ctx, request)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("fixtureUsecase.GenerateRandomPatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientUUIDKey, patient.UUID),
	)
	return patient, nil
}

// ResolveCashier returns the uuid of the authenticated user.
func (uc *fixtureUsecase) ResolveCashier(ctx context.Context) (string, error) {
	session, err := uc.Clients.Sessions.GetSession(ctx)
	if err != nil {
		return "", err
	}
	if session.User == nil || session.User.UUID == "" {
		return "", exceptions.ErrSessionNotAuthenticated()
	}
	return session.User.UUID, nil
}

// CreatePendingBill seeds a PENDING bill with one line item for the first
// billable service, at the first cash point, with the session user as cashier.
func (uc *fixtureUsecase) CreatePendingBill(ctx context.Context, patientUUID string) (*responses.SeededBill, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("fixtureUsecase.CreatePendingBill called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientUUIDKey, patientUUID),
	)

	cashPoints, err := uc.Clients.CashPoints.ListCashPoints(ctx)
	if err != nil {
		return nil, err
	}
	if len(cashPoints) == 0 {
		return nil, exceptions.ErrNoCashPoints()
	}

	cashierUUID, err := uc.ResolveCashier(ctx)
	if err != nil {
		return nil, err
	}

	services, err := uc.Clients.BillableServices.ListBillableServices(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, exceptions.ErrNoBillableServices()
	}

	service := services[0]
	lineItem := requests.BillLineItem{
		BillableService: service.UUID,
		Quantity:        constvars.DefaultLineItemQuantity,
		Price:           requests.NewAmountFromFloat(constvars.DefaultLineItemPrice),
		PriceName:       constvars.DefaultLineItemPriceName,
		Item:            service.Name,
		PaymentStatus:   constvars.BillStatusPending,
	}
	if len(service.ServicePrices) > 0 {
		firstPrice := service.ServicePrices[0]
		if !firstPrice.Price.IsZero() {
			lineItem.Price = requests.NewAmount(firstPrice.Price)
		}
		if firstPrice.Name != "" {
			lineItem.PriceName = firstPrice.Name
		}
		lineItem.PriceUUID = firstPrice.UUID
	}

	request := &requests.CreateBill{
		CashPoint: cashPoints[0].UUID,
		Cashier:   cashierUUID,
		Patient:   patientUUID,
		Status:    constvars.BillStatusPending,
		LineItems: []requests.BillLineItem{lineItem},
		Payments:  []requests.BillPaymentItem{},
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	bill, err := uc.Clients.Bills.CreateBill(ctx, request)
	if err != nil {
		return nil, err
	}

	seeded := &responses.SeededBill{
		UUID:          bill.UUID,
		ReceiptNumber: bill.ReceiptNumber,
		Total:         lineItem.Price.Mul(decimal.NewFromInt(int64(lineItem.Quantity))),
		ServiceName:   service.Name,
	}
	uc.Log.Info("fixtureUsecase.CreatePendingBill succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBillUUIDKey, seeded.UUID),
		zap.String(constvars.LoggingPriceKey, seeded.Total.String()),
	)
	return seeded, nil
}

func (uc *fixtureUsecase) BillableService(ctx context.Context, serviceUUID string) (*responses.BillableService, error) {
	return uc.Clients.BillableServices.FindBillableServiceByID(ctx, serviceUUID)
}

func (uc *fixtureUsecase) GetBill(ctx context.Context, billUUID string) (*responses.Bill, error) {
	return uc.Clients.Bills.FindBillByID(ctx, billUUID, true)
}

func (uc *fixtureUsecase) ListBills(ctx context.Context, patientUUID string) ([]responses.Bill, error) {
	return uc.Clients.Bills.ListBillsByPatient(ctx, patientUUID)
}

// LatestBillForPatient returns the most recently created bill of the
// patient, which is how a bill saved through the UI is found again. Without
// creation dates the first listed bill is used, as the API lists newest
// first.
func (uc *fixtureUsecase) LatestBillForPatient(ctx context.Context, patientUUID string) (*responses.Bill, error) {
	bills, err := uc.ListBills(ctx, patientUUID)
	if err != nil {
		return nil, err
	}
	latest, ok := responses.Newest(bills)
	if !ok {
		return nil, exceptions.ErrNoBillsForPatient(patientUUID)
	}
	return &latest, nil
}
