package pages

import (
	"context"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/exceptions"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

type sessionPageFactory struct {
	Browser        playwright.Browser
	Sessions       contracts.SessionClient
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

// NewSessionPageFactory logs every new browser context in by reusing a REST
// session: the session id is set as the JSESSIONID cookie after the session
// location has been chosen, so the SPA starts past the login screen.
func NewSessionPageFactory(
	browser playwright.Browser,
	sessions contracts.SessionClient,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PageFactory {
	return &sessionPageFactory{
		Browser:        browser,
		Sessions:       sessions,
		InternalConfig: internalConfig,
		Log:            logger,
	}
}

func (f *sessionPageFactory) NewPage(ctx context.Context) (playwright.Page, func() error, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	session, err := f.Sessions.GetSession(ctx)
	if err != nil {
		return nil, nil, err
	}

	if f.InternalConfig.OpenMRS.DefaultLocationUUID != "" {
		_, err = f.Sessions.SetSessionLocation(ctx, session.SessionID, &requests.SetSessionLocation{
			SessionLocation: f.InternalConfig.OpenMRS.DefaultLocationUUID,
			Locale:          constvars.DefaultLocale,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	browserContext, err := f.Browser.NewContext(playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(f.InternalConfig.OpenMRS.SpaUrl),
	})
	if err != nil {
		return nil, nil, exceptions.ErrBrowserAction(err, "new context")
	}
	closeContext := func() error {
		return browserContext.Close()
	}

	err = browserContext.AddCookies([]playwright.OptionalCookie{
		{
			Name:  constvars.SessionCookieName,
			Value: session.SessionID,
			URL:   playwright.String(f.InternalConfig.OpenMRS.SpaUrl),
		},
	})
	if err != nil {
		_ = closeContext()
		return nil, nil, exceptions.ErrBrowserAction(err, "add session cookie")
	}
	browserContext.SetDefaultTimeout(f.InternalConfig.Browser.DefaultTimeoutInMs)

	page, err := browserContext.NewPage()
	if err != nil {
		_ = closeContext()
		return nil, nil, exceptions.ErrBrowserAction(err, "new page")
	}

	f.Log.Debug("sessionPageFactory.NewPage succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return page, closeContext, nil
}
