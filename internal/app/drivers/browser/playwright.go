package browser

import (
	"log"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/pkg/exceptions"

	"github.com/playwright-community/playwright-go"
)

// NewPlaywright starts the playwright driver and launches Chromium. The
// returned stop function closes the browser and then the driver.
func NewPlaywright(internalConfig *config.InternalConfig) (playwright.Browser, func() error, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, nil, exceptions.ErrBrowserLaunch(err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(internalConfig.Browser.Headless),
		SlowMo:   playwright.Float(internalConfig.Browser.SlowMoInMs),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, nil, exceptions.ErrBrowserLaunch(err)
	}

	log.Printf("Successfully launched chromium %s", browser.Version())

	stop := func() error {
		if err := browser.Close(); err != nil {
			return err
		}
		return pw.Stop()
	}
	return browser, stop, nil
}
