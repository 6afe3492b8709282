// Package browser drives Chromium through Playwright.
//
// A Driver launches browsers with a remote debugging port and reattaches to
// them over CDP, implementing session.Launcher. Session and Page adapt the
// Playwright browser and page to session.Browser and session.Page; all
// element access goes through locators so selectors re-resolve on every
// call.
package browser
