// Package translate formats user visible messages for the current locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// fallback is used when the system reports no locale.
var fallback = language.AmericanEnglish

var printer = newPrinter()

func newPrinter() *message.Printer {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("translate: %v", err)
	}
	if len(locales) == 0 {
		return message.NewPrinter(fallback)
	}
	return message.NewPrinter(message.MatchLanguage(locales...))
}

// From formats an en-US Sprintf style message in the current locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
