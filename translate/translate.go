// Package translate localizes the error and diagnostic text of the machine
// packages. Format strings are written in en-US and looked up in the message
// catalog of the first matching user locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("umips: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// SetLanguage replaces the printer, for tools and tests that need a fixed
// output language regardless of the host locale.
func SetLanguage(tag language.Tag) {
	printer = message.NewPrinter(tag)
}
