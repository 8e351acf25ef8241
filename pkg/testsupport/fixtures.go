package testsupport

import (
	"context"
	"testing"

	"github.com/goliatone/go-siteform/pkg/dom"
)

// ContactPageURL is the location used for the contact fixture.
const ContactPageURL = "https://www.example.nl/contact.html"

// ContactPage is a trimmed copy of the site's contact page: header with the
// main navigation, the contact form with its honeypot, and a few images.
const ContactPage = `<!doctype html>
<html lang="nl">
<head><title>Contact</title></head>
<body>
<header class="l-header">
  <nav class="c-nav" id="main-nav">
    <a class="c-logo" href="/"><img class="c-logo__img" src="/img/logo.svg" alt="logo"></a>
    <button class="c-nav__toggle" aria-expanded="false">Menu</button>
    <ul class="c-nav__list">
      <li><a class="c-nav__link" href="/">Home</a></li>
      <li><a class="c-nav__link" href="/diensten/">Diensten</a></li>
      <li><a class="c-nav__link" href="/contact.html">Contact</a></li>
      <li><a class="c-nav__link" href="#section-team">Team</a></li>
    </ul>
  </nav>
</header>
<main>
  <img src="/img/office.jpg" alt="kantoor">
  <img src="/img/hero.jpg" alt="hero" data-critical>
  <video src="/media/intro.mp4"></video>
  <form id="contactForm" class="c-form" action="process.php" method="post">
    <div class="c-form__group">
      <label for="firstName">Voornaam</label>
      <input id="firstName" name="firstName" type="text" required>
    </div>
    <div class="c-form__group">
      <label for="lastName">Achternaam</label>
      <input id="lastName" name="lastName" type="text" required>
    </div>
    <div class="c-form__group">
      <label for="email">E-mail</label>
      <input id="email" name="email" type="email" required>
    </div>
    <div class="c-form__group">
      <label for="phone">Telefoon</label>
      <input id="phone" name="phone" type="tel">
    </div>
    <div class="c-form__group">
      <label for="message">Bericht</label>
      <textarea id="message" name="message" required></textarea>
    </div>
    <div class="form-check">
      <input id="privacy" name="privacy" type="checkbox" class="form-check-input" required>
      <label for="privacy" class="form-check-label">Ik ga akkoord met de privacyverklaring</label>
    </div>
    <div class="u-hidden" aria-hidden="true">
      <input name="website" type="text" tabindex="-1" autocomplete="off">
    </div>
    <button type="submit" class="c-button">Verstuur bericht</button>
  </form>
</main>
</body>
</html>`

// ContactValues fills every contact form field with valid input.
var ContactValues = map[string]string{
	"firstName": "Anna",
	"lastName":  "de Vries",
	"email":     "anna@example.nl",
	"phone":     "+31 6 1234 5678",
	"message":   "Graag een offerte voor een nieuwe website.",
}

// MustParse parses markup or fails the test.
func MustParse(t testing.TB, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

// MustWindow builds a window at rawURL or fails the test.
func MustWindow(t testing.TB, rawURL string, options ...dom.WindowOption) *dom.Window {
	t.Helper()
	win, err := dom.NewWindow(rawURL, options...)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	return win
}

// FillContactForm writes ContactValues into the page and ticks the privacy
// checkbox.
func FillContactForm(t testing.TB, doc *dom.Document) {
	t.Helper()
	for name, value := range ContactValues {
		el := doc.Query(dom.AttrEquals("name", name))
		if el == nil {
			t.Fatalf("field %q not found", name)
		}
		el.SetValue(value)
	}
	privacy := doc.Query(dom.ID("privacy"))
	if privacy == nil {
		t.Fatalf("privacy checkbox not found")
	}
	privacy.SetChecked(true)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
