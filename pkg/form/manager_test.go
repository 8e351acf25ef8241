package form_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-siteform/pkg/dom"
	"github.com/goliatone/go-siteform/pkg/form"
	"github.com/goliatone/go-siteform/pkg/submit"
	"github.com/goliatone/go-siteform/pkg/testsupport"
)

const twoForms = `<html><body>
<form id="contact"><input name="email" type="email" required><button type="submit">Go</button></form>
<div class="c-form" id="newsletter"><input name="email" type="email" required></div>
</body></html>`

func TestManagerBindsEveryForm(t *testing.T) {
	doc := testsupport.MustParse(t, twoForms)
	sched := testsupport.NewFakeScheduler()
	transport := testsupport.NewStubTransport(submit.Success(""))

	m, err := form.NewManager(doc, form.WithScheduler(sched), form.WithTransport(transport))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer m.Close()

	controllers := m.Controllers()
	if len(controllers) != 2 {
		t.Fatalf("expected two controllers, got %d", len(controllers))
	}
	if controllers[0].Form().ID() != "contact" || controllers[1].Form().ID() != "newsletter" {
		t.Fatalf("unexpected order")
	}

	for _, c := range controllers {
		if got := c.Submit(context.Background()).Outcome; got != form.OutcomeInvalid {
			t.Fatalf("%s outcome = %s", c.Form().ID(), got)
		}
	}
	if got := len(doc.QueryAll(dom.Class("c-notification-container"))); got != 1 {
		t.Fatalf("expected one shared container, got %d", got)
	}
	if got := len(doc.QueryAll(dom.AttrEquals("role", "alert"))); got != 2 {
		t.Fatalf("expected two alerts, got %d", got)
	}
}

func TestManagerWithoutDocument(t *testing.T) {
	m, err := form.NewManager(nil, form.WithScheduler(testsupport.NewFakeScheduler()))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if len(m.Controllers()) != 0 {
		t.Fatalf("expected no controllers")
	}
}
