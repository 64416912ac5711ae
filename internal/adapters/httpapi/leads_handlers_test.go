package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi/wire"
)

func TestCreateLead(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	body := []byte(`{"email":"buyer@example.com","name":"  jane  doe ","source":"vessel-enquiry","vesselSlug":"swan-65-tern","message":"Is she still available?"}`)
	rec := env.do(t, http.MethodPost, "/leads", body, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var got wire.CreateLeadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.LeadId == "" {
		t.Fatalf("expected lead id")
	}

	ls, err := env.leads.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ls) != 1 || string(ls[0].ID) != got.LeadId {
		t.Fatalf("unexpected stored leads %+v", ls)
	}
	if ls[0].Name == nil || *ls[0].Name != "jane doe" {
		t.Fatalf("expected normalized name, got %v", ls[0].Name)
	}
}

func TestCreateLead_Invalid(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{name: "bad email", body: `{"email":"not-an-email","source":"newsletter"}`, field: "email"},
		{name: "missing source", body: `{"email":"buyer@example.com","source":"  "}`, field: "source"},
	}
	for _, tc := range cases {
		rec := env.do(t, http.MethodPost, "/leads", []byte(tc.body), map[string]string{"Content-Type": "application/json"})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d body=%s", tc.name, rec.Code, rec.Body.String())
		}
		er := decodeError(t, rec)
		details, err := er.Details.Get()
		if err != nil {
			t.Fatalf("%s: expected details: %v", tc.name, err)
		}
		if _, ok := details[tc.field]; !ok {
			t.Fatalf("%s: expected %s detail, got %v", tc.name, tc.field, details)
		}
	}
	if ls, _ := env.leads.List(context.Background()); len(ls) != 0 {
		t.Fatalf("invalid leads must not be stored")
	}
}
