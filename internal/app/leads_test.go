package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"marzi/internal/app"
	"marzi/internal/domain"
)

type recordingStore struct {
	appends   []appendCall
	appendErr error
}

func (r *recordingStore) FetchSheet(ctx context.Context, sheet string) ([]map[string]any, error) {
	return nil, errors.New("unexpected fetch")
}

func (r *recordingStore) AppendRow(ctx context.Context, sheet string, row map[string]any) error {
	r.appends = append(r.appends, appendCall{sheet: sheet, row: row})
	return r.appendErr
}

func TestSubmit_MissingNameFailsWithoutNetworkCall(t *testing.T) {
	store := &recordingStore{}
	svc := app.NewLeadService(store)

	res := svc.Submit(context.Background(), domain.LeadForm{
		Name: "", Email: "a@b.com", Phone: "123",
	})
	if res.Success {
		t.Fatalf("expected failure for empty name")
	}
	if res.Error == "" {
		t.Fatalf("expected a non-empty error message")
	}
	if len(store.appends) != 0 {
		t.Fatalf("invalid form must not reach the store, got %d appends", len(store.appends))
	}
}

func TestSubmit_BadEmailRejected(t *testing.T) {
	store := &recordingStore{}
	svc := app.NewLeadService(store)

	res := svc.Submit(context.Background(), domain.LeadForm{
		Name: "Asha", Email: "not-an-email", Phone: "123",
	})
	if res.Success || len(store.appends) != 0 {
		t.Fatalf("expected validation failure before any store call: %+v", res)
	}
}

func TestSubmit_AppendsStampedRow(t *testing.T) {
	store := &recordingStore{}
	svc := app.NewLeadService(store)

	before := time.Now().UTC().Add(-time.Second)
	res := svc.Submit(context.Background(), domain.LeadForm{
		PackageID: "p2",
		Name:      "Asha",
		Email:     "asha@example.com",
		Phone:     "+91 98765 43210",
		Message:   "Interested in the Kerala trip",
	})
	after := time.Now().UTC().Add(time.Second)

	if !res.Success || res.Error != "" {
		t.Fatalf("expected success, got %+v", res)
	}
	if len(store.appends) != 1 {
		t.Fatalf("expected one append, got %d", len(store.appends))
	}
	call := store.appends[0]
	if call.sheet != app.SheetLeads {
		t.Fatalf("lead must go to the leads sheet, got %q", call.sheet)
	}
	if call.row["name"] != "Asha" || call.row["email"] != "asha@example.com" || call.row["packageId"] != "p2" {
		t.Fatalf("unexpected row: %+v", call.row)
	}

	// date is stamped by the service, RFC 3339 UTC
	stamp, ok := call.row["date"].(string)
	if !ok {
		t.Fatalf("date missing from row: %+v", call.row)
	}
	ts, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		t.Fatalf("date %q not RFC 3339: %v", stamp, err)
	}
	if ts.Before(before) || ts.After(after) {
		t.Fatalf("date %v outside submission window", ts)
	}
}

func TestSubmit_StoreFailureBecomesResult(t *testing.T) {
	store := &recordingStore{appendErr: &domain.UpstreamError{URL: "fake", Status: 500, Message: "boom"}}
	svc := app.NewLeadService(store)

	res := svc.Submit(context.Background(), domain.LeadForm{
		Name: "Asha", Email: "asha@example.com", Phone: "123",
	})
	if res.Success {
		t.Fatalf("expected failure result")
	}
	if res.Error == "" {
		t.Fatalf("expected a human-readable message")
	}
}

func TestValidate_MessageForMissingFields(t *testing.T) {
	svc := app.NewLeadService(&recordingStore{})
	if msg := svc.Validate(domain.LeadForm{Email: "a@b.com", Phone: "1"}); msg == "" {
		t.Fatalf("expected message for missing name")
	}
	if msg := svc.Validate(domain.LeadForm{Name: "A", Email: "a@b.com", Phone: "1"}); msg != "" {
		t.Fatalf("valid form should produce no message, got %q", msg)
	}
}
