package form

import (
	"context"
	"errors"
	"sync"
	"testing"

	"registrar/internal/dto"
	"registrar/internal/model"
	"registrar/pkg/validator"
)

type fakeSubmitter struct {
	mu      sync.Mutex
	calls   int
	resp    dto.SubmissionResponse
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *fakeSubmitter) Submit(_ context.Context, _ model.RegistrationForm) (dto.SubmissionResponse, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.resp, s.err
}

func (s *fakeSubmitter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func fill(t *testing.T, c *Controller) {
	t.Helper()
	values := map[validator.Field]string{
		validator.FieldName:            "Jane Doe",
		validator.FieldBranch:          "banasree",
		validator.FieldBatch:           "2015-2016",
		validator.FieldWhatsappNumber:  "01712345678",
		validator.FieldPaymentMethod:   "bkash",
		validator.FieldSendMoneyNumber: "01892747691",
		validator.FieldTransactionID:   "TXN123",
	}
	for f, v := range values {
		if err := c.UpdateField(f, v); err != nil {
			t.Fatalf("UpdateField(%s): %v", f, err)
		}
	}
}

func TestUpdateFieldClearsError(t *testing.T) {
	c := New(&fakeSubmitter{}, nil)

	errs := c.ValidateLocally()
	if errs[validator.FieldName] != "Name is required" {
		t.Fatalf("expected name error, got %v", errs)
	}

	if err := c.UpdateField(validator.FieldName, "Jane"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Errors()[validator.FieldName]; ok {
		t.Error("expected name error to be cleared")
	}
	if _, ok := c.Errors()[validator.FieldBatch]; !ok {
		t.Error("expected other errors to stay")
	}
	if c.Form().Name != "Jane" {
		t.Errorf("expected name to be stored, got %q", c.Form().Name)
	}

	if err := c.UpdateField("email", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestValidateLocallyAcceptsValidRecord(t *testing.T) {
	c := New(&fakeSubmitter{}, nil)
	fill(t, c)
	if errs := c.ValidateLocally(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestSubmitInvalidFormDoesNotCallServer(t *testing.T) {
	s := &fakeSubmitter{}
	c := New(s, nil)
	fill(t, c)
	_ = c.UpdateField(validator.FieldWhatsappNumber, "1712345678")

	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm, got %v", err)
	}
	if s.Calls() != 0 {
		t.Errorf("expected no remote call, got %d", s.Calls())
	}
	if c.Errors()[validator.FieldWhatsappNumber] == "" {
		t.Error("expected whatsapp error")
	}
}

func TestSubmitSuccessResetsForm(t *testing.T) {
	s := &fakeSubmitter{resp: dto.SubmissionResponse{Success: true, Message: dto.MessageSubmitted}}
	c := New(s, nil)
	fill(t, c)

	resp, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Errorf("expected success, got %+v", resp)
	}
	if c.Form() != (model.RegistrationForm{}) {
		t.Errorf("expected empty form, got %+v", c.Form())
	}
	if len(c.Errors()) != 0 {
		t.Errorf("expected no errors, got %v", c.Errors())
	}
	if c.Busy() {
		t.Error("expected busy flag to be cleared")
	}
	if last, ok := c.LastResponse(); !ok || !last.Success {
		t.Errorf("unexpected last response %+v", last)
	}
}

func TestSubmitFieldErrorFromServer(t *testing.T) {
	tests := []struct {
		token string
		field validator.Field
	}{
		{"invalid_name", validator.FieldName},
		{"invalid_whatsapp", validator.FieldWhatsappNumber},
		{"invalid_send_money", validator.FieldSendMoneyNumber},
		{"invalid_branch", validator.FieldBranch},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			s := &fakeSubmitter{resp: dto.SubmissionResponse{Message: "rejected by server", Error: tt.token}}
			c := New(s, nil)
			fill(t, c)
			before := c.Form()

			resp, err := c.Submit(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Success {
				t.Fatal("expected failure")
			}
			if got := c.Errors()[tt.field]; got != "rejected by server" {
				t.Errorf("expected message in %s slot, got %q", tt.field, got)
			}
			if c.Form() != before {
				t.Error("expected form to be kept after failure")
			}
		})
	}
}

func TestSubmitStoreErrorIsNotFieldSpecific(t *testing.T) {
	s := &fakeSubmitter{resp: dto.SubmissionResponse{Message: dto.MessageStoreFailed, Error: "connection refused"}}
	c := New(s, nil)
	fill(t, c)

	resp, _ := c.Submit(context.Background())
	if resp.Success || resp.Message != dto.MessageStoreFailed {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(c.Errors()) != 0 {
		t.Errorf("expected no field errors, got %v", c.Errors())
	}
}

func TestSubmitTransportError(t *testing.T) {
	s := &fakeSubmitter{err: errors.New("dial tcp: connection refused")}
	c := New(s, nil)
	fill(t, c)

	resp, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Success || resp.Message != dto.MessageUnexpectedError {
		t.Errorf("unexpected response %+v", resp)
	}
	if c.Busy() {
		t.Error("expected busy flag to be cleared")
	}
	if c.Form().Name != "Jane Doe" {
		t.Error("expected form to be kept after transport error")
	}
}

func TestSubmitIsNotReentrant(t *testing.T) {
	s := &fakeSubmitter{
		resp:    dto.SubmissionResponse{Success: true, Message: dto.MessageSubmitted},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := New(s, nil)
	fill(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	<-s.started
	if !c.Busy() {
		t.Error("expected busy flag while call is outstanding")
	}
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("expected ErrSubmitInFlight, got %v", err)
	}

	close(s.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if s.Calls() != 1 {
		t.Errorf("expected exactly 1 remote call, got %d", s.Calls())
	}
	if c.Busy() {
		t.Error("expected busy flag to be cleared")
	}
}

func TestClear(t *testing.T) {
	c := New(&fakeSubmitter{}, nil)
	fill(t, c)
	_ = c.UpdateField(validator.FieldName, "J4ne")
	c.ValidateLocally()

	c.Clear()
	if c.Form() != (model.RegistrationForm{}) || len(c.Errors()) != 0 {
		t.Errorf("expected cleared state, got %+v %v", c.Form(), c.Errors())
	}
}
